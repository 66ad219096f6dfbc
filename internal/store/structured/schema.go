package structured

import "github.com/snupai/mira/pkg/database"

// Schema returns the structured store schema migrations.
// Sensitive columns hold raw encrypted blobs, never text re-encodings.
func Schema() []database.Migration {
	return []database.Migration{
		{
			Version: 1,
			Name:    "create_company_profiles",
			SQL: `
				CREATE TABLE IF NOT EXISTS company_profiles (
					id TEXT PRIMARY KEY,
					company_name TEXT NOT NULL DEFAULT '',
					owner_name TEXT NOT NULL DEFAULT '',
					email TEXT NOT NULL DEFAULT '',
					phone TEXT NOT NULL DEFAULT '',
					website TEXT NOT NULL DEFAULT '',
					street TEXT NOT NULL DEFAULT '',
					city TEXT NOT NULL DEFAULT '',
					postal_code TEXT NOT NULL DEFAULT '',
					country TEXT NOT NULL DEFAULT '',
					encrypted_vat_id BLOB,
					encrypted_tax_number BLOB,
					company_registry TEXT NOT NULL DEFAULT '',
					is_vat_exempt INTEGER NOT NULL DEFAULT 0,
					encrypted_bank_name BLOB,
					encrypted_iban BLOB,
					encrypted_bic BLOB,
					encrypted_account_holder BLOB,
					logo_data BLOB,
					brand_color_hex TEXT NOT NULL DEFAULT '',
					default_currency TEXT NOT NULL DEFAULT 'EUR',
					default_payment_terms_days INTEGER NOT NULL DEFAULT 14,
					default_vat_rate REAL NOT NULL DEFAULT 19.0,
					invoice_number_prefix TEXT NOT NULL DEFAULT '',
					next_invoice_number INTEGER NOT NULL DEFAULT 1,
					locale TEXT NOT NULL DEFAULT '',
					date_format TEXT NOT NULL DEFAULT '',
					email_template TEXT NOT NULL DEFAULT ''
				);
			`,
		},
		{
			Version: 2,
			Name:    "create_clients",
			SQL: `
				CREATE TABLE IF NOT EXISTS clients (
					id TEXT PRIMARY KEY,
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL,
					name TEXT NOT NULL DEFAULT '',
					contact_person TEXT NOT NULL DEFAULT '',
					encrypted_email BLOB,
					encrypted_phone BLOB,
					street TEXT NOT NULL DEFAULT '',
					city TEXT NOT NULL DEFAULT '',
					postal_code TEXT NOT NULL DEFAULT '',
					country TEXT NOT NULL DEFAULT '',
					encrypted_vat_id BLOB,
					encrypted_tax_number BLOB,
					default_currency TEXT,
					default_payment_terms_days INTEGER,
					default_vat_rate REAL,
					language TEXT NOT NULL DEFAULT '',
					notes TEXT NOT NULL DEFAULT ''
				);
			`,
		},
		{
			Version: 3,
			Name:    "create_invoices",
			SQL: `
				CREATE TABLE IF NOT EXISTS invoices (
					id TEXT PRIMARY KEY,
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL,
					sent_at DATETIME,
					paid_at DATETIME,
					invoice_number TEXT NOT NULL DEFAULT '',
					client_id TEXT REFERENCES clients(id) ON DELETE SET NULL,
					status TEXT NOT NULL DEFAULT 'Draft',
					issue_date DATETIME NOT NULL,
					due_date DATETIME NOT NULL,
					service_date DATETIME,
					service_date_end DATETIME,
					line_items BLOB,
					currency TEXT NOT NULL DEFAULT 'EUR',
					discount_percent REAL NOT NULL DEFAULT 0,
					discount_fixed REAL NOT NULL DEFAULT 0,
					encrypted_payment_reference BLOB,
					payment_notes TEXT NOT NULL DEFAULT '',
					paid_exchange_rate REAL,
					paid_amount_in_base_currency REAL,
					notes TEXT NOT NULL DEFAULT '',
					encrypted_internal_notes BLOB,
					po_number TEXT NOT NULL DEFAULT '',
					project_code TEXT NOT NULL DEFAULT '',
					archived_pdf_hash TEXT NOT NULL DEFAULT '',
					archived_pdf_data BLOB,
					version INTEGER NOT NULL DEFAULT 1,
					previous_version_id TEXT
				);
				CREATE INDEX IF NOT EXISTS idx_invoices_client_id ON invoices(client_id);
				CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(status);
			`,
		},
		{
			Version: 4,
			Name:    "create_invoice_templates",
			SQL: `
				CREATE TABLE IF NOT EXISTS invoice_templates (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL DEFAULT '',
					created_at DATETIME NOT NULL,
					line_items BLOB,
					notes TEXT NOT NULL DEFAULT '',
					payment_notes TEXT NOT NULL DEFAULT '',
					default_client_id TEXT REFERENCES clients(id) ON DELETE SET NULL
				);
			`,
		},
	}
}
