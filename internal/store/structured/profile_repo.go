package structured

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snupai/mira/internal/codec"
	"github.com/snupai/mira/pkg/database"
)

// ProfileRepository persists the singleton company profile record
type ProfileRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves the profile record, or nil when none exists
func (r *ProfileRepository) Get(ctx context.Context) (*codec.ProfileRecord, error) {
	query := `
		SELECT id, company_name, owner_name, email, phone, website,
			street, city, postal_code, country,
			encrypted_vat_id, encrypted_tax_number, company_registry, is_vat_exempt,
			encrypted_bank_name, encrypted_iban, encrypted_bic, encrypted_account_holder,
			logo_data, brand_color_hex,
			default_currency, default_payment_terms_days, default_vat_rate,
			invoice_number_prefix, next_invoice_number,
			locale, date_format, email_template
		FROM company_profiles
		LIMIT 1
	`

	var rec codec.ProfileRecord
	var id string

	err := r.db.Executor(ctx).QueryRowContext(ctx, query).Scan(
		&id,
		&rec.CompanyName,
		&rec.OwnerName,
		&rec.Email,
		&rec.Phone,
		&rec.Website,
		&rec.Street,
		&rec.City,
		&rec.PostalCode,
		&rec.Country,
		&rec.EncryptedVATID,
		&rec.EncryptedTaxNumber,
		&rec.CompanyRegistry,
		&rec.IsVATExempt,
		&rec.EncryptedBankName,
		&rec.EncryptedIBAN,
		&rec.EncryptedBIC,
		&rec.EncryptedAccountHolder,
		&rec.LogoData,
		&rec.BrandColorHex,
		&rec.DefaultCurrency,
		&rec.DefaultPaymentTermsDays,
		&rec.DefaultVATRate,
		&rec.InvoiceNumberPrefix,
		&rec.NextInvoiceNumber,
		&rec.Locale,
		&rec.DateFormat,
		&rec.EmailTemplate,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get profile", zap.Error(err))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid profile id %q: %w", id, err)
	}
	rec.ID = parsed

	return &rec, nil
}

// Save inserts or replaces the profile record keyed by identifier.
// Replaying the same record is idempotent.
func (r *ProfileRepository) Save(ctx context.Context, rec *codec.ProfileRecord) error {
	query := `
		INSERT OR REPLACE INTO company_profiles (
			id, company_name, owner_name, email, phone, website,
			street, city, postal_code, country,
			encrypted_vat_id, encrypted_tax_number, company_registry, is_vat_exempt,
			encrypted_bank_name, encrypted_iban, encrypted_bic, encrypted_account_holder,
			logo_data, brand_color_hex,
			default_currency, default_payment_terms_days, default_vat_rate,
			invoice_number_prefix, next_invoice_number,
			locale, date_format, email_template
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		rec.ID.String(),
		rec.CompanyName,
		rec.OwnerName,
		rec.Email,
		rec.Phone,
		rec.Website,
		rec.Street,
		rec.City,
		rec.PostalCode,
		rec.Country,
		rec.EncryptedVATID,
		rec.EncryptedTaxNumber,
		rec.CompanyRegistry,
		rec.IsVATExempt,
		rec.EncryptedBankName,
		rec.EncryptedIBAN,
		rec.EncryptedBIC,
		rec.EncryptedAccountHolder,
		rec.LogoData,
		rec.BrandColorHex,
		rec.DefaultCurrency,
		rec.DefaultPaymentTermsDays,
		rec.DefaultVATRate,
		rec.InvoiceNumberPrefix,
		rec.NextInvoiceNumber,
		rec.Locale,
		rec.DateFormat,
		rec.EmailTemplate,
	)
	if err != nil {
		r.logger.Error("Failed to save profile", zap.Error(err))
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}
