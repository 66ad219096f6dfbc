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

// InvoiceRepository persists invoice records
type InvoiceRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *database.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

const invoiceColumns = `
	id, created_at, updated_at, sent_at, paid_at,
	invoice_number, client_id, status,
	issue_date, due_date, service_date, service_date_end,
	line_items, currency, discount_percent, discount_fixed,
	encrypted_payment_reference, payment_notes,
	paid_exchange_rate, paid_amount_in_base_currency,
	notes, encrypted_internal_notes,
	po_number, project_code,
	archived_pdf_hash, archived_pdf_data,
	version, previous_version_id
`

// List retrieves all invoice records, newest issue date first
func (r *InvoiceRepository) List(ctx context.Context) ([]*codec.InvoiceRecord, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY issue_date DESC, id`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var records []*codec.InvoiceRecord
	for rows.Next() {
		rec, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListByClient retrieves all invoices of one client
func (r *InvoiceRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*codec.InvoiceRecord, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE client_id = ? ORDER BY issue_date DESC, id`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, clientID.String())
	if err != nil {
		r.logger.Error("Failed to list invoices by client", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices by client: %w", err)
	}
	defer rows.Close()

	var records []*codec.InvoiceRecord
	for rows.Next() {
		rec, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetByID retrieves an invoice record by identifier, or nil when not found
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*codec.InvoiceRecord, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`

	row := r.db.Executor(ctx).QueryRowContext(ctx, query, id.String())
	rec, err := scanInvoice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return rec, nil
}

// Save inserts or replaces an invoice record keyed by identifier.
// Replaying the same record is idempotent.
func (r *InvoiceRepository) Save(ctx context.Context, rec *codec.InvoiceRecord) error {
	query := `
		INSERT OR REPLACE INTO invoices (` + invoiceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var clientID interface{}
	if rec.ClientID != nil {
		clientID = rec.ClientID.String()
	}
	var previousVersionID interface{}
	if rec.PreviousVersionID != nil {
		previousVersionID = rec.PreviousVersionID.String()
	}

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		rec.ID.String(),
		rec.CreatedAt,
		rec.UpdatedAt,
		rec.SentAt,
		rec.PaidAt,
		rec.InvoiceNumber,
		clientID,
		rec.StatusCode,
		rec.IssueDate,
		rec.DueDate,
		rec.ServiceDate,
		rec.ServiceDateEnd,
		rec.LineItemsJSON,
		rec.CurrencyCode,
		rec.DiscountPercent,
		rec.DiscountFixed,
		rec.EncryptedPaymentReference,
		rec.PaymentNotes,
		rec.PaidExchangeRate,
		rec.PaidAmountInBaseCurrency,
		rec.Notes,
		rec.EncryptedInternalNotes,
		rec.PONumber,
		rec.ProjectCode,
		rec.ArchivedPDFHash,
		rec.ArchivedPDFData,
		rec.Version,
		previousVersionID,
	)
	if err != nil {
		r.logger.Error("Failed to save invoice", zap.String("id", rec.ID.String()), zap.Error(err))
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

// Delete removes an invoice by identifier
func (r *InvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Executor(ctx).ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id.String())
	if err != nil {
		r.logger.Error("Failed to delete invoice", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return nil
}

func scanInvoice(row rowScanner) (*codec.InvoiceRecord, error) {
	var rec codec.InvoiceRecord
	var id string
	var sentAt, paidAt, serviceDate, serviceDateEnd sql.NullTime
	var clientID, previousVersionID sql.NullString
	var paidExchangeRate, paidAmountInBase sql.NullFloat64

	err := row.Scan(
		&id,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&sentAt,
		&paidAt,
		&rec.InvoiceNumber,
		&clientID,
		&rec.StatusCode,
		&rec.IssueDate,
		&rec.DueDate,
		&serviceDate,
		&serviceDateEnd,
		&rec.LineItemsJSON,
		&rec.CurrencyCode,
		&rec.DiscountPercent,
		&rec.DiscountFixed,
		&rec.EncryptedPaymentReference,
		&rec.PaymentNotes,
		&paidExchangeRate,
		&paidAmountInBase,
		&rec.Notes,
		&rec.EncryptedInternalNotes,
		&rec.PONumber,
		&rec.ProjectCode,
		&rec.ArchivedPDFHash,
		&rec.ArchivedPDFData,
		&rec.Version,
		&previousVersionID,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice id %q: %w", id, err)
	}
	rec.ID = parsed

	if sentAt.Valid {
		rec.SentAt = &sentAt.Time
	}
	if paidAt.Valid {
		rec.PaidAt = &paidAt.Time
	}
	if serviceDate.Valid {
		rec.ServiceDate = &serviceDate.Time
	}
	if serviceDateEnd.Valid {
		rec.ServiceDateEnd = &serviceDateEnd.Time
	}
	if clientID.Valid {
		parsed, err := uuid.Parse(clientID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid client id %q: %w", clientID.String, err)
		}
		rec.ClientID = &parsed
	}
	if previousVersionID.Valid {
		parsed, err := uuid.Parse(previousVersionID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid previous version id %q: %w", previousVersionID.String, err)
		}
		rec.PreviousVersionID = &parsed
	}
	if paidExchangeRate.Valid {
		rec.PaidExchangeRate = &paidExchangeRate.Float64
	}
	if paidAmountInBase.Valid {
		rec.PaidAmountInBaseCurrency = &paidAmountInBase.Float64
	}

	return &rec, nil
}
