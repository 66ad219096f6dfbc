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

// ClientRepository persists client records
type ClientRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *database.DB, logger *zap.Logger) *ClientRepository {
	return &ClientRepository{
		db:     db,
		logger: logger,
	}
}

const clientColumns = `
	id, created_at, updated_at, name, contact_person,
	encrypted_email, encrypted_phone,
	street, city, postal_code, country,
	encrypted_vat_id, encrypted_tax_number,
	default_currency, default_payment_terms_days, default_vat_rate,
	language, notes
`

// List retrieves all client records ordered by name
func (r *ClientRepository) List(ctx context.Context) ([]*codec.ClientRecord, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name, id`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list clients", zap.Error(err))
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var records []*codec.ClientRecord
	for rows.Next() {
		rec, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetByID retrieves a client record by identifier, or nil when not found
func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*codec.ClientRecord, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ?`

	row := r.db.Executor(ctx).QueryRowContext(ctx, query, id.String())
	rec, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get client", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return rec, nil
}

// Save inserts or replaces a client record keyed by identifier.
// Replaying the same record is idempotent.
func (r *ClientRepository) Save(ctx context.Context, rec *codec.ClientRecord) error {
	query := `
		INSERT OR REPLACE INTO clients (` + clientColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		rec.ID.String(),
		rec.CreatedAt,
		rec.UpdatedAt,
		rec.Name,
		rec.ContactPerson,
		rec.EncryptedEmail,
		rec.EncryptedPhone,
		rec.Street,
		rec.City,
		rec.PostalCode,
		rec.Country,
		rec.EncryptedVATID,
		rec.EncryptedTaxNumber,
		rec.DefaultCurrency,
		rec.DefaultPaymentTermsDays,
		rec.DefaultVATRate,
		rec.Language,
		rec.Notes,
	)
	if err != nil {
		r.logger.Error("Failed to save client", zap.String("id", rec.ID.String()), zap.Error(err))
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

// Delete removes a client. The invoices foreign key nullifies the client
// reference of its invoices; they are never cascade-deleted.
func (r *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Executor(ctx).ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id.String())
	if err != nil {
		r.logger.Error("Failed to delete client", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (*codec.ClientRecord, error) {
	var rec codec.ClientRecord
	var id string
	var defaultCurrency sql.NullString
	var defaultTerms sql.NullInt64
	var defaultVATRate sql.NullFloat64

	err := row.Scan(
		&id,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.Name,
		&rec.ContactPerson,
		&rec.EncryptedEmail,
		&rec.EncryptedPhone,
		&rec.Street,
		&rec.City,
		&rec.PostalCode,
		&rec.Country,
		&rec.EncryptedVATID,
		&rec.EncryptedTaxNumber,
		&defaultCurrency,
		&defaultTerms,
		&defaultVATRate,
		&rec.Language,
		&rec.Notes,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid client id %q: %w", id, err)
	}
	rec.ID = parsed

	if defaultCurrency.Valid {
		rec.DefaultCurrency = &defaultCurrency.String
	}
	if defaultTerms.Valid {
		days := int(defaultTerms.Int64)
		rec.DefaultPaymentTermsDays = &days
	}
	if defaultVATRate.Valid {
		rec.DefaultVATRate = &defaultVATRate.Float64
	}

	return &rec, nil
}
