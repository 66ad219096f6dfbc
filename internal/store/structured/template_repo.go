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

// TemplateRepository persists invoice template records
type TemplateRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *database.DB, logger *zap.Logger) *TemplateRepository {
	return &TemplateRepository{
		db:     db,
		logger: logger,
	}
}

const templateColumns = `
	id, name, description, created_at,
	line_items, notes, payment_notes, default_client_id
`

// List retrieves all template records ordered by name
func (r *TemplateRepository) List(ctx context.Context) ([]*codec.TemplateRecord, error) {
	query := `SELECT ` + templateColumns + ` FROM invoice_templates ORDER BY name, id`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list templates", zap.Error(err))
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var records []*codec.TemplateRecord
	for rows.Next() {
		rec, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetByID retrieves a template record by identifier, or nil when not found
func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*codec.TemplateRecord, error) {
	query := `SELECT ` + templateColumns + ` FROM invoice_templates WHERE id = ?`

	row := r.db.Executor(ctx).QueryRowContext(ctx, query, id.String())
	rec, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get template", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return rec, nil
}

// Save inserts or replaces a template record keyed by identifier.
// Replaying the same record is idempotent.
func (r *TemplateRepository) Save(ctx context.Context, rec *codec.TemplateRecord) error {
	query := `
		INSERT OR REPLACE INTO invoice_templates (` + templateColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var defaultClientID interface{}
	if rec.DefaultClientID != nil {
		defaultClientID = rec.DefaultClientID.String()
	}

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		rec.ID.String(),
		rec.Name,
		rec.Description,
		rec.CreatedAt,
		rec.LineItemsJSON,
		rec.Notes,
		rec.PaymentNotes,
		defaultClientID,
	)
	if err != nil {
		r.logger.Error("Failed to save template", zap.String("id", rec.ID.String()), zap.Error(err))
		return fmt.Errorf("failed to save template: %w", err)
	}
	return nil
}

// Delete removes a template by identifier
func (r *TemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Executor(ctx).ExecContext(ctx, `DELETE FROM invoice_templates WHERE id = ?`, id.String())
	if err != nil {
		r.logger.Error("Failed to delete template", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

func scanTemplate(row rowScanner) (*codec.TemplateRecord, error) {
	var rec codec.TemplateRecord
	var id string
	var defaultClientID sql.NullString

	err := row.Scan(
		&id,
		&rec.Name,
		&rec.Description,
		&rec.CreatedAt,
		&rec.LineItemsJSON,
		&rec.Notes,
		&rec.PaymentNotes,
		&defaultClientID,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid template id %q: %w", id, err)
	}
	rec.ID = parsed

	if defaultClientID.Valid {
		parsed, err := uuid.Parse(defaultClientID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid default client id %q: %w", defaultClientID.String, err)
		}
		rec.DefaultClientID = &parsed
	}

	return &rec, nil
}
