package structured

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snupai/mira/internal/application/port"
	"github.com/snupai/mira/internal/codec"
	"github.com/snupai/mira/internal/domain/entity"
	"github.com/snupai/mira/pkg/database"
)

// Store is the encrypted, relational local database. It maps entities
// through the codec and delegates persistence to per-entity repositories.
type Store struct {
	db        *database.DB
	codec     *codec.Codec
	profiles  *ProfileRepository
	clients   *ClientRepository
	invoices  *InvoiceRepository
	templates *TemplateRepository
	logger    *zap.Logger
}

// NewStore creates the structured store over an open database
func NewStore(db *database.DB, c *codec.Codec, logger *zap.Logger) *Store {
	return &Store{
		db:        db,
		codec:     c,
		profiles:  NewProfileRepository(db, logger),
		clients:   NewClientRepository(db, logger),
		invoices:  NewInvoiceRepository(db, logger),
		templates: NewTemplateRepository(db, logger),
		logger:    logger,
	}
}

// Open connects to the database, applies the schema and returns the store
func Open(cfg database.Config, c *codec.Codec, logger *zap.Logger) (*Store, error) {
	db, err := database.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(Schema()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return NewStore(db, c, logger), nil
}

var _ port.DataStore = (*Store)(nil)

// DB exposes the underlying database for transaction scoping
func (s *Store) DB() *database.DB {
	return s.db
}

// WithTransaction stages all writes of fn in one database transaction
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.WithTransaction(ctx, fn)
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Profile returns the singleton company profile, or nil when absent
func (s *Store) Profile(ctx context.Context) (*entity.CompanyProfile, error) {
	rec, err := s.profiles.Get(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return s.codec.DecodeProfile(rec), nil
}

// SaveProfile persists the profile with sensitive fields encrypted
func (s *Store) SaveProfile(ctx context.Context, profile *entity.CompanyProfile) error {
	rec, err := s.codec.EncodeProfile(profile)
	if err != nil {
		return err
	}
	return s.profiles.Save(ctx, rec)
}

// Clients returns all clients with sensitive fields decrypted
func (s *Store) Clients(ctx context.Context) ([]*entity.Client, error) {
	records, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}

	clients := make([]*entity.Client, 0, len(records))
	for _, rec := range records {
		clients = append(clients, s.codec.DecodeClient(rec))
	}
	return clients, nil
}

// ClientByID returns a client by identifier, or nil when not found
func (s *Store) ClientByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	rec, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return s.codec.DecodeClient(rec), nil
}

// SaveClient persists a client with sensitive fields encrypted
func (s *Store) SaveClient(ctx context.Context, client *entity.Client) error {
	rec, err := s.codec.EncodeClient(client)
	if err != nil {
		return err
	}
	return s.clients.Save(ctx, rec)
}

// DeleteClient removes a client; its invoices keep existing with a
// nullified client reference
func (s *Store) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return s.clients.Delete(ctx, id)
}

// Invoices returns all invoices with sensitive fields decrypted
func (s *Store) Invoices(ctx context.Context) ([]*entity.Invoice, error) {
	records, err := s.invoices.List(ctx)
	if err != nil {
		return nil, err
	}

	invoices := make([]*entity.Invoice, 0, len(records))
	for _, rec := range records {
		invoices = append(invoices, s.codec.DecodeInvoice(rec))
	}
	return invoices, nil
}

// InvoiceByID returns an invoice by identifier, or nil when not found
func (s *Store) InvoiceByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	rec, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return s.codec.DecodeInvoice(rec), nil
}

// SaveInvoice persists an invoice with sensitive fields encrypted
func (s *Store) SaveInvoice(ctx context.Context, invoice *entity.Invoice) error {
	rec, err := s.codec.EncodeInvoice(invoice)
	if err != nil {
		return err
	}
	return s.invoices.Save(ctx, rec)
}

// DeleteInvoice removes an invoice by identifier
func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	return s.invoices.Delete(ctx, id)
}

// Templates returns all invoice templates
func (s *Store) Templates(ctx context.Context) ([]*entity.InvoiceTemplate, error) {
	records, err := s.templates.List(ctx)
	if err != nil {
		return nil, err
	}

	templates := make([]*entity.InvoiceTemplate, 0, len(records))
	for _, rec := range records {
		templates = append(templates, s.codec.DecodeTemplate(rec))
	}
	return templates, nil
}

// TemplateByID returns a template by identifier, or nil when not found
func (s *Store) TemplateByID(ctx context.Context, id uuid.UUID) (*entity.InvoiceTemplate, error) {
	rec, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return s.codec.DecodeTemplate(rec), nil
}

// SaveTemplate persists a template
func (s *Store) SaveTemplate(ctx context.Context, template *entity.InvoiceTemplate) error {
	rec, err := s.codec.EncodeTemplate(template)
	if err != nil {
		return err
	}
	return s.templates.Save(ctx, rec)
}

// DeleteTemplate removes a template by identifier
func (s *Store) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return s.templates.Delete(ctx, id)
}
