package legacy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snupai/mira/internal/application/port"
	"github.com/snupai/mira/internal/domain/entity"
	"github.com/snupai/mira/internal/settings"
)

// Legacy flat-file names, one JSON document per collection
const (
	ProfileFile   = "profile.json"
	ClientsFile   = "clients.json"
	InvoicesFile  = "invoices.json"
	TemplatesFile = "templates.json"
)

// Files lists all legacy collection files
func Files() []string {
	return []string{ProfileFile, ClientsFile, InvoicesFile, TemplatesFile}
}

// Store reads and writes the legacy flat-file JSON representation.
// Once migration status is completed, every save becomes a logged no-op so
// stale legacy files can never be resurrected.
type Store struct {
	dir      string
	settings *settings.Store
	logger   *zap.Logger
}

// NewStore creates a legacy store over the given data directory
func NewStore(dir string, settings *settings.Store, logger *zap.Logger) *Store {
	return &Store{
		dir:      dir,
		settings: settings,
		logger:   logger,
	}
}

var _ port.DataStore = (*Store)(nil)

// ProfileExists reports whether the legacy profile file is present
func (s *Store) ProfileExists() bool {
	_, err := os.Stat(filepath.Join(s.dir, ProfileFile))
	return err == nil
}

// Profile returns the legacy profile, or nil when the file is missing or
// unparsable
func (s *Store) Profile(ctx context.Context) (*entity.CompanyProfile, error) {
	var profile entity.CompanyProfile
	if !s.readJSON(ProfileFile, &profile) {
		return nil, nil
	}
	return &profile, nil
}

// SaveProfile writes the legacy profile file
func (s *Store) SaveProfile(ctx context.Context, profile *entity.CompanyProfile) error {
	if s.migrated("SaveProfile") {
		return nil
	}
	return s.writeJSON(ProfileFile, profile)
}

// Clients returns all legacy clients; a missing or unparsable file yields
// an empty list
func (s *Store) Clients(ctx context.Context) ([]*entity.Client, error) {
	var clients []*entity.Client
	s.readJSON(ClientsFile, &clients)
	return clients, nil
}

// ClientByID returns a client by identifier, or nil when not found
func (s *Store) ClientByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	clients, _ := s.Clients(ctx)
	for _, client := range clients {
		if client.ID == id {
			return client, nil
		}
	}
	return nil, nil
}

// SaveClient inserts or replaces a client by identifier
func (s *Store) SaveClient(ctx context.Context, client *entity.Client) error {
	if s.migrated("SaveClient") {
		return nil
	}

	clients, _ := s.Clients(ctx)
	clients = upsert(clients, client, func(c *entity.Client) uuid.UUID { return c.ID })
	return s.writeJSON(ClientsFile, clients)
}

// DeleteClient removes a client and nullifies the client reference of its
// invoices
func (s *Store) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if s.migrated("DeleteClient") {
		return nil
	}

	clients, _ := s.Clients(ctx)
	clients = remove(clients, id, func(c *entity.Client) uuid.UUID { return c.ID })
	if err := s.writeJSON(ClientsFile, clients); err != nil {
		return err
	}

	invoices, _ := s.Invoices(ctx)
	changed := false
	for _, invoice := range invoices {
		if invoice.ClientID == id {
			invoice.ClientID = uuid.Nil
			changed = true
		}
	}
	if changed {
		return s.writeJSON(InvoicesFile, invoices)
	}
	return nil
}

// Invoices returns all legacy invoices; a missing or unparsable file yields
// an empty list
func (s *Store) Invoices(ctx context.Context) ([]*entity.Invoice, error) {
	var invoices []*entity.Invoice
	s.readJSON(InvoicesFile, &invoices)
	return invoices, nil
}

// InvoiceByID returns an invoice by identifier, or nil when not found
func (s *Store) InvoiceByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoices, _ := s.Invoices(ctx)
	for _, invoice := range invoices {
		if invoice.ID == id {
			return invoice, nil
		}
	}
	return nil, nil
}

// SaveInvoice inserts or replaces an invoice by identifier
func (s *Store) SaveInvoice(ctx context.Context, invoice *entity.Invoice) error {
	if s.migrated("SaveInvoice") {
		return nil
	}

	invoices, _ := s.Invoices(ctx)
	invoices = upsert(invoices, invoice, func(i *entity.Invoice) uuid.UUID { return i.ID })
	return s.writeJSON(InvoicesFile, invoices)
}

// DeleteInvoice removes an invoice by identifier
func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	if s.migrated("DeleteInvoice") {
		return nil
	}

	invoices, _ := s.Invoices(ctx)
	invoices = remove(invoices, id, func(i *entity.Invoice) uuid.UUID { return i.ID })
	return s.writeJSON(InvoicesFile, invoices)
}

// Templates returns all legacy templates; a missing or unparsable file
// yields an empty list
func (s *Store) Templates(ctx context.Context) ([]*entity.InvoiceTemplate, error) {
	var templates []*entity.InvoiceTemplate
	s.readJSON(TemplatesFile, &templates)
	return templates, nil
}

// TemplateByID returns a template by identifier, or nil when not found
func (s *Store) TemplateByID(ctx context.Context, id uuid.UUID) (*entity.InvoiceTemplate, error) {
	templates, _ := s.Templates(ctx)
	for _, template := range templates {
		if template.ID == id {
			return template, nil
		}
	}
	return nil, nil
}

// SaveTemplate inserts or replaces a template by identifier
func (s *Store) SaveTemplate(ctx context.Context, template *entity.InvoiceTemplate) error {
	if s.migrated("SaveTemplate") {
		return nil
	}

	templates, _ := s.Templates(ctx)
	templates = upsert(templates, template, func(t *entity.InvoiceTemplate) uuid.UUID { return t.ID })
	return s.writeJSON(TemplatesFile, templates)
}

// DeleteTemplate removes a template by identifier
func (s *Store) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if s.migrated("DeleteTemplate") {
		return nil
	}

	templates, _ := s.Templates(ctx)
	templates = remove(templates, id, func(t *entity.InvoiceTemplate) uuid.UUID { return t.ID })
	return s.writeJSON(TemplatesFile, templates)
}

// migrated guards legacy writes after migration completed
func (s *Store) migrated(op string) bool {
	if s.settings.MigrationStatus() != settings.MigrationCompleted {
		return false
	}
	s.logger.Warn("Legacy save skipped, migration already completed",
		zap.String("operation", op))
	return true
}

// readJSON loads a legacy file. Missing or corrupt files degrade to "no
// data" rather than failing; corruption is logged.
func (s *Store) readJSON(name string, out interface{}) bool {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read legacy file",
				zap.String("file", name),
				zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("Failed to parse legacy file, treating as empty",
			zap.String("file", name),
			zap.Error(err))
		return false
	}
	return true
}

func (s *Store) writeJSON(name string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func upsert[T any](list []*T, item *T, id func(*T) uuid.UUID) []*T {
	for i, existing := range list {
		if id(existing) == id(item) {
			list[i] = item
			return list
		}
	}
	return append(list, item)
}

func remove[T any](list []*T, target uuid.UUID, id func(*T) uuid.UUID) []*T {
	out := list[:0]
	for _, existing := range list {
		if id(existing) != target {
			out = append(out, existing)
		}
	}
	return out
}
