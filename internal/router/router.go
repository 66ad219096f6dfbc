package router

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snupai/mira/internal/application/port"
	"github.com/snupai/mira/internal/domain/entity"
	"github.com/snupai/mira/internal/settings"
)

// CompatibilityRouter dispatches every persistence call to either the
// legacy flat-file store or the structured store based on the durable
// migration status flag. The switch is global: all entity types route to
// the same store, decided per call, so the first call after a completed
// migration already reads from the structured store.
type CompatibilityRouter struct {
	legacy     port.DataStore
	structured port.DataStore
	settings   *settings.Store
	logger     *zap.Logger
}

// New creates a compatibility router over the two stores
func New(legacy, structured port.DataStore, settingsStore *settings.Store, logger *zap.Logger) *CompatibilityRouter {
	return &CompatibilityRouter{
		legacy:     legacy,
		structured: structured,
		settings:   settingsStore,
		logger:     logger,
	}
}

var _ port.DataStore = (*CompatibilityRouter)(nil)

// Active returns the store that is currently authoritative
func (r *CompatibilityRouter) Active() port.DataStore {
	if r.settings.MigrationStatus() == settings.MigrationCompleted {
		return r.structured
	}
	return r.legacy
}

// UsingStructured reports whether calls currently route to the
// structured store
func (r *CompatibilityRouter) UsingStructured() bool {
	return r.settings.MigrationStatus() == settings.MigrationCompleted
}

func (r *CompatibilityRouter) Profile(ctx context.Context) (*entity.CompanyProfile, error) {
	return r.Active().Profile(ctx)
}

func (r *CompatibilityRouter) SaveProfile(ctx context.Context, profile *entity.CompanyProfile) error {
	return r.Active().SaveProfile(ctx, profile)
}

func (r *CompatibilityRouter) Clients(ctx context.Context) ([]*entity.Client, error) {
	return r.Active().Clients(ctx)
}

func (r *CompatibilityRouter) ClientByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	return r.Active().ClientByID(ctx, id)
}

func (r *CompatibilityRouter) SaveClient(ctx context.Context, client *entity.Client) error {
	return r.Active().SaveClient(ctx, client)
}

func (r *CompatibilityRouter) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return r.Active().DeleteClient(ctx, id)
}

func (r *CompatibilityRouter) Invoices(ctx context.Context) ([]*entity.Invoice, error) {
	return r.Active().Invoices(ctx)
}

func (r *CompatibilityRouter) InvoiceByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return r.Active().InvoiceByID(ctx, id)
}

func (r *CompatibilityRouter) SaveInvoice(ctx context.Context, invoice *entity.Invoice) error {
	return r.Active().SaveInvoice(ctx, invoice)
}

func (r *CompatibilityRouter) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	return r.Active().DeleteInvoice(ctx, id)
}

func (r *CompatibilityRouter) Templates(ctx context.Context) ([]*entity.InvoiceTemplate, error) {
	return r.Active().Templates(ctx)
}

func (r *CompatibilityRouter) TemplateByID(ctx context.Context, id uuid.UUID) (*entity.InvoiceTemplate, error) {
	return r.Active().TemplateByID(ctx, id)
}

func (r *CompatibilityRouter) SaveTemplate(ctx context.Context, template *entity.InvoiceTemplate) error {
	return r.Active().SaveTemplate(ctx, template)
}

func (r *CompatibilityRouter) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return r.Active().DeleteTemplate(ctx, id)
}
