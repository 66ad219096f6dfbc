package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/snupai/mira/internal/domain/entity"
)

// DataStore is the single persistence contract the feature layer talks to.
// It is implemented by the legacy flat-file store, the structured store and
// the compatibility router that dispatches between them.
type DataStore interface {
	// Profile returns the singleton company profile, or nil when absent
	Profile(ctx context.Context) (*entity.CompanyProfile, error)
	SaveProfile(ctx context.Context, profile *entity.CompanyProfile) error

	Clients(ctx context.Context) ([]*entity.Client, error)
	ClientByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)
	SaveClient(ctx context.Context, client *entity.Client) error
	// DeleteClient removes a client and nullifies the client reference of
	// its invoices; invoices are never cascade-deleted
	DeleteClient(ctx context.Context, id uuid.UUID) error

	Invoices(ctx context.Context) ([]*entity.Invoice, error)
	InvoiceByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	SaveInvoice(ctx context.Context, invoice *entity.Invoice) error
	DeleteInvoice(ctx context.Context, id uuid.UUID) error

	Templates(ctx context.Context) ([]*entity.InvoiceTemplate, error)
	TemplateByID(ctx context.Context, id uuid.UUID) (*entity.InvoiceTemplate, error)
	SaveTemplate(ctx context.Context, template *entity.InvoiceTemplate) error
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
}
