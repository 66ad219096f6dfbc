package port

import (
	"context"

	"github.com/snupai/mira/internal/domain/entity"
)

// DocumentGenerator renders an invoice document from fully decrypted value
// objects. It never interacts with migration or encryption internals.
type DocumentGenerator interface {
	Generate(ctx context.Context, invoice *entity.Invoice, client *entity.Client, profile *entity.CompanyProfile, language string) ([]byte, error)
}

// ExchangeRateProvider returns the conversion rate between two currencies.
// The core consumes only the rate value, never the transport.
type ExchangeRateProvider interface {
	Rate(ctx context.Context, from, to entity.Currency) (float64, error)
}
