package entity

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceTemplate is a canned set of line items used to pre-populate a new
// invoice. It optionally references a default client but does not own it,
// and has no lifecycle dependency on invoices created from it.
// JSON tags are the stable legacy file field names.
type InvoiceTemplate struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`

	LineItems       []LineItem `json:"lineItems"`
	Notes           string     `json:"notes"`
	PaymentNotes    string     `json:"paymentNotes"`
	DefaultClientID *uuid.UUID `json:"defaultClientId,omitempty"`
}

// NewInvoiceTemplate creates a template with generated identifier
func NewInvoiceTemplate(name string) *InvoiceTemplate {
	return &InvoiceTemplate{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// Instantiate pre-populates a draft invoice from the template.
// Line items receive fresh identifiers so edits never write back.
func (t *InvoiceTemplate) Instantiate(clientID uuid.UUID, paymentTermsDays int) *Invoice {
	inv := NewInvoice(clientID, paymentTermsDays)
	inv.Notes = t.Notes
	inv.PaymentNotes = t.PaymentNotes
	inv.LineItems = make([]LineItem, len(t.LineItems))
	for i, item := range t.LineItems {
		item.ID = uuid.New()
		inv.LineItems[i] = item
	}
	return inv
}
