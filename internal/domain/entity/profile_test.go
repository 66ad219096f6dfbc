package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInvoiceNumber(t *testing.T) {
	profile := NewCompanyProfile()
	profile.InvoiceNumberPrefix = "INV-"
	profile.NextInvoiceNumber = 1

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "INV-2026-0001", profile.GenerateInvoiceNumber(now))
	assert.Equal(t, "INV-2026-0002", profile.GenerateInvoiceNumber(now))
	assert.Equal(t, 3, profile.NextInvoiceNumber)
}

func TestGenerateInvoiceNumberCounterNeverResets(t *testing.T) {
	profile := NewCompanyProfile()
	profile.NextInvoiceNumber = 42

	// The counter keeps counting across a year change
	dec := time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC)
	jan := time.Date(2027, 1, 1, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, "INV-2026-0042", profile.GenerateInvoiceNumber(dec))
	assert.Equal(t, "INV-2027-0043", profile.GenerateInvoiceNumber(jan))
}

func TestEffectiveVATRate(t *testing.T) {
	profile := NewCompanyProfile()
	assert.Equal(t, 19.0, profile.EffectiveVATRate())

	profile.IsVATExempt = true
	assert.Equal(t, 0.0, profile.EffectiveVATRate())
}

func TestProfileIsComplete(t *testing.T) {
	profile := NewCompanyProfile()
	assert.False(t, profile.IsComplete())

	profile.CompanyName = "Musterfirma"
	profile.Email = "mail@example.com"
	profile.Street = "Hauptstraße 1"
	profile.City = "Berlin"
	profile.PostalCode = "10115"
	profile.IBAN = "DE89370400440532013000"
	assert.True(t, profile.IsComplete())
}

func TestRenderTemplate(t *testing.T) {
	profile := NewCompanyProfile()
	profile.EmailTemplate = "Dear {client}, invoice {number} over {amount} is attached."

	rendered := profile.RenderTemplate(map[string]string{
		"client": "Acme",
		"number": "INV-2026-0001",
		"amount": "1.428,00 €",
	})
	assert.Equal(t, "Dear Acme, invoice INV-2026-0001 over 1.428,00 € is attached.", rendered)
}

func TestFormattedAddressSkipsEmptyLines(t *testing.T) {
	profile := NewCompanyProfile()
	profile.Street = "Hauptstraße 1"
	profile.PostalCode = "10115"
	profile.City = "Berlin"
	profile.Country = ""

	assert.Equal(t, "Hauptstraße 1\n10115 Berlin", profile.FormattedAddress())
}
