package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CompanyProfile is the singleton profile of the installation.
// JSON tags are the stable legacy file field names.
type CompanyProfile struct {
	ID uuid.UUID `json:"id"`

	// Basic info
	CompanyName string `json:"companyName"`
	OwnerName   string `json:"ownerName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`

	// Address
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`

	// Legal and tax; VATID and TaxNumber are sensitive fields
	VATID           string `json:"vatId"`
	TaxNumber       string `json:"taxNumber"`
	CompanyRegistry string `json:"companyRegistry"`
	IsVATExempt     bool   `json:"isVatExempt"` // Kleinunternehmerregelung §19 UStG

	// Bank details, all sensitive
	BankName      string `json:"bankName"`
	IBAN          string `json:"iban"`
	BIC           string `json:"bic"`
	AccountHolder string `json:"accountHolder"`

	// Branding
	LogoData      []byte `json:"logoData,omitempty"`
	BrandColorHex string `json:"brandColorHex"`

	// Defaults
	DefaultCurrency         Currency `json:"defaultCurrency"`
	DefaultPaymentTermsDays int      `json:"defaultPaymentTermsDays"`
	DefaultVATRate          float64  `json:"defaultVatRate"`
	InvoiceNumberPrefix     string   `json:"invoiceNumberPrefix"`
	NextInvoiceNumber       int      `json:"nextInvoiceNumber"`

	// Formatting
	Locale     string `json:"locale"`
	DateFormat string `json:"dateFormat"`

	// Email template with {placeholder} tokens
	EmailTemplate string `json:"emailTemplate"`
}

// NewCompanyProfile creates a profile with generated identifier and defaults
func NewCompanyProfile() *CompanyProfile {
	return &CompanyProfile{
		ID:                      uuid.New(),
		Country:                 "Germany",
		BrandColorHex:           "#0066CC",
		DefaultCurrency:         CurrencyEUR,
		DefaultPaymentTermsDays: 14,
		DefaultVATRate:          19.0,
		InvoiceNumberPrefix:     "INV-",
		NextInvoiceNumber:       1,
		Locale:                  "de_DE",
		DateFormat:              "02.01.2006",
	}
}

// GenerateInvoiceNumber formats the next invoice number and advances the
// counter. The counter only ever increases; numbers are never reused.
func (p *CompanyProfile) GenerateInvoiceNumber(now time.Time) string {
	number := fmt.Sprintf("%s%d-%04d", p.InvoiceNumberPrefix, now.Year(), p.NextInvoiceNumber)
	p.NextInvoiceNumber++
	return number
}

// EffectiveVATRate is the default rate for new line items. VAT-exempt
// businesses (Kleinunternehmerregelung) charge no tax at all.
func (p *CompanyProfile) EffectiveVATRate() float64 {
	if p.IsVATExempt {
		return 0
	}
	return p.DefaultVATRate
}

// IsComplete reports whether the profile has the fields required for invoicing
func (p *CompanyProfile) IsComplete() bool {
	return p.CompanyName != "" &&
		p.Email != "" &&
		p.Street != "" &&
		p.City != "" &&
		p.PostalCode != "" &&
		p.IBAN != ""
}

// FormattedAddress returns the postal address as display lines
func (p *CompanyProfile) FormattedAddress() string {
	return formatAddress(p.Street, p.PostalCode, p.City, p.Country)
}

// RenderTemplate substitutes {placeholder} tokens in the email template
func (p *CompanyProfile) RenderTemplate(values map[string]string) string {
	rendered := p.EmailTemplate
	for token, value := range values {
		rendered = strings.ReplaceAll(rendered, "{"+token+"}", value)
	}
	return rendered
}

func formatAddress(street, postalCode, city, country string) string {
	lines := []string{
		street,
		strings.TrimSpace(postalCode + " " + city),
		country,
	}
	var nonEmpty []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}
	return strings.Join(nonEmpty, "\n")
}
