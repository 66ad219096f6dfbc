package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is an invoice recipient.
// JSON tags are the stable legacy file field names.
type Client struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Basic info; Email and Phone are sensitive fields
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`

	// Billing address
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`

	// Tax and legal, both sensitive
	VATID     string `json:"vatId"`
	TaxNumber string `json:"taxNumber"`

	// Per-client override defaults; nil means "use profile default"
	DefaultCurrency         *Currency `json:"defaultCurrency,omitempty"`
	DefaultPaymentTermsDays *int      `json:"defaultPaymentTermsDays,omitempty"`
	DefaultVATRate          *float64  `json:"defaultVatRate,omitempty"`
	Language                string    `json:"language"`

	Notes string `json:"notes"`
}

// NewClient creates a client with generated identifier and creation timestamp
func NewClient(name string) *Client {
	now := time.Now()
	return &Client{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Name:      name,
		Country:   "Germany",
		Language:  "de",
	}
}

// IsComplete reports whether the client can be invoiced
func (c *Client) IsComplete() bool {
	return c.Name != "" && c.Email != ""
}

// FormattedAddress returns the postal address as display lines
func (c *Client) FormattedAddress() string {
	return formatAddress(c.Street, c.PostalCode, c.City, c.Country)
}

// Initials returns up to two uppercase initials for avatar display
func (c *Client) Initials() string {
	words := strings.Fields(c.Name)
	if len(words) >= 2 {
		return strings.ToUpper(firstRune(words[0]) + firstRune(words[1]))
	}
	runes := []rune(c.Name)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
