package codec

import (
	"time"

	"github.com/google/uuid"
)

// Storage record types for the structured store. Sensitive fields are held
// as opaque encrypted blobs (nonce || ciphertext || tag); nil means absent.
// Enumerated fields are stored as their stable string codes.

// ProfileRecord is the structured-store shape of a company profile
type ProfileRecord struct {
	ID uuid.UUID

	CompanyName string
	OwnerName   string
	Email       string
	Phone       string
	Website     string

	Street     string
	City       string
	PostalCode string
	Country    string

	EncryptedVATID     []byte
	EncryptedTaxNumber []byte
	CompanyRegistry    string
	IsVATExempt        bool

	EncryptedBankName      []byte
	EncryptedIBAN          []byte
	EncryptedBIC           []byte
	EncryptedAccountHolder []byte

	LogoData      []byte
	BrandColorHex string

	DefaultCurrency         string
	DefaultPaymentTermsDays int
	DefaultVATRate          float64
	InvoiceNumberPrefix     string
	NextInvoiceNumber       int

	Locale        string
	DateFormat    string
	EmailTemplate string
}

// ClientRecord is the structured-store shape of a client
type ClientRecord struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time

	Name          string
	ContactPerson string

	EncryptedEmail []byte
	EncryptedPhone []byte

	Street     string
	City       string
	PostalCode string
	Country    string

	EncryptedVATID     []byte
	EncryptedTaxNumber []byte

	DefaultCurrency         *string
	DefaultPaymentTermsDays *int
	DefaultVATRate          *float64
	Language                string

	Notes string
}

// InvoiceRecord is the structured-store shape of an invoice.
// Line items are embedded as a serialized, order-preserving collection.
type InvoiceRecord struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	SentAt    *time.Time
	PaidAt    *time.Time

	InvoiceNumber string
	ClientID      *uuid.UUID
	StatusCode    string

	IssueDate      time.Time
	DueDate        time.Time
	ServiceDate    *time.Time
	ServiceDateEnd *time.Time

	LineItemsJSON []byte

	CurrencyCode    string
	DiscountPercent float64
	DiscountFixed   float64

	EncryptedPaymentReference []byte
	PaymentNotes              string

	PaidExchangeRate         *float64
	PaidAmountInBaseCurrency *float64

	Notes                  string
	EncryptedInternalNotes []byte

	PONumber    string
	ProjectCode string

	ArchivedPDFHash string
	ArchivedPDFData []byte

	Version           int
	PreviousVersionID *uuid.UUID
}

// TemplateRecord is the structured-store shape of an invoice template
type TemplateRecord struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time

	LineItemsJSON   []byte
	Notes           string
	PaymentNotes    string
	DefaultClientID *uuid.UUID
}
