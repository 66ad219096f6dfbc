package codec

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snupai/mira/internal/crypto"
	"github.com/snupai/mira/internal/domain/entity"
	"github.com/snupai/mira/internal/domain/workflow"
)

// Codec converts between plain entities and structured-store records.
// Encoding is strict: a failing encryption aborts the write. Decoding is
// lenient per field: a single corrupted field degrades to the empty string
// and is logged, so one bad field never hides an entire entity.
type Codec struct {
	enc    *crypto.Service
	logger *zap.Logger
}

// New creates a codec over the given encryption service
func New(enc *crypto.Service, logger *zap.Logger) *Codec {
	return &Codec{
		enc:    enc,
		logger: logger,
	}
}

// EncodeProfile converts a profile to its encrypted storage shape
func (c *Codec) EncodeProfile(p *entity.CompanyProfile) (*ProfileRecord, error) {
	rec := &ProfileRecord{
		ID:                      p.ID,
		CompanyName:             p.CompanyName,
		OwnerName:               p.OwnerName,
		Email:                   p.Email,
		Phone:                   p.Phone,
		Website:                 p.Website,
		Street:                  p.Street,
		City:                    p.City,
		PostalCode:              p.PostalCode,
		Country:                 p.Country,
		CompanyRegistry:         p.CompanyRegistry,
		IsVATExempt:             p.IsVATExempt,
		LogoData:                p.LogoData,
		BrandColorHex:           p.BrandColorHex,
		DefaultCurrency:         string(p.DefaultCurrency),
		DefaultPaymentTermsDays: p.DefaultPaymentTermsDays,
		DefaultVATRate:          p.DefaultVATRate,
		InvoiceNumberPrefix:     p.InvoiceNumberPrefix,
		NextInvoiceNumber:       p.NextInvoiceNumber,
		Locale:                  p.Locale,
		DateFormat:              p.DateFormat,
		EmailTemplate:           p.EmailTemplate,
	}

	var err error
	if rec.EncryptedVATID, err = c.enc.Encrypt(p.VATID); err != nil {
		return nil, fmt.Errorf("failed to encrypt vat id: %w", err)
	}
	if rec.EncryptedTaxNumber, err = c.enc.Encrypt(p.TaxNumber); err != nil {
		return nil, fmt.Errorf("failed to encrypt tax number: %w", err)
	}
	if rec.EncryptedBankName, err = c.enc.Encrypt(p.BankName); err != nil {
		return nil, fmt.Errorf("failed to encrypt bank name: %w", err)
	}
	if rec.EncryptedIBAN, err = c.enc.Encrypt(p.IBAN); err != nil {
		return nil, fmt.Errorf("failed to encrypt iban: %w", err)
	}
	if rec.EncryptedBIC, err = c.enc.Encrypt(p.BIC); err != nil {
		return nil, fmt.Errorf("failed to encrypt bic: %w", err)
	}
	if rec.EncryptedAccountHolder, err = c.enc.Encrypt(p.AccountHolder); err != nil {
		return nil, fmt.Errorf("failed to encrypt account holder: %w", err)
	}

	return rec, nil
}

// DecodeProfile converts a storage record back to a plain profile
func (c *Codec) DecodeProfile(rec *ProfileRecord) *entity.CompanyProfile {
	p := &entity.CompanyProfile{
		ID:                      rec.ID,
		CompanyName:             rec.CompanyName,
		OwnerName:               rec.OwnerName,
		Email:                   rec.Email,
		Phone:                   rec.Phone,
		Website:                 rec.Website,
		Street:                  rec.Street,
		City:                    rec.City,
		PostalCode:              rec.PostalCode,
		Country:                 rec.Country,
		CompanyRegistry:         rec.CompanyRegistry,
		IsVATExempt:             rec.IsVATExempt,
		LogoData:                rec.LogoData,
		BrandColorHex:           rec.BrandColorHex,
		DefaultCurrency:         entity.Currency(rec.DefaultCurrency),
		DefaultPaymentTermsDays: rec.DefaultPaymentTermsDays,
		DefaultVATRate:          rec.DefaultVATRate,
		InvoiceNumberPrefix:     rec.InvoiceNumberPrefix,
		NextInvoiceNumber:       rec.NextInvoiceNumber,
		Locale:                  rec.Locale,
		DateFormat:              rec.DateFormat,
		EmailTemplate:           rec.EmailTemplate,
	}

	p.VATID = c.decryptField(rec.EncryptedVATID, "profile.vat_id")
	p.TaxNumber = c.decryptField(rec.EncryptedTaxNumber, "profile.tax_number")
	p.BankName = c.decryptField(rec.EncryptedBankName, "profile.bank_name")
	p.IBAN = c.decryptField(rec.EncryptedIBAN, "profile.iban")
	p.BIC = c.decryptField(rec.EncryptedBIC, "profile.bic")
	p.AccountHolder = c.decryptField(rec.EncryptedAccountHolder, "profile.account_holder")

	return p
}

// EncodeClient converts a client to its encrypted storage shape
func (c *Codec) EncodeClient(cl *entity.Client) (*ClientRecord, error) {
	rec := &ClientRecord{
		ID:            cl.ID,
		CreatedAt:     cl.CreatedAt,
		UpdatedAt:     cl.UpdatedAt,
		Name:          cl.Name,
		ContactPerson: cl.ContactPerson,
		Street:        cl.Street,
		City:          cl.City,
		PostalCode:    cl.PostalCode,
		Country:       cl.Country,
		Language:      cl.Language,
		Notes:         cl.Notes,
	}

	if cl.DefaultCurrency != nil {
		code := string(*cl.DefaultCurrency)
		rec.DefaultCurrency = &code
	}
	rec.DefaultPaymentTermsDays = cl.DefaultPaymentTermsDays
	rec.DefaultVATRate = cl.DefaultVATRate

	var err error
	if rec.EncryptedEmail, err = c.enc.Encrypt(cl.Email); err != nil {
		return nil, fmt.Errorf("failed to encrypt email: %w", err)
	}
	if rec.EncryptedPhone, err = c.enc.Encrypt(cl.Phone); err != nil {
		return nil, fmt.Errorf("failed to encrypt phone: %w", err)
	}
	if rec.EncryptedVATID, err = c.enc.Encrypt(cl.VATID); err != nil {
		return nil, fmt.Errorf("failed to encrypt vat id: %w", err)
	}
	if rec.EncryptedTaxNumber, err = c.enc.Encrypt(cl.TaxNumber); err != nil {
		return nil, fmt.Errorf("failed to encrypt tax number: %w", err)
	}

	return rec, nil
}

// DecodeClient converts a storage record back to a plain client
func (c *Codec) DecodeClient(rec *ClientRecord) *entity.Client {
	cl := &entity.Client{
		ID:            rec.ID,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
		Name:          rec.Name,
		ContactPerson: rec.ContactPerson,
		Street:        rec.Street,
		City:          rec.City,
		PostalCode:    rec.PostalCode,
		Country:       rec.Country,
		Language:      rec.Language,
		Notes:         rec.Notes,
	}

	if rec.DefaultCurrency != nil {
		currency := entity.Currency(*rec.DefaultCurrency)
		cl.DefaultCurrency = &currency
	}
	cl.DefaultPaymentTermsDays = rec.DefaultPaymentTermsDays
	cl.DefaultVATRate = rec.DefaultVATRate

	cl.Email = c.decryptField(rec.EncryptedEmail, "client.email")
	cl.Phone = c.decryptField(rec.EncryptedPhone, "client.phone")
	cl.VATID = c.decryptField(rec.EncryptedVATID, "client.vat_id")
	cl.TaxNumber = c.decryptField(rec.EncryptedTaxNumber, "client.tax_number")

	return cl
}

// EncodeInvoice converts an invoice to its encrypted storage shape.
// A nil client association is stored as NULL, never as a zero UUID.
func (c *Codec) EncodeInvoice(inv *entity.Invoice) (*InvoiceRecord, error) {
	lineItems, err := json.Marshal(inv.LineItems)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize line items: %w", err)
	}

	rec := &InvoiceRecord{
		ID:                       inv.ID,
		CreatedAt:                inv.CreatedAt,
		UpdatedAt:                inv.UpdatedAt,
		SentAt:                   inv.SentAt,
		PaidAt:                   inv.PaidAt,
		InvoiceNumber:            inv.InvoiceNumber,
		StatusCode:               string(inv.Status),
		IssueDate:                inv.IssueDate,
		DueDate:                  inv.DueDate,
		ServiceDate:              inv.ServiceDate,
		ServiceDateEnd:           inv.ServiceDateEnd,
		LineItemsJSON:            lineItems,
		CurrencyCode:             string(inv.Currency),
		DiscountPercent:          inv.DiscountPercent,
		DiscountFixed:            inv.DiscountFixed,
		PaymentNotes:             inv.PaymentNotes,
		PaidExchangeRate:         inv.PaidExchangeRate,
		PaidAmountInBaseCurrency: inv.PaidAmountInBaseCurrency,
		Notes:                    inv.Notes,
		PONumber:                 inv.PONumber,
		ProjectCode:              inv.ProjectCode,
		ArchivedPDFHash:          inv.ArchivedPDFHash,
		ArchivedPDFData:          inv.ArchivedPDFData,
		Version:                  inv.Version,
		PreviousVersionID:        inv.PreviousVersionID,
	}

	if inv.ClientID != uuid.Nil {
		clientID := inv.ClientID
		rec.ClientID = &clientID
	}

	if rec.EncryptedPaymentReference, err = c.enc.Encrypt(inv.PaymentReference); err != nil {
		return nil, fmt.Errorf("failed to encrypt payment reference: %w", err)
	}
	if rec.EncryptedInternalNotes, err = c.enc.Encrypt(inv.InternalNotes); err != nil {
		return nil, fmt.Errorf("failed to encrypt internal notes: %w", err)
	}

	return rec, nil
}

// DecodeInvoice converts a storage record back to a plain invoice.
// A corrupt line item payload degrades to an empty list, logged.
func (c *Codec) DecodeInvoice(rec *InvoiceRecord) *entity.Invoice {
	inv := &entity.Invoice{
		ID:                       rec.ID,
		CreatedAt:                rec.CreatedAt,
		UpdatedAt:                rec.UpdatedAt,
		SentAt:                   rec.SentAt,
		PaidAt:                   rec.PaidAt,
		InvoiceNumber:            rec.InvoiceNumber,
		Status:                   workflow.State(rec.StatusCode),
		IssueDate:                rec.IssueDate,
		DueDate:                  rec.DueDate,
		ServiceDate:              rec.ServiceDate,
		ServiceDateEnd:           rec.ServiceDateEnd,
		Currency:                 entity.Currency(rec.CurrencyCode),
		DiscountPercent:          rec.DiscountPercent,
		DiscountFixed:            rec.DiscountFixed,
		PaymentNotes:             rec.PaymentNotes,
		PaidExchangeRate:         rec.PaidExchangeRate,
		PaidAmountInBaseCurrency: rec.PaidAmountInBaseCurrency,
		Notes:                    rec.Notes,
		PONumber:                 rec.PONumber,
		ProjectCode:              rec.ProjectCode,
		ArchivedPDFHash:          rec.ArchivedPDFHash,
		ArchivedPDFData:          rec.ArchivedPDFData,
		Version:                  rec.Version,
		PreviousVersionID:        rec.PreviousVersionID,
	}

	if rec.ClientID != nil {
		inv.ClientID = *rec.ClientID
	}

	if len(rec.LineItemsJSON) > 0 {
		if err := json.Unmarshal(rec.LineItemsJSON, &inv.LineItems); err != nil {
			c.logger.Warn("Failed to decode line items, degrading to empty list",
				zap.String("invoice_id", rec.ID.String()),
				zap.Error(err))
			inv.LineItems = nil
		}
	}

	inv.PaymentReference = c.decryptField(rec.EncryptedPaymentReference, "invoice.payment_reference")
	inv.InternalNotes = c.decryptField(rec.EncryptedInternalNotes, "invoice.internal_notes")

	return inv
}

// EncodeTemplate converts a template to its storage shape
func (c *Codec) EncodeTemplate(t *entity.InvoiceTemplate) (*TemplateRecord, error) {
	lineItems, err := json.Marshal(t.LineItems)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize line items: %w", err)
	}

	return &TemplateRecord{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
		LineItemsJSON:   lineItems,
		Notes:           t.Notes,
		PaymentNotes:    t.PaymentNotes,
		DefaultClientID: t.DefaultClientID,
	}, nil
}

// DecodeTemplate converts a storage record back to a plain template
func (c *Codec) DecodeTemplate(rec *TemplateRecord) *entity.InvoiceTemplate {
	t := &entity.InvoiceTemplate{
		ID:              rec.ID,
		Name:            rec.Name,
		Description:     rec.Description,
		CreatedAt:       rec.CreatedAt,
		Notes:           rec.Notes,
		PaymentNotes:    rec.PaymentNotes,
		DefaultClientID: rec.DefaultClientID,
	}

	if len(rec.LineItemsJSON) > 0 {
		if err := json.Unmarshal(rec.LineItemsJSON, &t.LineItems); err != nil {
			c.logger.Warn("Failed to decode template line items, degrading to empty list",
				zap.String("template_id", rec.ID.String()),
				zap.Error(err))
			t.LineItems = nil
		}
	}

	return t
}

// decryptField decrypts a single sensitive field, degrading to "" on failure.
// Tampering or key loss on one field must not hide the whole entity.
func (c *Codec) decryptField(blob []byte, field string) string {
	plaintext, err := c.enc.Decrypt(blob)
	if err != nil {
		c.logger.Warn("Failed to decrypt field, degrading to empty string",
			zap.String("field", field),
			zap.Error(err))
		return ""
	}
	return plaintext
}
