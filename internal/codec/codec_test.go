package codec

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/snupai/mira/internal/crypto"
	"github.com/snupai/mira/internal/domain/entity"
	"github.com/snupai/mira/internal/domain/workflow"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	keys := crypto.NewFileKeyStore(filepath.Join(t.TempDir(), "master.key"))
	return New(crypto.NewService(keys, zap.NewNop()), zap.NewNop())
}

func TestProfileRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	profile := entity.NewCompanyProfile()
	profile.CompanyName = "Musterfirma GmbH"
	profile.VATID = "DE123456789"
	profile.TaxNumber = "12/345/67890"
	profile.BankName = "Sparkasse"
	profile.IBAN = "DE89370400440532013000"
	profile.BIC = "COBADEFFXXX"
	profile.AccountHolder = "Max Mustermann"
	profile.IsVATExempt = true

	rec, err := c.EncodeProfile(profile)
	require.NoError(t, err)

	// Sensitive fields must not appear in plaintext on the record
	assert.NotEqual(t, []byte(profile.IBAN), rec.EncryptedIBAN)
	assert.NotEmpty(t, rec.EncryptedIBAN)

	decoded := c.DecodeProfile(rec)
	assert.Equal(t, profile, decoded)
}

func TestProfileEmptySensitiveFieldsStayAbsent(t *testing.T) {
	c := newTestCodec(t)

	profile := entity.NewCompanyProfile()
	rec, err := c.EncodeProfile(profile)
	require.NoError(t, err)

	assert.Nil(t, rec.EncryptedIBAN)
	assert.Nil(t, rec.EncryptedVATID)

	decoded := c.DecodeProfile(rec)
	assert.Equal(t, "", decoded.IBAN)
	assert.Equal(t, "", decoded.VATID)
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	currency := entity.CurrencyUSD
	terms := 30
	vat := 7.0

	client := entity.NewClient("Acme Corp")
	client.ContactPerson = "Jane Doe"
	client.Email = "jane@acme.example"
	client.Phone = "+49 151 0000000"
	client.VATID = "DE987654321"
	client.TaxNumber = "98/765/43210"
	client.DefaultCurrency = &currency
	client.DefaultPaymentTermsDays = &terms
	client.DefaultVATRate = &vat

	rec, err := c.EncodeClient(client)
	require.NoError(t, err)

	decoded := c.DecodeClient(rec)
	assert.Equal(t, client.ID, decoded.ID)
	assert.Equal(t, client.Email, decoded.Email)
	assert.Equal(t, client.Phone, decoded.Phone)
	assert.Equal(t, client.VATID, decoded.VATID)
	assert.Equal(t, currency, *decoded.DefaultCurrency)
	assert.Equal(t, terms, *decoded.DefaultPaymentTermsDays)
	assert.Equal(t, vat, *decoded.DefaultVATRate)
}

func TestInvoiceRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	clientID := uuid.New()
	inv := entity.NewInvoice(clientID, 14)
	inv.InvoiceNumber = "INV-2026-0001"
	inv.LineItems = []entity.LineItem{
		{ID: uuid.New(), Description: "Consulting", Quantity: 10, Unit: "h", UnitPrice: 120, VATRate: 19},
	}
	inv.PaymentReference = "RF18539007547034"
	inv.InternalNotes = "negotiated discount next year"
	inv.PONumber = "PO-4711"
	inv.ProjectCode = "PRJ-7"

	rec, err := c.EncodeInvoice(inv)
	require.NoError(t, err)

	require.NotNil(t, rec.ClientID)
	assert.Equal(t, clientID, *rec.ClientID)

	decoded := c.DecodeInvoice(rec)
	assert.Equal(t, inv.ID, decoded.ID)
	assert.Equal(t, clientID, decoded.ClientID)
	assert.Equal(t, workflow.StateDraft, decoded.Status)
	assert.Equal(t, inv.LineItems, decoded.LineItems)
	assert.Equal(t, inv.PaymentReference, decoded.PaymentReference)
	assert.Equal(t, inv.InternalNotes, decoded.InternalNotes)
	assert.Equal(t, inv.PONumber, decoded.PONumber)
}

func TestInvoiceNilClientMapsToNull(t *testing.T) {
	c := newTestCodec(t)

	inv := entity.NewInvoice(uuid.Nil, 14)
	rec, err := c.EncodeInvoice(inv)
	require.NoError(t, err)

	assert.Nil(t, rec.ClientID)

	decoded := c.DecodeInvoice(rec)
	assert.Equal(t, uuid.Nil, decoded.ClientID)
}

func TestInvoiceFrozenConversionSurvives(t *testing.T) {
	c := newTestCodec(t)

	rate := 0.92
	converted := 1313.76
	inv := entity.NewInvoice(uuid.New(), 14)
	inv.PaidExchangeRate = &rate
	inv.PaidAmountInBaseCurrency = &converted

	rec, err := c.EncodeInvoice(inv)
	require.NoError(t, err)

	decoded := c.DecodeInvoice(rec)
	require.NotNil(t, decoded.PaidExchangeRate)
	assert.Equal(t, rate, *decoded.PaidExchangeRate)
	require.NotNil(t, decoded.PaidAmountInBaseCurrency)
	assert.Equal(t, converted, *decoded.PaidAmountInBaseCurrency)
}

func TestDecodeCorruptedFieldDegradesToEmpty(t *testing.T) {
	c := newTestCodec(t)

	inv := entity.NewInvoice(uuid.New(), 14)
	inv.PaymentReference = "will be tampered"
	inv.Notes = "plain field survives"

	rec, err := c.EncodeInvoice(inv)
	require.NoError(t, err)

	rec.EncryptedPaymentReference[len(rec.EncryptedPaymentReference)-1] ^= 0xFF

	decoded := c.DecodeInvoice(rec)
	assert.Equal(t, "", decoded.PaymentReference)
	assert.Equal(t, "plain field survives", decoded.Notes)
}

func TestDecodeCorruptLineItemsDegradesToEmptyList(t *testing.T) {
	c := newTestCodec(t)

	inv := entity.NewInvoice(uuid.New(), 14)
	inv.LineItems = []entity.LineItem{entity.NewLineItem("something")}

	rec, err := c.EncodeInvoice(inv)
	require.NoError(t, err)

	rec.LineItemsJSON = []byte("{not json")

	decoded := c.DecodeInvoice(rec)
	assert.Empty(t, decoded.LineItems)
	assert.Equal(t, inv.ID, decoded.ID)
}

func TestTemplateRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	defaultClient := uuid.New()
	tmpl := entity.NewInvoiceTemplate("Monthly retainer")
	tmpl.Description = "Recurring work"
	tmpl.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tmpl.LineItems = []entity.LineItem{entity.NewLineItem("Retainer")}
	tmpl.DefaultClientID = &defaultClient

	rec, err := c.EncodeTemplate(tmpl)
	require.NoError(t, err)

	decoded := c.DecodeTemplate(rec)
	assert.Equal(t, tmpl, decoded)
}
