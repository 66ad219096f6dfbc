package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/snupai/mira/internal/domain/workflow"
)

// LineItem is a single billable position. Line items are embedded in their
// owning invoice, never persisted as a top-level entity.
type LineItem struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	UnitPrice   float64   `json:"unitPrice"`
	VATRate     float64   `json:"vatRate"`
}

// NewLineItem creates a line item with German small-business defaults
func NewLineItem(description string) LineItem {
	return LineItem{
		ID:          uuid.New(),
		Description: description,
		Quantity:    1,
		Unit:        "Stück",
		VATRate:     19.0,
	}
}

// Total is the net amount of the position
func (li LineItem) Total() float64 {
	return li.Quantity * li.UnitPrice
}

// TotalWithTax is the gross amount of the position
func (li LineItem) TotalWithTax() float64 {
	return li.Total() * (1 + li.VATRate/100)
}

// TaxLine is one entry of an invoice's tax breakdown
type TaxLine struct {
	Rate   float64
	Amount float64
}

// Invoice belongs to exactly one client. ClientID falls back to uuid.Nil
// when the association was lost.
// JSON tags are the stable legacy file field names.
type Invoice struct {
	ID        uuid.UUID  `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	SentAt    *time.Time `json:"sentAt,omitempty"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`

	// Invoice details
	InvoiceNumber string         `json:"invoiceNumber"`
	ClientID      uuid.UUID      `json:"clientId"`
	Status        workflow.State `json:"status"`

	// Dates
	IssueDate      time.Time  `json:"issueDate"`
	DueDate        time.Time  `json:"dueDate"`
	ServiceDate    *time.Time `json:"serviceDate,omitempty"`
	ServiceDateEnd *time.Time `json:"serviceDateEnd,omitempty"`

	// Line items, order preserving
	LineItems []LineItem `json:"lineItems"`

	// Amounts
	Currency        Currency `json:"currency"`
	DiscountPercent float64  `json:"discountPercent"`
	DiscountFixed   float64  `json:"discountFixed"`

	// Payment; PaymentReference is a sensitive field
	PaymentReference string `json:"paymentReference"`
	PaymentNotes     string `json:"paymentNotes"`

	// Currency conversion recorded at payment time, never recomputed
	PaidExchangeRate         *float64 `json:"paidExchangeRate,omitempty"`
	PaidAmountInBaseCurrency *float64 `json:"paidAmountInBaseCurrency,omitempty"`

	// Notes; InternalNotes is a sensitive field
	Notes         string `json:"notes"`
	InternalNotes string `json:"internalNotes"`

	// Custom fields
	PONumber    string `json:"poNumber"`
	ProjectCode string `json:"projectCode"`

	// PDF archival
	ArchivedPDFHash string `json:"archivedPDFHash,omitempty"`
	ArchivedPDFData []byte `json:"archivedPDFData,omitempty"`

	// Versioning for re-issued corrections
	Version           int        `json:"version"`
	PreviousVersionID *uuid.UUID `json:"previousVersionId,omitempty"`
}

// NewInvoice creates a draft invoice for a client with generated identifier
func NewInvoice(clientID uuid.UUID, paymentTermsDays int) *Invoice {
	now := time.Now()
	return &Invoice{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		ClientID:  clientID,
		Status:    workflow.StateDraft,
		IssueDate: now,
		DueDate:   now.AddDate(0, 0, paymentTermsDays),
		Currency:  CurrencyEUR,
		Version:   1,
	}
}

// Subtotal is the net sum of all line items
func (inv *Invoice) Subtotal() float64 {
	var sum float64
	for _, item := range inv.LineItems {
		sum += item.Total()
	}
	return sum
}

// TotalDiscount applies the percent discount first, then the fixed discount
func (inv *Invoice) TotalDiscount() float64 {
	percentDiscount := inv.Subtotal() * (inv.DiscountPercent / 100)
	return percentDiscount + inv.DiscountFixed
}

// TaxableAmount is the subtotal after discounts
func (inv *Invoice) TaxableAmount() float64 {
	return inv.Subtotal() - inv.TotalDiscount()
}

// TaxBreakdown groups tax amounts by VAT rate, ascending
func (inv *Invoice) TaxBreakdown() []TaxLine {
	breakdown := make(map[float64]float64)
	for _, item := range inv.LineItems {
		breakdown[item.VATRate] += item.Total() * (item.VATRate / 100)
	}

	lines := make([]TaxLine, 0, len(breakdown))
	for rate, amount := range breakdown {
		lines = append(lines, TaxLine{Rate: rate, Amount: amount})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Rate < lines[j].Rate })
	return lines
}

// TotalTax is the sum of the tax breakdown
func (inv *Invoice) TotalTax() float64 {
	var sum float64
	for _, line := range inv.TaxBreakdown() {
		sum += line.Amount
	}
	return sum
}

// Total is the gross invoice amount
func (inv *Invoice) Total() float64 {
	return inv.TaxableAmount() + inv.TotalTax()
}

// IsOverdue reports whether a sent invoice is past its due date
func (inv *Invoice) IsOverdue(now time.Time) bool {
	return inv.Status == workflow.StateSent && inv.DueDate.Before(now)
}

// DaysUntilDue returns the number of whole days until the due date
func (inv *Invoice) DaysUntilDue(now time.Time) int {
	return int(inv.DueDate.Sub(now).Hours() / 24)
}

// IsLocked reports whether structural edits to line items and number are
// forbidden. Every state except draft is locked.
func (inv *Invoice) IsLocked() bool {
	return inv.Status != workflow.StateDraft
}

// MarkSent transitions draft → sent. A refused transition is a no-op.
func (inv *Invoice) MarkSent() bool {
	if !inv.fire(workflow.TriggerSend) {
		return false
	}
	now := time.Now()
	inv.SentAt = &now
	inv.UpdatedAt = now
	return true
}

// MarkPaid transitions sent/overdue → paid. When a currency conversion was
// supplied the rate and converted amount are frozen permanently.
// A refused transition is a no-op.
func (inv *Invoice) MarkPaid(exchangeRate, amountInBaseCurrency *float64) bool {
	if !inv.fire(workflow.TriggerPay) {
		return false
	}
	now := time.Now()
	inv.PaidAt = &now
	inv.PaidExchangeRate = exchangeRate
	inv.PaidAmountInBaseCurrency = amountInBaseCurrency
	inv.UpdatedAt = now
	return true
}

// MarkOverdue transitions sent → overdue. Intended to be called by an
// external periodic check. A refused transition is a no-op.
func (inv *Invoice) MarkOverdue() bool {
	if !inv.fire(workflow.TriggerOverdue) {
		return false
	}
	inv.UpdatedAt = time.Now()
	return true
}

// Cancel transitions any non-paid state → cancelled.
// A refused transition is a no-op.
func (inv *Invoice) Cancel() bool {
	if !inv.fire(workflow.TriggerCancel) {
		return false
	}
	inv.UpdatedAt = time.Now()
	return true
}

func (inv *Invoice) fire(trigger workflow.Trigger) bool {
	machine := workflow.NewInvoiceMachine(inv.Status)
	if !machine.CanFire(trigger) {
		return false
	}
	if err := machine.Fire(trigger); err != nil {
		return false
	}
	inv.Status = machine.State()
	return true
}
