package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snupai/mira/internal/domain/workflow"
)

func TestInvoiceTotals(t *testing.T) {
	inv := NewInvoice(uuid.New(), 14)
	inv.LineItems = []LineItem{
		{ID: uuid.New(), Description: "Consulting", Quantity: 10, Unit: "h", UnitPrice: 120, VATRate: 19},
	}

	assert.InDelta(t, 1200.0, inv.Subtotal(), 0.001)
	assert.InDelta(t, 228.0, inv.TotalTax(), 0.001)
	assert.InDelta(t, 1428.0, inv.Total(), 0.001)
}

func TestInvoiceDiscountPercentBeforeFixed(t *testing.T) {
	inv := NewInvoice(uuid.New(), 14)
	inv.LineItems = []LineItem{
		{ID: uuid.New(), Quantity: 1, UnitPrice: 1000, VATRate: 0},
	}
	inv.DiscountPercent = 10
	inv.DiscountFixed = 50

	// 10% of 1000 = 100, plus fixed 50
	assert.InDelta(t, 150.0, inv.TotalDiscount(), 0.001)
	assert.InDelta(t, 850.0, inv.TaxableAmount(), 0.001)
}

func TestInvoiceTaxBreakdownGroupedByRate(t *testing.T) {
	inv := NewInvoice(uuid.New(), 14)
	inv.LineItems = []LineItem{
		{ID: uuid.New(), Quantity: 1, UnitPrice: 100, VATRate: 19},
		{ID: uuid.New(), Quantity: 1, UnitPrice: 200, VATRate: 7},
		{ID: uuid.New(), Quantity: 1, UnitPrice: 300, VATRate: 19},
	}

	breakdown := inv.TaxBreakdown()
	require.Len(t, breakdown, 2)

	// Sorted ascending by rate
	assert.Equal(t, 7.0, breakdown[0].Rate)
	assert.InDelta(t, 14.0, breakdown[0].Amount, 0.001)
	assert.Equal(t, 19.0, breakdown[1].Rate)
	assert.InDelta(t, 76.0, breakdown[1].Amount, 0.001)
}

func TestLineItemTotals(t *testing.T) {
	item := LineItem{Quantity: 2.5, UnitPrice: 80, VATRate: 19}
	assert.InDelta(t, 200.0, item.Total(), 0.001)
	assert.InDelta(t, 238.0, item.TotalWithTax(), 0.001)
}

func TestNewLineItemDefaults(t *testing.T) {
	item := NewLineItem("Design work")
	assert.Equal(t, "Design work", item.Description)
	assert.Equal(t, 1.0, item.Quantity)
	assert.Equal(t, "Stück", item.Unit)
	assert.Equal(t, 19.0, item.VATRate)
	assert.NotEqual(t, uuid.Nil, item.ID)
}

func TestInvoiceLifecycle(t *testing.T) {
	inv := NewInvoice(uuid.New(), 14)
	assert.Equal(t, workflow.StateDraft, inv.Status)
	assert.False(t, inv.IsLocked())

	require.True(t, inv.MarkSent())
	assert.Equal(t, workflow.StateSent, inv.Status)
	assert.NotNil(t, inv.SentAt)
	assert.True(t, inv.IsLocked())

	require.True(t, inv.MarkOverdue())
	assert.Equal(t, workflow.StateOverdue, inv.Status)

	require.True(t, inv.MarkPaid(nil, nil))
	assert.Equal(t, workflow.StatePaid, inv.Status)
	assert.NotNil(t, inv.PaidAt)
}

func TestInvoiceRefusedTransitionsAreNoOps(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(inv *Invoice)
		attempt func(inv *Invoice) bool
	}{
		{
			name:    "pay a draft",
			prepare: func(inv *Invoice) {},
			attempt: func(inv *Invoice) bool { return inv.MarkPaid(nil, nil) },
		},
		{
			name:    "overdue a draft",
			prepare: func(inv *Invoice) {},
			attempt: func(inv *Invoice) bool { return inv.MarkOverdue() },
		},
		{
			name: "send twice",
			prepare: func(inv *Invoice) {
				inv.MarkSent()
			},
			attempt: func(inv *Invoice) bool { return inv.MarkSent() },
		},
		{
			name: "cancel a paid invoice",
			prepare: func(inv *Invoice) {
				inv.MarkSent()
				inv.MarkPaid(nil, nil)
			},
			attempt: func(inv *Invoice) bool { return inv.Cancel() },
		},
		{
			name: "pay a cancelled invoice",
			prepare: func(inv *Invoice) {
				inv.Cancel()
			},
			attempt: func(inv *Invoice) bool { return inv.MarkPaid(nil, nil) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := NewInvoice(uuid.New(), 14)
			tt.prepare(inv)
			before := inv.Status

			assert.False(t, tt.attempt(inv))
			assert.Equal(t, before, inv.Status)
		})
	}
}

func TestInvoiceCancelFromNonPaidStates(t *testing.T) {
	// draft
	inv := NewInvoice(uuid.New(), 14)
	assert.True(t, inv.Cancel())

	// sent
	inv = NewInvoice(uuid.New(), 14)
	inv.MarkSent()
	assert.True(t, inv.Cancel())

	// overdue
	inv = NewInvoice(uuid.New(), 14)
	inv.MarkSent()
	inv.MarkOverdue()
	assert.True(t, inv.Cancel())
	assert.Equal(t, workflow.StateCancelled, inv.Status)
}

func TestInvoiceMarkPaidFreezesConversion(t *testing.T) {
	rate := 1.08
	converted := 1542.24

	inv := NewInvoice(uuid.New(), 14)
	inv.MarkSent()
	require.True(t, inv.MarkPaid(&rate, &converted))

	require.NotNil(t, inv.PaidExchangeRate)
	assert.Equal(t, rate, *inv.PaidExchangeRate)
	require.NotNil(t, inv.PaidAmountInBaseCurrency)
	assert.Equal(t, converted, *inv.PaidAmountInBaseCurrency)
}

func TestInvoiceIsOverdue(t *testing.T) {
	now := time.Now()

	inv := NewInvoice(uuid.New(), 14)
	inv.MarkSent()
	inv.DueDate = now.AddDate(0, 0, -1)
	assert.True(t, inv.IsOverdue(now))

	inv.DueDate = now.AddDate(0, 0, 1)
	assert.False(t, inv.IsOverdue(now))

	// Only sent invoices go overdue
	draft := NewInvoice(uuid.New(), 14)
	draft.DueDate = now.AddDate(0, 0, -10)
	assert.False(t, draft.IsOverdue(now))
}
