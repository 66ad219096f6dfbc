package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceMachineTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		trigger Trigger
		to      State
		allowed bool
	}{
		{"draft send", StateDraft, TriggerSend, StateSent, true},
		{"draft cancel", StateDraft, TriggerCancel, StateCancelled, true},
		{"draft pay refused", StateDraft, TriggerPay, "", false},
		{"draft overdue refused", StateDraft, TriggerOverdue, "", false},
		{"sent pay", StateSent, TriggerPay, StatePaid, true},
		{"sent overdue", StateSent, TriggerOverdue, StateOverdue, true},
		{"sent cancel", StateSent, TriggerCancel, StateCancelled, true},
		{"sent send refused", StateSent, TriggerSend, "", false},
		{"overdue pay", StateOverdue, TriggerPay, StatePaid, true},
		{"overdue cancel", StateOverdue, TriggerCancel, StateCancelled, true},
		{"overdue send refused", StateOverdue, TriggerSend, "", false},
		{"paid is terminal", StatePaid, TriggerCancel, "", false},
		{"cancelled is terminal", StateCancelled, TriggerSend, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := NewInvoiceMachine(tt.from)

			assert.Equal(t, tt.allowed, machine.CanFire(tt.trigger))

			err := machine.Fire(tt.trigger)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, machine.State())
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, machine.State())
			}
		})
	}
}

func TestPermittedTriggers(t *testing.T) {
	machine := NewInvoiceMachine(StateSent)
	assert.ElementsMatch(t,
		[]Trigger{TriggerPay, TriggerOverdue, TriggerCancel},
		machine.PermittedTriggers())

	machine = NewInvoiceMachine(StatePaid)
	assert.Empty(t, machine.PermittedTriggers())
}

func TestStateStorageCodesAreStable(t *testing.T) {
	// These codes are persisted; changing one silently corrupts stored data
	assert.Equal(t, "Draft", string(StateDraft))
	assert.Equal(t, "Sent", string(StateSent))
	assert.Equal(t, "Paid", string(StatePaid))
	assert.Equal(t, "Overdue", string(StateOverdue))
	assert.Equal(t, "Cancelled", string(StateCancelled))
}
