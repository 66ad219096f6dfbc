package workflow

// NewInvoiceMachine builds the invoice lifecycle machine positioned at the
// given state:
//
//	draft → sent → {paid | overdue} → paid
//	{draft, sent, overdue} → cancelled
//
// Paid and cancelled are terminal.
func NewInvoiceMachine(current State) StateMachine {
	builder := NewBuilder()

	builder.Configure(StateDraft).
		Permit(TriggerSend, StateSent).
		Permit(TriggerCancel, StateCancelled)

	builder.Configure(StateSent).
		Permit(TriggerPay, StatePaid).
		Permit(TriggerOverdue, StateOverdue).
		Permit(TriggerCancel, StateCancelled)

	builder.Configure(StateOverdue).
		Permit(TriggerPay, StatePaid).
		Permit(TriggerCancel, StateCancelled)

	return builder.Build(current)
}
