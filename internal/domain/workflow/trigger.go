package workflow

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	TriggerSend    Trigger = "SEND"
	TriggerPay     Trigger = "PAY"
	TriggerOverdue Trigger = "OVERDUE"
	TriggerCancel  Trigger = "CANCEL"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
