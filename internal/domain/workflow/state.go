package workflow

// State represents an invoice lifecycle state.
// Raw values are the stable codes stored on disk; they never change meaning.
type State string

const (
	StateDraft     State = "Draft"
	StateSent      State = "Sent"
	StatePaid      State = "Paid"
	StateOverdue   State = "Overdue"
	StateCancelled State = "Cancelled"
)

var validStates = map[State]bool{
	StateDraft:     true,
	StateSent:      true,
	StatePaid:      true,
	StateOverdue:   true,
	StateCancelled: true,
}

var terminalStates = map[State]bool{
	StatePaid:      true,
	StateCancelled: true,
}

// IsTerminal returns true if the state allows no further transitions
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a known lifecycle state
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}
