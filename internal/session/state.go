package session

import "fmt"

// State is the conversation state of one WhatsApp session. HTTP sessions
// never leave StateFree; the extra-context flow exists only on the
// messaging channel.
type State int

const (
	// StateFree accepts any query.
	StateFree State = iota
	// StateAwaitingSymptoms means the user was asked for symptom details
	// and the next inbound message is treated as those details.
	StateAwaitingSymptoms
	// StateProcessing means the pending query is being answered with the
	// freshly provided symptoms.
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateAwaitingSymptoms:
		return "awaiting_symptoms"
	case StateProcessing:
		return "processing"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Event drives the session state machine.
type Event int

const (
	// EventAskSymptoms parks the current query and asks the user for
	// symptom details. Valid from StateFree.
	EventAskSymptoms Event = iota
	// EventSymptomsProvided records the inbound message body as the
	// requested symptoms. Valid from StateAwaitingSymptoms.
	EventSymptomsProvided
	// EventProcessingDone returns the session to StateFree after the
	// pending query was answered. Valid from StateProcessing.
	EventProcessingDone
	// EventResetSymptoms discards cached symptoms and re-enters the
	// capture flow. Valid from any state.
	EventResetSymptoms
)

func (e Event) String() string {
	switch e {
	case EventAskSymptoms:
		return "ask_symptoms"
	case EventSymptomsProvided:
		return "symptoms_provided"
	case EventProcessingDone:
		return "processing_done"
	case EventResetSymptoms:
		return "reset_symptoms"
	default:
		return fmt.Sprintf("unknown(%d)", int(e))
	}
}

// ErrInvalidTransition is returned by Transition when an event is not
// valid in the session's current state.
type ErrInvalidTransition struct {
	From  State
	Event Event
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid session transition: event %s in state %s", e.Event, e.From)
}
