package checkout

import "errors"

type State string

const (
	StateIdle       State = "idle"
	StateFormEntry  State = "form_entry"
	StateValidating State = "validating"
	StateProcessing State = "processing"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

var ErrIllegalTransition = errors.New("illegal checkout state transition")

var validNext = map[State]map[State]bool{
	StateIdle:       {StateFormEntry: true},
	StateFormEntry:  {StateValidating: true},
	StateValidating: {StateProcessing: true, StateFormEntry: true},
	StateProcessing: {StateSucceeded: true, StateFailed: true},
	StateFailed:     {StateFormEntry: true},
	StateSucceeded:  {},
}

func CanTransition(from, to State) bool {
	return validNext[from][to]
}

func (s State) IsTerminal() bool {
	return s == StateSucceeded
}

// Flow tracks one shopper's pass through checkout.
type Flow struct {
	state   State
	history []State
}

func NewFlow() *Flow {
	return &Flow{state: StateIdle, history: []State{StateIdle}}
}

func (f *Flow) State() State {
	return f.state
}

// History lists every state the flow has been in, oldest first.
func (f *Flow) History() []State {
	out := make([]State, len(f.history))
	copy(out, f.history)
	return out
}

func (f *Flow) transition(to State) error {
	if !CanTransition(f.state, to) {
		return ErrIllegalTransition
	}
	f.state = to
	f.history = append(f.history, to)
	return nil
}
