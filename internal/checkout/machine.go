package checkout

import (
	"errors"

	"github.com/qmuntal/stateless"
)

// State is the lifecycle position of a checkout session.
type State string

const (
	StateEditing    State = "EDITING"
	StateValidating State = "VALIDATING"
	StateSubmitting State = "SUBMITTING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

const (
	triggerEdit             = "edit"
	triggerSubmit           = "submit"
	triggerValidationPassed = "validation_passed"
	triggerValidationFailed = "validation_failed"
	triggerBookingConfirmed = "booking_confirmed"
	triggerBookingFailed    = "booking_failed"
)

var (
	// ErrSessionBusy means an edit arrived while a submit was in flight.
	ErrSessionBusy = errors.New("checkout session has a submit in flight")
	// ErrSessionClosed means the session already reached a terminal state.
	ErrSessionClosed = errors.New("checkout session already completed")
	// ErrValidationFailed means submit was rejected; field errors carry
	// the details and the session is back in Editing.
	ErrValidationFailed = errors.New("checkout validation failed")
)

// newMachine wires the checkout lifecycle. Validating is transient: a
// submit either bounces back to Editing with field errors or moves on to
// Submitting. Submitting ignores further submit triggers, which is what
// makes the in-flight call single; Succeeded is terminal and Failed can
// always return to Editing.
func newMachine() *stateless.StateMachine {
	sm := stateless.NewStateMachine(StateEditing)

	sm.Configure(StateEditing).
		PermitReentry(triggerEdit).
		Permit(triggerSubmit, StateValidating)

	sm.Configure(StateValidating).
		Permit(triggerValidationFailed, StateEditing).
		Permit(triggerValidationPassed, StateSubmitting)

	sm.Configure(StateSubmitting).
		Ignore(triggerSubmit).
		Permit(triggerBookingConfirmed, StateSucceeded).
		Permit(triggerBookingFailed, StateFailed)

	sm.Configure(StateFailed).
		Permit(triggerEdit, StateEditing)

	return sm
}
