package sim

// VTimeInSec defines the time in the simulated space in the unit of second
type VTimeInSec float64

// A Phase is a named point within a tick's processing order. Events that are
// scheduled at the same time are handled in increasing phase order, so that,
// for example, a recorder scheduled at PhaseEnd always observes the state
// produced by the same-time PhaseUpdate events.
type Phase int

// The phases of one tick, in execution order.
const (
	PhaseStart Phase = iota
	PhaseUpdate
	PhaseEnd

	numPhases
)

// String returns the name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseUpdate:
		return "update"
	case PhaseEnd:
		return "end"
	default:
		return "invalid"
	}
}

// An Event is something going to happen in the future.
type Event interface {
	// Return the time that the event should happen
	Time() VTimeInSec

	// Returns the handler that should handle the event
	Handler() Handler

	// Phase returns the within-tick phase of the event. Same-time events are
	// handled in increasing phase order.
	Phase() Phase
}

// EventBase provides the basic fields and getters for other events
type EventBase struct {
	ID      string
	time    VTimeInSec
	phase   Phase
	handler Handler
}

// NewEventBase creates a new EventBase
func NewEventBase(t VTimeInSec, phase Phase, handler Handler) *EventBase {
	e := new(EventBase)
	e.ID = GetIDGenerator().Generate()
	e.time = t
	e.phase = phase
	e.handler = handler
	return e
}

// Time return the time that the event is going to happen
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// SetHandler sets which handler that handles the event.
//
// A component can only schedule events for itself. Therefore, the handler
// here must be the component that schedules the event. The only exception is
// the kick-starting of a run, where the driver schedules for all components.
func (e *EventBase) SetHandler(h Handler) {
	e.handler = h
}

// Handler returns the handler to handle the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// Phase returns the within-tick phase of the event.
func (e EventBase) Phase() Phase {
	return e.phase
}

// A Handler defines a domain for the events.
//
// One event is always constrained to one Handler, which means the event can
// only be scheduled by one handler and can only directly modify that handler.
type Handler interface {
	Handle(e Event) error
}
