package sim

import (
	"log"
	"sync"
)

// TickEvent is a generic event that clocked components use to update their
// state once per clock tick.
type TickEvent struct {
	EventBase
}

// MakeTickEvent creates a new TickEvent
func MakeTickEvent(handler Handler, time VTimeInSec, phase Phase) TickEvent {
	evt := TickEvent{}
	evt.ID = GetIDGenerator().Generate()
	evt.handler = handler
	evt.time = time
	evt.phase = phase

	return evt
}

// A Ticker is an object that updates states with ticks. Returning an error
// aborts the enclosing run.
type Ticker interface {
	Tick() error
}

// Clocked is anything that executes once per tick of a clock and needs to be
// kick-started when a run begins.
type Clocked interface {
	// StartRun schedules the first tick and remembers the run horizon. No
	// tick is ever scheduled at a time later than end.
	StartRun(end VTimeInSec)
}

// ClockScheduler schedules tick events once per clock tick, at a fixed
// phase. The clock's step size is re-read every time a tick is scheduled, so
// variable-step clocks work without any further cooperation.
type ClockScheduler struct {
	lock    sync.Mutex
	handler Handler
	clock   *Clock
	engine  Engine
	phase   Phase

	nextTickTime VTimeInSec
	runEnd       VTimeInSec
}

// NewClockScheduler creates a scheduler that schedules tick events on the
// given clock at the given phase.
func NewClockScheduler(
	handler Handler,
	engine Engine,
	clock *Clock,
	phase Phase,
) *ClockScheduler {
	s := new(ClockScheduler)

	s.handler = handler
	s.engine = engine
	s.clock = clock
	s.phase = phase
	s.nextTickTime = -1

	return s
}

// Clock returns the clock that drives this scheduler.
func (s *ClockScheduler) Clock() *Clock {
	return s.clock
}

// Phase returns the within-tick phase the scheduler ticks at.
func (s *ClockScheduler) Phase() Phase {
	return s.phase
}

// StartRun schedules the first tick of a run and stores the run horizon.
func (s *ClockScheduler) StartRun(end VTimeInSec) {
	s.lock.Lock()
	s.runEnd = end
	s.lock.Unlock()

	s.TickLater()
}

// TickLater schedules a tick event one clock step after the current time. It
// does nothing if that tick is already scheduled or lies beyond the run
// horizon.
func (s *ClockScheduler) TickLater() {
	s.lock.Lock()
	defer s.lock.Unlock()

	time := s.clock.NextTickTime()
	if s.nextTickTime >= time {
		return
	}

	if s.runEnd > 0 && time > s.runEnd {
		return
	}

	s.nextTickTime = time
	tick := MakeTickEvent(s.handler, time, s.phase)
	s.engine.Schedule(tick)
}

// CurrentTime returns the live simulated time.
func (s *ClockScheduler) CurrentTime() VTimeInSec {
	return s.engine.CurrentTime()
}

// ClockedComponent is a component that performs one bounded unit of work per
// clock tick. A programmer only needs to provide the Ticker.
type ClockedComponent struct {
	HookableBase
	*ClockScheduler

	name   string
	ticker Ticker
}

// NewClockedComponent creates a component that runs ticker once per tick of
// clock, at the given phase.
func NewClockedComponent(
	name string,
	engine Engine,
	clock *Clock,
	phase Phase,
	ticker Ticker,
) *ClockedComponent {
	if ticker == nil {
		log.Panic("clocked component requires a ticker")
	}

	c := new(ClockedComponent)
	c.name = name
	c.ticker = ticker
	c.ClockScheduler = NewClockScheduler(c, engine, clock, phase)

	return c
}

// Name returns the name of the component.
func (c *ClockedComponent) Name() string {
	return c.name
}

// Handle triggers the tick function and reschedules the next tick. A tick
// error stops the run and is returned to the engine unchanged.
func (c *ClockedComponent) Handle(_ Event) error {
	if err := c.ticker.Tick(); err != nil {
		return err
	}

	c.TickLater()

	return nil
}
