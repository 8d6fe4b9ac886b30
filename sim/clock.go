package sim

import (
	"log"
	"math"
)

// A Clock defines a stepped view of the simulated time. It does not keep its
// own time: CurrentTime always reflects the engine's live time, and StepSize
// reflects the step size at the moment of the call. The step size may be
// changed between ticks, so components that depend on dt must re-read it
// every tick instead of caching it.
type Clock struct {
	name string
	tt   TimeTeller
	dt   VTimeInSec

	// origin of the current dt segment; tick times are integer multiples of
	// dt counted from here
	base VTimeInSec
}

// NewClock creates a clock that reads the current time from tt and advances
// in steps of dt.
func NewClock(name string, tt TimeTeller, dt VTimeInSec) *Clock {
	if dt <= 0 {
		log.Panic("clock step size must be positive")
	}

	c := &Clock{
		name: name,
		tt:   tt,
		dt:   dt,
	}

	return c
}

// NewClockFromFreq creates a clock whose step size is the period of the
// given frequency.
func NewClockFromFreq(name string, tt TimeTeller, f Freq) *Clock {
	return NewClock(name, tt, f.Period())
}

// Name returns the name of the clock.
func (c *Clock) Name() string {
	return c.name
}

// CurrentTime returns the live simulated time.
func (c *Clock) CurrentTime() VTimeInSec {
	return c.tt.CurrentTime()
}

// StepSize returns the current step size.
func (c *Clock) StepSize() VTimeInSec {
	return c.dt
}

// SetStepSize changes the step size. It takes effect when the next tick is
// scheduled, so a change made while a tick is being processed moves the very
// next tick. The tick grid restarts at the current time: later ticks fall on
// integer multiples of the new dt counted from here.
func (c *Clock) SetStepSize(dt VTimeInSec) {
	if dt <= 0 {
		log.Panic("clock step size must be positive")
	}

	c.base = c.tt.CurrentTime()
	c.dt = dt
}

// NextTickTime returns the time of the tick after the current time. The
// elapsed time within the current dt segment is quantized to an integer step
// count first, so tick times stay on the step grid instead of accumulating
// floating-point error tick after tick.
func (c *Clock) NextTickTime() VTimeInSec {
	now := float64(c.tt.CurrentTime())
	if math.IsNaN(now) {
		log.Panic("invalid time")
	}

	elapsed := now - float64(c.base)
	count := math.Floor(math.Round(elapsed/float64(c.dt)*10) / 10)

	return VTimeInSec(float64(c.base) + (count+1)*float64(c.dt))
}
