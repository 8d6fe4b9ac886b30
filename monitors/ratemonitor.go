// Package monitors provides recorders that observe spike sources once per
// tick and append what they see into device-owned growable series.
package monitors

import (
	"fmt"

	"github.com/spikelab/spikesim/device"
	"github.com/spikelab/spikesim/sim"
)

// An Option adjusts the schedule of a monitor.
type Option func(*schedule)

type schedule struct {
	clock *sim.Clock
	phase sim.Phase
}

// WithClock schedules the monitor on an explicit clock instead of the
// source's own clock. The clock must be the source's clock; sampling a
// source on a foreign clock has no well-defined step alignment and is
// rejected at construction.
func WithClock(c *sim.Clock) Option {
	return func(s *schedule) { s.clock = c }
}

// WithPhase schedules the monitor at an explicit within-tick phase instead
// of the default PhaseEnd.
func WithPhase(p sim.Phase) Option {
	return func(s *schedule) { s.phase = p }
}

// A PopulationRateMonitor records the instantaneous population firing rate
// of a spike source: on every tick it divides the number of fired units by
// dt*n and appends the result, together with the current time, to two
// device-owned series.
//
// By default the monitor runs on the source's clock at PhaseEnd, after all
// same-tick state updates, so the rate is always computed from the finalized
// fired set.
type PopulationRateMonitor struct {
	*sim.ClockedComponent

	source     SourceRef
	sourceName string
	clock      *sim.Clock
	dev        device.Device
	n          int

	rateSeries device.Series
	timeSeries device.Series
	op         device.Op

	// fired set of the tick being processed; never retained past the tick
	curFired []int
}

// NewPopulationRateMonitor creates a monitor recording the population rate
// of the source referenced by src. The device supplies the series storage
// and executes the per-tick operation. Construction fails with a ConfigError
// for a missing source, a zero-unit population, or a clock override that
// differs from the source's clock.
func NewPopulationRateMonitor(
	name string,
	src SourceRef,
	dev device.Device,
	engine sim.Engine,
	opts ...Option,
) (*PopulationRateMonitor, error) {
	if src == nil {
		return nil, &ConfigError{Reason: "no source reference"}
	}

	s, err := src.Get()
	if err != nil || s == nil {
		return nil, &ConfigError{Reason: "source is not alive"}
	}

	n := s.UnitCount()
	if n < 1 {
		return nil, &ConfigError{
			Reason: fmt.Sprintf(
				"source %q has no units to record from", s.Name()),
		}
	}

	sched := schedule{clock: s.Clock(), phase: sim.PhaseEnd}
	for _, opt := range opts {
		opt(&sched)
	}

	if sched.clock == nil {
		return nil, &ConfigError{Reason: "no clock to schedule on"}
	}

	if sched.clock != s.Clock() {
		return nil, &ConfigError{
			Reason: fmt.Sprintf(
				"monitor clock %q does not align with the clock of source %q",
				sched.clock.Name(), s.Name()),
		}
	}

	m := &PopulationRateMonitor{
		source:     src,
		sourceName: s.Name(),
		clock:      sched.clock,
		dev:        dev,
		n:          n,
		rateSeries: dev.NewSeries(name + ".rate"),
		timeSeries: dev.NewSeries(name + ".t"),
	}

	m.op, err = dev.Compile(device.Template{
		Kind: device.KindPopulationRate,
		Scalars: map[string]func() float64{
			"t":  func() float64 { return float64(m.clock.CurrentTime()) },
			"dt": func() float64 { return float64(m.clock.StepSize()) },
		},
		Consts: map[string]float64{"n": float64(n)},
		Sets: map[string]func() []int{
			"spikes": func() []int { return m.curFired },
		},
		Outputs: map[string]device.Series{
			"rate": m.rateSeries,
			"t":    m.timeSeries,
		},
	})
	if err != nil {
		return nil, &ConfigError{
			Reason: fmt.Sprintf("cannot compile rate operation: %v", err)}
	}

	m.ClockedComponent = sim.NewClockedComponent(
		name, engine, sched.clock, sched.phase, m)

	return m, nil
}

// Tick records one rate sample. It is invoked by the scheduler, once per
// tick of the monitor's clock.
func (m *PopulationRateMonitor) Tick() error {
	s, err := m.source.Get()
	if err != nil {
		return err
	}

	m.curFired = s.FiredThisTick()
	err = m.op.Execute()
	m.curFired = nil

	if err != nil {
		return &BackendError{Monitor: m.Name(), Err: err}
	}

	return nil
}

// Rate returns a copy of the recorded rates, in Hz.
func (m *PopulationRateMonitor) Rate() []sim.Freq {
	raw := m.rateSeries.CopyOut()
	out := make([]sim.Freq, len(raw))
	for i, v := range raw {
		out[i] = sim.Freq(v)
	}
	return out
}

// RateUnitless returns a copy of the recorded rates as bare numbers.
func (m *PopulationRateMonitor) RateUnitless() []float64 {
	return m.rateSeries.CopyOut()
}

// Time returns a copy of the recorded sample times, in seconds.
func (m *PopulationRateMonitor) Time() []sim.VTimeInSec {
	raw := m.timeSeries.CopyOut()
	out := make([]sim.VTimeInSec, len(raw))
	for i, v := range raw {
		out[i] = sim.VTimeInSec(v)
	}
	return out
}

// TimeUnitless returns a copy of the recorded sample times as bare numbers.
func (m *PopulationRateMonitor) TimeUnitless() []float64 {
	return m.timeSeries.CopyOut()
}

// Reset discards all recorded samples and releases the backing storage. The
// identity, clock, and source reference stay untouched; the next recorded
// sample becomes index 0.
func (m *PopulationRateMonitor) Reset() {
	m.rateSeries.Reset()
	m.timeSeries.Reset()
}

// Describe returns a diagnostic identity string.
func (m *PopulationRateMonitor) Describe() string {
	return fmt.Sprintf("<PopulationRateMonitor %s, recording %s>",
		m.Name(), m.sourceName)
}
