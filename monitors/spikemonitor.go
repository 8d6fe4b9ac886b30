package monitors

import (
	"fmt"

	"github.com/spikelab/spikesim/device"
	"github.com/spikelab/spikesim/sim"
)

// A SpikeMonitor records every individual spike of a source as a
// (time, unit index) pair. Like the rate monitor, it runs on the source's
// clock at PhaseEnd by default.
type SpikeMonitor struct {
	*sim.ClockedComponent

	source     SourceRef
	sourceName string
	clock      *sim.Clock

	timeSeries  device.Series
	indexSeries device.Series
	op          device.Op

	curFired []int
}

// NewSpikeMonitor creates a monitor recording the individual spikes of the
// source referenced by src.
func NewSpikeMonitor(
	name string,
	src SourceRef,
	dev device.Device,
	engine sim.Engine,
	opts ...Option,
) (*SpikeMonitor, error) {
	if src == nil {
		return nil, &ConfigError{Reason: "no source reference"}
	}

	s, err := src.Get()
	if err != nil || s == nil {
		return nil, &ConfigError{Reason: "source is not alive"}
	}

	if s.UnitCount() < 1 {
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

	m := &SpikeMonitor{
		source:      src,
		sourceName:  s.Name(),
		clock:       sched.clock,
		timeSeries:  dev.NewSeries(name + ".t"),
		indexSeries: dev.NewSeries(name + ".i"),
	}

	m.op, err = dev.Compile(device.Template{
		Kind: device.KindSpikeEvents,
		Scalars: map[string]func() float64{
			"t": func() float64 { return float64(m.clock.CurrentTime()) },
		},
		Sets: map[string]func() []int{
			"spikes": func() []int { return m.curFired },
		},
		Outputs: map[string]device.Series{
			"t": m.timeSeries,
			"i": m.indexSeries,
		},
	})
	if err != nil {
		return nil, &ConfigError{
			Reason: fmt.Sprintf("cannot compile spike operation: %v", err)}
	}

	m.ClockedComponent = sim.NewClockedComponent(
		name, engine, sched.clock, sched.phase, m)

	return m, nil
}

// Tick records the spikes of one tick.
func (m *SpikeMonitor) Tick() error {
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

// Count returns the number of spikes recorded so far.
func (m *SpikeMonitor) Count() int {
	return m.indexSeries.Len()
}

// Time returns a copy of the recorded spike times, in seconds.
func (m *SpikeMonitor) Time() []sim.VTimeInSec {
	raw := m.timeSeries.CopyOut()
	out := make([]sim.VTimeInSec, len(raw))
	for i, v := range raw {
		out[i] = sim.VTimeInSec(v)
	}
	return out
}

// TimeUnitless returns a copy of the recorded spike times as bare numbers.
func (m *SpikeMonitor) TimeUnitless() []float64 {
	return m.timeSeries.CopyOut()
}

// Indices returns a copy of the recorded unit indices, aligned with Time.
func (m *SpikeMonitor) Indices() []int {
	raw := m.indexSeries.CopyOut()
	out := make([]int, len(raw))
	for i, v := range raw {
		out[i] = int(v)
	}
	return out
}

// Reset discards all recorded spikes and releases the backing storage.
func (m *SpikeMonitor) Reset() {
	m.timeSeries.Reset()
	m.indexSeries.Reset()
}

// Describe returns a diagnostic identity string.
func (m *SpikeMonitor) Describe() string {
	return fmt.Sprintf("<SpikeMonitor %s, recording %s>",
		m.Name(), m.sourceName)
}
