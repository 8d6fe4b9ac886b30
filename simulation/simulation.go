// Package simulation composes an engine, a data recorder, a tracer, and a
// monitoring server into one simulation that owns the lifecycle of its
// components.
package simulation

import (
	"fmt"

	"github.com/spikelab/spikesim/datarecording"
	"github.com/spikelab/spikesim/monitoring"
	"github.com/spikelab/spikesim/monitors"
	"github.com/spikelab/spikesim/neurons"
	"github.com/spikelab/spikesim/sim"
	"github.com/spikelab/spikesim/tracing"
)

// A Simulation provides the services required to define and run a
// simulation.
type Simulation struct {
	id     string
	engine sim.Engine

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	visTracer    *tracing.DBTracer

	components    map[string]sim.Named
	componentList []sim.Named
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder used in the simulation.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetVisTracer returns the tracer used in the simulation. It is nil when
// tracing is disabled.
func (s *Simulation) GetVisTracer() *tracing.DBTracer {
	return s.visTracer
}

// RegisterComponent registers a component with the simulation. Registering
// two components with the same name is a programming error.
func (s *Simulation) RegisterComponent(c sim.Named) {
	name := c.Name()
	if _, ok := s.components[name]; ok {
		panic("component " + name + " already registered")
	}

	s.components[name] = c
	s.componentList = append(s.componentList, c)

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}
}

// UnregisterComponent removes a component from the simulation. References
// created with SourceRef for that component expire immediately.
func (s *Simulation) UnregisterComponent(name string) {
	if _, ok := s.components[name]; !ok {
		panic("component " + name + " is not registered")
	}

	delete(s.components, name)

	newList := make([]sim.Named, 0, len(s.componentList)-1)
	for _, c := range s.componentList {
		if c.Name() != name {
			newList = append(newList, c)
		}
	}
	s.componentList = newList
}

// GetComponentByName returns the component with the given name, or nil when
// no such component is registered.
func (s *Simulation) GetComponentByName(name string) sim.Named {
	return s.components[name]
}

// Components returns all the registered components.
func (s *Simulation) Components() []sim.Named {
	return s.componentList
}

// SourceRef returns a non-owning reference to the registered spike source
// with the given name. The reference resolves through the registry on every
// access, so it expires as soon as the source is unregistered.
func (s *Simulation) SourceRef(name string) monitors.SourceRef {
	return &registryRef{sim: s, name: name}
}

type registryRef struct {
	sim  *Simulation
	name string
}

func (r *registryRef) Name() string {
	return r.name
}

func (r *registryRef) Get() (neurons.SpikeSource, error) {
	c, ok := r.sim.components[r.name]
	if !ok {
		return nil, &monitors.ExpiredRefError{Name: r.name}
	}

	src, ok := c.(neurons.SpikeSource)
	if !ok {
		return nil, fmt.Errorf(
			"component %q is not a spike source", r.name)
	}

	return src, nil
}

// Run advances the simulation by the given amount of simulated time. All the
// registered clocked components are kick-started through the run horizon and
// the engine processes events until the horizon is reached. A failing
// component stops the run and its error is returned unchanged.
func (s *Simulation) Run(duration sim.VTimeInSec) error {
	if duration <= 0 {
		return fmt.Errorf("run duration must be positive, got %v", duration)
	}

	end := s.engine.CurrentTime() + duration

	for _, c := range s.componentList {
		if clocked, ok := c.(sim.Clocked); ok {
			clocked.StartRun(end)
		}
	}

	if s.monitor != nil {
		bar := s.monitor.CreateProgressBar(
			fmt.Sprintf("Run until %.6fs", end), 100)
		s.engine.AcceptHook(&progressHook{
			bar:   bar,
			start: s.engine.CurrentTime(),
			end:   end,
		})
		defer s.monitor.CompleteProgressBar(bar)
	}

	return s.engine.Run()
}

// Terminate terminates the simulation, flushing all the recorded data.
func (s *Simulation) Terminate() {
	if s.visTracer != nil {
		s.visTracer.Terminate()
	}

	if s.dataRecorder != nil {
		s.dataRecorder.Flush()
	}
}

// progressHook updates a progress bar as the engine moves through simulated
// time.
type progressHook struct {
	bar        *monitoring.ProgressBar
	start, end sim.VTimeInSec
}

func (h *progressHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterEvent {
		return
	}

	evt, ok := ctx.Item.(sim.Event)
	if !ok {
		return
	}

	span := h.end - h.start
	if span <= 0 {
		return
	}

	done := float64(evt.Time()-h.start) / float64(span)
	if done > 1 {
		done = 1
	}

	h.bar.SetFinished(uint64(done * 100))
}
