// Package tracing records which events a simulation engine executes and
// when. It observes the engine through hooks, so simulations pay nothing for
// tracing unless a tracer is attached. Tracing covers engine execution only;
// it never touches the data a monitor records.
package tracing

import (
	"fmt"
	"reflect"

	"github.com/spikelab/spikesim/sim"
)

// A TickRecord describes one executed event.
type TickRecord struct {
	ID      string  `json:"id"`
	Time    float64 `json:"time"`
	Phase   string  `json:"phase"`
	Handler string  `json:"handler"`
	Kind    string  `json:"kind"`
}

// A Tracer consumes the tick records of a run.
type Tracer interface {
	RecordTick(r TickRecord)
}

// CollectTrace lets the tracer collect one record per executed event from
// the engine. Attaching the same tracer twice is a programming error.
func CollectTrace(engine sim.Engine, tracer Tracer) {
	for _, hook := range engine.Hooks() {
		h, ok := hook.(*traceHook)
		if ok && h.t == tracer {
			panic(fmt.Sprintf(
				"engine already has tracer %s", reflect.TypeOf(tracer)))
		}
	}

	engine.AcceptHook(&traceHook{t: tracer})
}

// A traceHook forwards executed events to a tracer.
type traceHook struct {
	t Tracer
}

// Func builds a TickRecord for every handled event.
func (h *traceHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterEvent {
		return
	}

	evt, ok := ctx.Item.(sim.Event)
	if !ok {
		return
	}

	rec := TickRecord{
		ID:    sim.GetIDGenerator().Generate(),
		Time:  float64(evt.Time()),
		Phase: evt.Phase().String(),
		Kind:  eventKind(evt),
	}

	if named, ok := evt.Handler().(sim.Named); ok {
		rec.Handler = named.Name()
	}

	h.t.RecordTick(rec)
}

func eventKind(evt sim.Event) string {
	t := reflect.TypeOf(evt)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t.Name()
}
