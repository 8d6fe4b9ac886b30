package tracing

import (
	"fmt"
	"sync"

	"github.com/spikelab/spikesim/datarecording"
	"github.com/spikelab/spikesim/sim"
	"github.com/tebeka/atexit"
)

// sessionIndexEntry is one row of the trace index table. Each tracing
// session stores its records in its own table.
type sessionIndexEntry struct {
	TableName    string  `json:"table_name"`
	SessionStart float64 `json:"session_start"`
	SessionEnd   float64 `json:"session_end"`
}

// A DBTracer stores tick records in a database. Tracing can be switched on
// and off while the simulation runs. Every on and off pair forms a session
// with its own table, so that a long run can be sampled instead of traced
// end to end.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder

	startTime, endTime sim.VTimeInSec

	tracing          bool
	sessionCount     int
	currentTableName string
	sessionStartTime sim.VTimeInSec
}

// NewDBTracer creates a DBTracer that writes through the given data
// recorder. The tracer starts enabled with an open session.
func NewDBTracer(
	timeTeller sim.TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable("trace", sessionIndexEntry{})

	t := &DBTracer{
		timeTeller: timeTeller,
		backend:    dataRecorder,
	}
	t.EnableTracing()

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// SetTimeRange limits tracing to the given simulated time window. Records
// outside the window are dropped even while a session is open.
func (t *DBTracer) SetTimeRange(startTime, endTime sim.VTimeInSec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = startTime
	t.endTime = endTime
}

// IsTracing reports whether a session is currently open.
func (t *DBTracer) IsTracing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.tracing
}

// RecordTick stores one tick record in the current session table.
func (t *DBTracer) RecordTick(r TickRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.tracing {
		return
	}

	if t.startTime > 0 && sim.VTimeInSec(r.Time) < t.startTime {
		return
	}

	if t.endTime > 0 && sim.VTimeInSec(r.Time) > t.endTime {
		return
	}

	t.backend.InsertData(t.currentTableName, r)
}

// EnableTracing opens a new tracing session.
func (t *DBTracer) EnableTracing() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.tracing {
		return
	}

	t.tracing = true
	t.sessionCount++
	t.sessionStartTime = t.timeTeller.CurrentTime()
	t.currentTableName = fmt.Sprintf("trace%d", t.sessionCount)
	t.backend.CreateTable(t.currentTableName, TickRecord{})
}

// DisableTracing closes the current session and records it in the trace
// index table.
func (t *DBTracer) DisableTracing() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.tracing {
		return
	}

	t.tracing = false
	t.backend.InsertData("trace", sessionIndexEntry{
		TableName:    t.currentTableName,
		SessionStart: float64(t.sessionStartTime),
		SessionEnd:   float64(t.timeTeller.CurrentTime()),
	})
	t.backend.Flush()
}

// Terminate closes the tracer, flushing all buffered records.
func (t *DBTracer) Terminate() {
	t.DisableTracing()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.Flush()
}
