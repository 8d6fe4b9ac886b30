package device

// An Op is one compiled per-tick operation. The scheduler guarantees Execute
// runs exactly once per tick; the op guarantees that its writes to output
// series are paired: values for all outputs are computed before any of them
// is appended, so a failed Execute leaves every output series untouched.
type Op interface {
	Execute() error
}

// Template kinds understood by the devices in this package.
const (
	// KindPopulationRate counts the fired set, divides by dt*n, and appends
	// the result alongside the current time.
	//
	// Scalars: "t", "dt". Consts: "n" (> 0). Sets: "spikes".
	// Outputs: "rate", "t".
	KindPopulationRate = "population-rate"

	// KindSpikeEvents appends (time, unit index) for every fired unit.
	//
	// Scalars: "t". Sets: "spikes". Outputs: "t", "i".
	KindSpikeEvents = "spike-events"
)

// A Template declares a per-tick operation as data: named live inputs, named
// constants, and named output series, plus a Kind that selects the
// computation contract. The declaring side never says how the operation is
// executed; the device decides that when it compiles the template.
//
// Scalar and set inputs are accessor functions so that the compiled op
// always reads live values. Set accessors are only called while a tick is
// being processed and the returned slice must not be retained past the tick.
type Template struct {
	Kind    string
	Scalars map[string]func() float64
	Consts  map[string]float64
	Sets    map[string]func() []int
	Outputs map[string]Series
}

// A Device supplies growable storage and turns operation templates into
// executable operations. Different devices may keep series in different
// kinds of memory; callers only rely on the Series and Op contracts.
type Device interface {
	// NewSeries allocates an empty series. The label is diagnostic only.
	NewSeries(label string) Series

	// Compile validates the template's bindings against its kind and returns
	// an executable operation. A template with missing or invalid bindings
	// fails here, not at execution time.
	Compile(t Template) (Op, error)
}
