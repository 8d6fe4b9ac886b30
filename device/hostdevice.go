package device

import "fmt"

// HostDevice executes operations in process, on the host memory. It is the
// reference device: it interprets templates directly instead of generating
// code for them.
type HostDevice struct{}

// NewHostDevice creates a HostDevice.
func NewHostDevice() *HostDevice {
	return &HostDevice{}
}

// NewSeries allocates an empty host-memory series.
func (d *HostDevice) NewSeries(label string) Series {
	return &hostSeries{label: label}
}

// Compile validates the template and returns an interpreting op for it.
func (d *HostDevice) Compile(t Template) (Op, error) {
	switch t.Kind {
	case KindPopulationRate:
		return d.compilePopulationRate(t)
	case KindSpikeEvents:
		return d.compileSpikeEvents(t)
	default:
		return nil, fmt.Errorf("unknown template kind %q", t.Kind)
	}
}

func (d *HostDevice) compilePopulationRate(t Template) (Op, error) {
	timeFn, err := scalarBinding(t, "t")
	if err != nil {
		return nil, err
	}

	stepFn, err := scalarBinding(t, "dt")
	if err != nil {
		return nil, err
	}

	spikesFn, err := setBinding(t, "spikes")
	if err != nil {
		return nil, err
	}

	n, ok := t.Consts["n"]
	if !ok {
		return nil, fmt.Errorf("template %q: missing const %q", t.Kind, "n")
	}
	if n <= 0 {
		return nil, fmt.Errorf(
			"template %q: const %q must be positive, got %v", t.Kind, "n", n)
	}

	rateOut, err := outputBinding(t, "rate")
	if err != nil {
		return nil, err
	}

	timeOut, err := outputBinding(t, "t")
	if err != nil {
		return nil, err
	}

	return &populationRateOp{
		time:    timeFn,
		step:    stepFn,
		spikes:  spikesFn,
		n:       n,
		rateOut: rateOut,
		timeOut: timeOut,
	}, nil
}

func (d *HostDevice) compileSpikeEvents(t Template) (Op, error) {
	timeFn, err := scalarBinding(t, "t")
	if err != nil {
		return nil, err
	}

	spikesFn, err := setBinding(t, "spikes")
	if err != nil {
		return nil, err
	}

	timeOut, err := outputBinding(t, "t")
	if err != nil {
		return nil, err
	}

	indexOut, err := outputBinding(t, "i")
	if err != nil {
		return nil, err
	}

	return &spikeEventsOp{
		time:     timeFn,
		spikes:   spikesFn,
		timeOut:  timeOut,
		indexOut: indexOut,
	}, nil
}

func scalarBinding(t Template, name string) (func() float64, error) {
	fn, ok := t.Scalars[name]
	if !ok || fn == nil {
		return nil, fmt.Errorf(
			"template %q: missing scalar %q", t.Kind, name)
	}
	return fn, nil
}

func setBinding(t Template, name string) (func() []int, error) {
	fn, ok := t.Sets[name]
	if !ok || fn == nil {
		return nil, fmt.Errorf("template %q: missing set %q", t.Kind, name)
	}
	return fn, nil
}

func outputBinding(t Template, name string) (Series, error) {
	s, ok := t.Outputs[name]
	if !ok || s == nil {
		return nil, fmt.Errorf(
			"template %q: missing output %q", t.Kind, name)
	}
	return s, nil
}

// populationRateOp computes fired/(dt*n) and appends it together with the
// current time.
type populationRateOp struct {
	time   func() float64
	step   func() float64
	spikes func() []int
	n      float64

	rateOut Series
	timeOut Series
}

func (o *populationRateOp) Execute() error {
	dt := o.step()
	if dt <= 0 {
		return fmt.Errorf("step size must be positive, got %v", dt)
	}

	fired := float64(len(o.spikes()))
	rate := fired / (dt * o.n)
	now := o.time()

	// Both values are computed before either append so the two series never
	// end up with different lengths.
	o.rateOut.Append(rate)
	o.timeOut.Append(now)

	return nil
}

// spikeEventsOp appends one (time, index) pair per fired unit.
type spikeEventsOp struct {
	time   func() float64
	spikes func() []int

	timeOut  Series
	indexOut Series
}

func (o *spikeEventsOp) Execute() error {
	now := o.time()

	for _, idx := range o.spikes() {
		o.timeOut.Append(now)
		o.indexOut.Append(float64(idx))
	}

	return nil
}
