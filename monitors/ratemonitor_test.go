package monitors_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spikelab/spikesim/device"
	"github.com/spikelab/spikesim/monitors"
	"github.com/spikelab/spikesim/sim"
)

var _ = Describe("PopulationRateMonitor", func() {
	var (
		engine *sim.SerialEngine
		clock  *sim.Clock
		dev    *device.HostDevice
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		clock = sim.NewClock("main", engine, 0.001)
		dev = device.NewHostDevice()
	})

	newMonitor := func(
		src *scriptedSource,
		opts ...monitors.Option,
	) *monitors.PopulationRateMonitor {
		m, err := monitors.NewPopulationRateMonitor(
			"ratemon", monitors.StrongRef(src), dev, engine, opts...)
		Expect(err).ToNot(HaveOccurred())
		return m
	}

	run := func(src *scriptedSource, m sim.Clocked, until sim.VTimeInSec) {
		src.StartRun(until)
		m.StartRun(until)
		Expect(engine.Run()).To(Succeed())
	}

	It("should start with empty series", func() {
		src := newScriptedSource("src", engine, clock, 100, nil)
		m := newMonitor(src)

		Expect(m.Rate()).To(BeEmpty())
		Expect(m.Time()).To(BeEmpty())
		Expect(m.RateUnitless()).To(BeEmpty())
		Expect(m.TimeUnitless()).To(BeEmpty())
	})

	It("should keep reset a no-op on an empty monitor", func() {
		src := newScriptedSource("src", engine, clock, 100, nil)
		m := newMonitor(src)

		m.Reset()

		Expect(m.Rate()).To(BeEmpty())
		Expect(m.Time()).To(BeEmpty())
	})

	It("should record one sample per tick", func() {
		src := newScriptedSource("src", engine, clock, 100,
			[][]int{{1}, {2}, {3}, {}, {5, 6}})
		m := newMonitor(src)

		run(src, m, 0.005)

		Expect(m.Rate()).To(HaveLen(5))
		Expect(m.Time()).To(HaveLen(5))
	})

	It("should compute the exact instantaneous rate", func() {
		// 5 fired, dt = 0.1 ms, 1000 units -> 50 Hz
		clock.SetStepSize(0.0001)
		src := newScriptedSource("src", engine, clock, 1000,
			[][]int{{10, 20, 30, 40, 50}})
		m := newMonitor(src)

		run(src, m, 0.0001)

		rates := m.Rate()
		Expect(rates).To(HaveLen(1))
		Expect(float64(rates[0])).To(BeNumerically("~", 50.0, 1e-9))
	})

	It("should record the documented two-tick scenario", func() {
		src := newScriptedSource("src", engine, clock, 100, [][]int{
			{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			{},
		})
		m := newMonitor(src)

		run(src, m, 0.002)

		rates := m.RateUnitless()
		times := m.TimeUnitless()
		Expect(rates).To(HaveLen(2))
		Expect(rates[0]).To(BeNumerically("~", 100.0, 1e-9))
		Expect(rates[1]).To(BeNumerically("==", 0.0))
		Expect(times[0]).To(BeNumerically("~", 0.001, 1e-12))
		Expect(times[1]).To(BeNumerically("~", 0.002, 1e-12))

		m.Reset()
		Expect(m.Rate()).To(BeEmpty())
		Expect(m.Time()).To(BeEmpty())
	})

	It("should record non-decreasing sample times", func() {
		src := newScriptedSource("src", engine, clock, 10,
			[][]int{{1}, {1}, {1}, {1}})
		m := newMonitor(src)

		run(src, m, 0.004)

		times := m.TimeUnitless()
		for i := 1; i < len(times); i++ {
			Expect(times[i]).To(BeNumerically(">=", times[i-1]))
		}
	})

	It("should strip units consistently", func() {
		src := newScriptedSource("src", engine, clock, 10,
			[][]int{{1, 2}, {3}})
		m := newMonitor(src)

		run(src, m, 0.002)

		rates := m.Rate()
		raw := m.RateUnitless()
		Expect(raw).To(HaveLen(len(rates)))
		for i := range rates {
			Expect(raw[i]).To(BeNumerically("==", float64(rates[i])))
		}

		times := m.Time()
		rawTimes := m.TimeUnitless()
		for i := range times {
			Expect(rawTimes[i]).To(BeNumerically("==", float64(times[i])))
		}
	})

	It("should return independent copies", func() {
		src := newScriptedSource("src", engine, clock, 10, [][]int{{1}})
		m := newMonitor(src)

		run(src, m, 0.001)

		rates := m.RateUnitless()
		rates[0] = -1

		Expect(m.RateUnitless()[0]).To(BeNumerically(">=", 0))
	})

	It("should make reset idempotent", func() {
		src := newScriptedSource("src", engine, clock, 10, [][]int{{1}})
		m := newMonitor(src)

		run(src, m, 0.001)

		m.Reset()
		m.Reset()

		Expect(m.Rate()).To(BeEmpty())
		Expect(m.Time()).To(BeEmpty())
	})

	It("should record again after a reset, starting at index 0", func() {
		src := newScriptedSource("src", engine, clock, 100, [][]int{
			{1}, {1, 2}, {1, 2, 3},
		})
		m := newMonitor(src)

		run(src, m, 0.001)
		m.Reset()
		run(src, m, 0.003)

		rates := m.RateUnitless()
		Expect(rates).To(HaveLen(2))
		Expect(rates[0]).To(BeNumerically("~", 20.0, 1e-9)) // 2/(0.001*100)
		Expect(rates[1]).To(BeNumerically("~", 30.0, 1e-9))
	})

	It("should divide by the live step size when it changes", func() {
		src := newScriptedSource("src", engine, clock, 100, [][]int{
			{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		})
		m := newMonitor(src)

		run(src, m, 0.001)
		clock.SetStepSize(0.002)
		run(src, m, 0.003)

		rates := m.RateUnitless()
		Expect(rates).To(HaveLen(2))
		Expect(rates[0]).To(BeNumerically("~", 100.0, 1e-9))
		Expect(rates[1]).To(BeNumerically("~", 50.0, 1e-9))

		times := m.TimeUnitless()
		Expect(times[1]).To(BeNumerically("~", 0.003, 1e-12))
	})

	It("should reject a zero-unit source", func() {
		src := newScriptedSource("src", engine, clock, 0, nil)

		m, err := monitors.NewPopulationRateMonitor(
			"ratemon", monitors.StrongRef(src), dev, engine)

		Expect(m).To(BeNil())
		var cfgErr *monitors.ConfigError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
	})

	It("should reject a missing source", func() {
		m, err := monitors.NewPopulationRateMonitor(
			"ratemon", monitors.StrongRef(nil), dev, engine)

		Expect(m).To(BeNil())
		var cfgErr *monitors.ConfigError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
	})

	It("should reject a clock that differs from the source's clock", func() {
		src := newScriptedSource("src", engine, clock, 100, nil)
		other := sim.NewClock("other", engine, 0.002)

		m, err := monitors.NewPopulationRateMonitor(
			"ratemon", monitors.StrongRef(src), dev, engine,
			monitors.WithClock(other))

		Expect(m).To(BeNil())
		var cfgErr *monitors.ConfigError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
	})

	It("should reject a nil explicit clock", func() {
		src := newScriptedSource("src", engine, clock, 100, nil)

		m, err := monitors.NewPopulationRateMonitor(
			"ratemon", monitors.StrongRef(src), dev, engine,
			monitors.WithClock(nil))

		Expect(m).To(BeNil())
		var cfgErr *monitors.ConfigError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
	})

	It("should accept an explicit clock equal to the source's", func() {
		src := newScriptedSource("src", engine, clock, 100, nil)

		_, err := monitors.NewPopulationRateMonitor(
			"ratemon", monitors.StrongRef(src), dev, engine,
			monitors.WithClock(clock))

		Expect(err).ToNot(HaveOccurred())
	})

	It("should fail the run when the source expires mid-run", func() {
		src := newScriptedSource("src", engine, clock, 100,
			[][]int{{1}, {2}, {3}})
		ref := &expiringRef{src: src}

		m, err := monitors.NewPopulationRateMonitor(
			"ratemon", ref, dev, engine)
		Expect(err).ToNot(HaveOccurred())

		run(src, m, 0.002)
		Expect(m.Rate()).To(HaveLen(2))

		ref.expired = true
		src.StartRun(0.003)
		m.StartRun(0.003)

		runErr := engine.Run()
		var expErr *monitors.ExpiredRefError
		Expect(errors.As(runErr, &expErr)).To(BeTrue())

		// previously recorded data stays intact and readable
		Expect(m.Rate()).To(HaveLen(2))
		Expect(m.Time()).To(HaveLen(2))
	})

	It("should wrap device failures and keep the series paired", func() {
		src := newScriptedSource("src", engine, clock, 100,
			[][]int{{1}, {2}, {3}})
		failing := newFailingDevice(2)

		m, err := monitors.NewPopulationRateMonitor(
			"ratemon", monitors.StrongRef(src), failing, engine)
		Expect(err).ToNot(HaveOccurred())

		src.StartRun(0.003)
		m.StartRun(0.003)

		runErr := engine.Run()
		var backendErr *monitors.BackendError
		Expect(errors.As(runErr, &backendErr)).To(BeTrue())

		Expect(m.Rate()).To(HaveLen(2))
		Expect(m.Time()).To(HaveLen(2))
	})

	It("should describe itself with its own and the source's name", func() {
		src := newScriptedSource("poisson", engine, clock, 100, nil)
		m := newMonitor(src)

		Expect(m.Describe()).To(Equal(
			"<PopulationRateMonitor ratemon, recording poisson>"))
	})
})
