package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type countingTicker struct {
	ticks     int
	tickTimes []VTimeInSec
	clock     *Clock

	// when > 0, the step size is changed to newStep after this many ticks
	changeAfter int
	newStep     VTimeInSec
}

func (t *countingTicker) Tick() error {
	t.ticks++
	t.tickTimes = append(t.tickTimes, t.clock.CurrentTime())

	if t.changeAfter > 0 && t.ticks == t.changeAfter {
		t.clock.SetStepSize(t.newStep)
	}

	return nil
}

var _ = Describe("ClockedComponent", func() {
	var (
		engine *SerialEngine
		clock  *Clock
		ticker *countingTicker
		comp   *ClockedComponent
	)

	BeforeEach(func() {
		engine = NewSerialEngine()
		clock = NewClock("main", engine, 0.001)
		ticker = &countingTicker{clock: clock}
		comp = NewClockedComponent("comp", engine, clock, PhaseUpdate, ticker)
	})

	It("should tick once per clock step through the run horizon", func() {
		comp.StartRun(0.01)

		Expect(engine.Run()).To(Succeed())

		Expect(ticker.ticks).To(Equal(10))
		Expect(ticker.tickTimes[0]).To(BeNumerically("~", 0.001, 1e-12))
		Expect(ticker.tickTimes[9]).To(BeNumerically("~", 0.01, 1e-12))
	})

	It("should never tick past the run horizon", func() {
		comp.StartRun(0.0025)

		Expect(engine.Run()).To(Succeed())

		Expect(ticker.ticks).To(Equal(2))
	})

	It("should tick floor(duration/dt) times over a long run", func() {
		comp.StartRun(1.0)

		Expect(engine.Run()).To(Succeed())

		// 1s at dt=1ms is exactly 1000 ticks; naive time accumulation
		// drifts off the step grid and loses the last one.
		Expect(ticker.ticks).To(Equal(1000))
		Expect(ticker.tickTimes[999]).To(BeNumerically("~", 1.0, 1e-9))
		for i, t := range ticker.tickTimes {
			Expect(float64(t)).To(
				BeNumerically("~", 0.001*float64(i+1), 1e-9))
		}
	})

	It("should record non-decreasing tick times", func() {
		comp.StartRun(0.01)

		Expect(engine.Run()).To(Succeed())

		for i := 1; i < len(ticker.tickTimes); i++ {
			Expect(ticker.tickTimes[i]).To(
				BeNumerically(">=", ticker.tickTimes[i-1]))
		}
	})

	It("should honor step size changes between ticks", func() {
		ticker.changeAfter = 2
		ticker.newStep = 0.002

		comp.StartRun(0.008)

		Expect(engine.Run()).To(Succeed())

		// ticks at 0.001, 0.002, then spacing 0.002: 0.004, 0.006, 0.008
		Expect(ticker.ticks).To(Equal(5))
		Expect(ticker.tickTimes[2]).To(BeNumerically("~", 0.004, 1e-12))
		Expect(ticker.tickTimes[4]).To(BeNumerically("~", 0.008, 1e-12))
	})

	It("should continue a run from where the last one ended", func() {
		comp.StartRun(0.005)
		Expect(engine.Run()).To(Succeed())
		Expect(ticker.ticks).To(Equal(5))

		comp.StartRun(0.01)
		Expect(engine.Run()).To(Succeed())
		Expect(ticker.ticks).To(Equal(10))
	})
})
