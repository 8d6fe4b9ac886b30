package neurons

import (
	"log"
	"math/rand"

	"github.com/spikelab/spikesim/sim"
)

// A PoissonGroup is a population of units that each fire independently with
// probability rate*dt on every tick of the group's clock. It updates at
// PhaseUpdate, so that same-tick observers scheduled at PhaseEnd always see
// the finalized fired set.
type PoissonGroup struct {
	*sim.ClockedComponent

	clock *sim.Clock
	n     int
	rate  sim.Freq
	rng   *rand.Rand

	fired []int
}

// NewPoissonGroup creates a group of n units firing at the given mean rate
// on the ticks of clock. The seed makes runs reproducible.
func NewPoissonGroup(
	name string,
	engine sim.Engine,
	clock *sim.Clock,
	n int,
	rate sim.Freq,
	seed int64,
) *PoissonGroup {
	if n < 1 {
		log.Panic("poisson group requires at least one unit")
	}
	if rate < 0 {
		log.Panic("poisson group firing rate cannot be negative")
	}

	g := &PoissonGroup{
		clock: clock,
		n:     n,
		rate:  rate,
		rng:   rand.New(rand.NewSource(seed)),
		fired: make([]int, 0, n),
	}
	g.ClockedComponent = sim.NewClockedComponent(
		name, engine, clock, sim.PhaseUpdate, g)

	return g
}

// Tick redraws the fired set for the current tick.
func (g *PoissonGroup) Tick() error {
	g.fired = g.fired[:0]

	p := float64(g.rate) * float64(g.clock.StepSize())
	for i := 0; i < g.n; i++ {
		if g.rng.Float64() < p {
			g.fired = append(g.fired, i)
		}
	}

	return nil
}

// UnitCount returns the number of units in the group.
func (g *PoissonGroup) UnitCount() int {
	return g.n
}

// FiredThisTick returns the indices of the units that fired in the current
// tick. Valid only until the end of the tick.
func (g *PoissonGroup) FiredThisTick() []int {
	return g.fired
}

// Clock returns the clock the group fires on.
func (g *PoissonGroup) Clock() *sim.Clock {
	return g.clock
}
