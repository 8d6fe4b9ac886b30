// Package neurons provides spike sources: populations of discrete units
// that, on every tick of their clock, publish the set of units that fired in
// that tick.
package neurons

import "github.com/spikelab/spikesim/sim"

// A SpikeSource is a population of units that fires on the ticks of a clock.
type SpikeSource interface {
	sim.Named

	// UnitCount returns the fixed number of units in the population. It does
	// not change over the lifetime of the source, so observers may query it
	// once and cache it.
	UnitCount() int

	// FiredThisTick returns the indices of the units that fired in the
	// current tick. The returned slice is only valid until the end of the
	// tick and must not be retained or mutated.
	FiredThisTick() []int

	// Clock returns the clock the source fires on.
	Clock() *sim.Clock
}
