package sim

import (
	"fmt"
	"log"
)

// Freq defines a frequency, or a rate, in the simulated space.
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the time between two consecutive ticks at this frequency.
func (f Freq) Period() VTimeInSec {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}
	return VTimeInSec(1.0 / f)
}

// String formats the frequency with its unit.
func (f Freq) String() string {
	switch {
	case f >= GHz:
		return fmt.Sprintf("%.4g GHz", float64(f/GHz))
	case f >= MHz:
		return fmt.Sprintf("%.4g MHz", float64(f/MHz))
	case f >= KHz:
		return fmt.Sprintf("%.4g KHz", float64(f/KHz))
	default:
		return fmt.Sprintf("%.4g Hz", float64(f))
	}
}
