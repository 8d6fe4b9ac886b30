// Spikesim runs spiking population simulations and records population
// firing rates.
package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// A .env file can preset any SPIKESIM_* variable. Missing files are
	// fine.
	_ = godotenv.Load()

	Execute()
}
