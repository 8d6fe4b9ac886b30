package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spikesim",
	Short: "Spikesim simulates spiking unit populations and records their firing rates.",
	Long: `Spikesim simulates populations of spiking units on a stepped clock and ` +
		`records their instantaneous population firing rate, tick by tick. ` +
		`Recorded data is written to a SQLite file and a running simulation ` +
		`can be observed through a built-in web monitor.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
