package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spikelab/spikesim/device"
	"github.com/spikelab/spikesim/monitors"
	"github.com/spikelab/spikesim/neurons"
	"github.com/spikelab/spikesim/sim"
	"github.com/spikelab/spikesim/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a Poisson population and record its firing rate.",
	Long: `Run simulates a population of independently firing Poisson units on a ` +
		`stepped clock and records the instantaneous population rate together ` +
		`with every individual spike.`,
	Run: runSimulation,
}

func init() {
	runCmd.Flags().Int("units", 1000, "number of units in the population")
	runCmd.Flags().Float64("firing-rate", 100,
		"mean firing rate of each unit, in Hz")
	runCmd.Flags().Float64("dt", 0.0001, "clock step size, in seconds")
	runCmd.Flags().Float64("duration", 1, "simulated duration, in seconds")
	runCmd.Flags().Int64("seed", 1, "random seed")
	runCmd.Flags().Int("monitor-port", 0,
		"port of the monitoring server, random when 0")
	runCmd.Flags().Bool("no-monitor", false, "disable the monitoring server")
	runCmd.Flags().Bool("no-trace", false, "disable tick tracing")
	runCmd.Flags().Bool("open-browser", false,
		"open the monitoring page in the default browser")
	runCmd.Flags().String("output", "",
		"output file name, without the .sqlite3 suffix")

	rootCmd.AddCommand(runCmd)
}

func runSimulation(cmd *cobra.Command, _ []string) {
	units, _ := cmd.Flags().GetInt("units")
	firingRate, _ := cmd.Flags().GetFloat64("firing-rate")
	dt, _ := cmd.Flags().GetFloat64("dt")
	duration, _ := cmd.Flags().GetFloat64("duration")
	seed, _ := cmd.Flags().GetInt64("seed")
	monitorPort, _ := cmd.Flags().GetInt("monitor-port")
	noMonitor, _ := cmd.Flags().GetBool("no-monitor")
	noTrace, _ := cmd.Flags().GetBool("no-trace")
	openBrowser, _ := cmd.Flags().GetBool("open-browser")
	output, _ := cmd.Flags().GetString("output")

	if output == "" {
		output = os.Getenv("SPIKESIM_OUTPUT")
	}

	builder := simulation.MakeBuilder()
	if noMonitor {
		builder = builder.WithoutMonitoring()
	}
	if monitorPort > 0 {
		builder = builder.WithMonitorPort(monitorPort)
	}
	if noTrace {
		builder = builder.WithoutTracing()
	}
	if output != "" {
		builder = builder.WithOutputFileName(output)
	}
	if !noMonitor && openBrowser {
		builder = builder.WithBrowserLaunch()
	}

	s := builder.Build()
	defer s.Terminate()

	engine := s.GetEngine()
	clock := sim.NewClock("Clock", engine, sim.VTimeInSec(dt))

	group := neurons.NewPoissonGroup(
		"Group1", engine, clock, units, sim.Freq(firingRate), seed)
	s.RegisterComponent(group)

	dev := device.NewHostDevice()

	rateMon, err := monitors.NewPopulationRateMonitor(
		"RateMonitor1", s.SourceRef("Group1"), dev, engine)
	if err != nil {
		log.Fatalf("cannot create rate monitor: %v", err)
	}
	s.RegisterComponent(rateMon)

	spikeMon, err := monitors.NewSpikeMonitor(
		"SpikeMonitor1", s.SourceRef("Group1"), dev, engine)
	if err != nil {
		log.Fatalf("cannot create spike monitor: %v", err)
	}
	s.RegisterComponent(spikeMon)

	err = s.Run(sim.VTimeInSec(duration))
	if err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	printSummary(rateMon, spikeMon)
}

func printSummary(
	rateMon *monitors.PopulationRateMonitor,
	spikeMon *monitors.SpikeMonitor,
) {
	rates := rateMon.RateUnitless()
	if len(rates) == 0 {
		fmt.Println("No samples recorded.")
		return
	}

	sum := 0.0
	for _, r := range rates {
		sum += r
	}

	fmt.Printf("Samples recorded:  %d\n", len(rates))
	fmt.Printf("Mean rate:         %.2f Hz\n", sum/float64(len(rates)))
	fmt.Printf("Spikes recorded:   %d\n", spikeMon.Count())
}
