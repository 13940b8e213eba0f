package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	sim "github.com/inference-sim/plaza-sim/sim"
	"github.com/inference-sim/plaza-sim/sim/promexport"
	"github.com/inference-sim/plaza-sim/sim/trace"
)

var (
	configPath     string  // Path to a YAML plaza configuration
	seed           int64   // Seed for every random stream of the run
	horizon        float64 // Simulated seconds
	traffic        string  // Traffic preset name
	rate           float64 // Vehicles per hour, overrides the preset
	abandon        float64 // Probability that an arriving vehicle leaves at once
	sampleInterval float64 // Seconds between periodic queue samples
	replications   int     // Number of independent runs
	traceLevel     string  // Journey trace verbosity
	metricsOut     string  // Prometheus textfile destination
	logLevel       string  // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "plaza-sim",
	Short: "Discrete-event simulator for toll plazas",
}

// runCmd executes the simulation using the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the toll-plaza simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := resolveConfig(cmd.Flags().Changed)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if replications <= 0 {
			logrus.Fatalf("--replications must be positive, got %d", replications)
		}

		startTime := time.Now()
		if err := runPlaza(cmd.OutOrStdout(), cfg, replications, metricsOut); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Simulation complete in %s.", time.Since(startTime).Round(time.Millisecond))
	},
}

// presetsCmd prints the default configuration, a starting point for --config
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Print the default plaza configuration and traffic presets as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		if err := writePresets(cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// runPlaza runs cfg once, or n times as replications, and writes the report
// to w. With metricsPath set, every run is also exported as Prometheus gauges.
func runPlaza(w io.Writer, cfg sim.PlazaConfig, n int, metricsPath string) error {
	var results []*sim.Result
	if n == 1 {
		s, err := sim.NewSimulator(cfg)
		if err != nil {
			return err
		}
		res := s.Run()
		res.Statistics.Print(w)
		if res.Trace.Enabled() {
			printTraceSummary(w, trace.Summarize(res.Trace))
		}
		results = []*sim.Result{res}
	} else {
		var err error
		results, err = sim.RunReplications(cfg, n)
		if err != nil {
			return err
		}
		sim.SummarizeReplications(results).Print(w)
	}

	if metricsPath == "" {
		return nil
	}
	collector, err := promexport.NewCollector(nil)
	if err != nil {
		return err
	}
	for _, res := range results {
		collector.Observe(res)
	}
	if err := collector.WriteTextfile(metricsPath); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	logrus.Infof("Wrote metrics for %d run(s) to %s", len(results), metricsPath)
	return nil
}

func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Trace Summary ===")
	fmt.Fprintf(w, "Transitions          : %d\n", s.TotalTransitions)
	fmt.Fprintf(w, "Journeys             : %d\n", s.UniqueJourneys)
	fmt.Fprintf(w, "Window               : %.3f .. %.3f s\n", s.FirstClock, s.LastClock)
	for _, t := range []trace.Transition{
		trace.TransitionArrive, trace.TransitionAbandon, trace.TransitionQueue,
		trace.TransitionServe, trace.TransitionDepart,
	} {
		fmt.Fprintf(w, "  %-8s : %d\n", t, s.ByTransition[t])
	}
	for _, lane := range s.Lanes() {
		fmt.Fprintf(w, "  lane %s: %d arrivals, longest queue %d\n", lane, s.ByLane[lane], s.MaxQueueLen[lane])
	}
}

// presetsDocument is what `plaza-sim presets` prints.
type presetsDocument struct {
	TrafficPresets map[string]float64 `yaml:"traffic_presets"` // vehicles/hour
	Defaults       sim.PlazaConfig    `yaml:"defaults"`
}

func writePresets(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(presetsDocument{
		TrafficPresets: sim.TrafficPresets,
		Defaults:       sim.DefaultPlazaConfig(),
	}); err != nil {
		return fmt.Errorf("encoding presets: %w", err)
	}
	return enc.Close()
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	defaults := sim.DefaultPlazaConfig()

	runCmd.Flags().StringVar(&configPath, "config", "", "YAML plaza configuration (lanes, booths, service distributions)")
	runCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Seed for all random streams")
	runCmd.Flags().Float64Var(&horizon, "horizon", defaults.Horizon, "Simulation horizon (in seconds)")
	runCmd.Flags().StringVar(&traffic, "traffic", defaults.Traffic, "Traffic preset (light, moderate, heavy)")
	runCmd.Flags().Float64Var(&rate, "rate", 0, "Arrival rate in vehicles per hour; overrides --traffic")
	runCmd.Flags().Float64Var(&abandon, "abandon", defaults.AbandonProbability, "Probability that an arriving vehicle leaves without queueing")
	runCmd.Flags().Float64Var(&sampleInterval, "sample-interval", defaults.SampleInterval, "Seconds between periodic queue samples (0 disables)")
	runCmd.Flags().IntVar(&replications, "replications", 1, "Number of independent runs; seeds are seed, seed+1, ...")
	runCmd.Flags().StringVar(&traceLevel, "trace", defaults.Trace, "Journey trace level (none, transitions)")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write the run summary as Prometheus text format to this file")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(presetsCmd)
}
