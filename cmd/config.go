package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"

	sim "github.com/inference-sim/plaza-sim/sim"
)

// resolveConfig builds the run configuration: defaults, then the --config
// file, then every flag the user set explicitly. changed reports whether a
// flag was given on the command line.
func resolveConfig(changed func(name string) bool) (sim.PlazaConfig, error) {
	cfg := sim.DefaultPlazaConfig()
	if configPath != "" {
		loaded, err := sim.LoadPlazaConfig(configPath)
		if err != nil {
			return sim.PlazaConfig{}, err
		}
		cfg = *loaded
		logrus.Infof("Loaded plaza config from %s", configPath)
	}

	if changed("seed") {
		cfg.Seed = seed
	}
	if changed("horizon") {
		cfg.Horizon = horizon
	}
	if changed("traffic") {
		cfg.Traffic = traffic
		// A preset named on the command line beats a rate from the file.
		if !changed("rate") && cfg.ArrivalRate != 0 {
			logrus.Infof("--traffic %s overrides arrival_rate %.1f from the config file", traffic, cfg.ArrivalRate)
			cfg.ArrivalRate = 0
		}
	}
	if changed("rate") {
		cfg.ArrivalRate = rate
	}
	if changed("abandon") {
		cfg.AbandonProbability = abandon
	}
	if changed("sample-interval") {
		cfg.SampleInterval = sampleInterval
	}
	if changed("trace") {
		cfg.Trace = traceLevel
	}

	if err := cfg.Validate(); err != nil {
		return sim.PlazaConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
