package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Structs

// Config holds all information parsed from
// supplied config file.
type Config struct {
	LogLevel   string
	Simulation Simulation
	Metrics    Metrics
}

// Simulation describes one run of the convergence
// simulation: which replicas take part, how many
// insertions happen and how hostile delivery is.
type Simulation struct {
	Replicas      []string
	Inserts       int
	Universe      int
	DuplicateRate float64
	MergeEvery    int
	Seed          int64
}

// Metrics configures where replica counters are
// exposed. An empty address discards all metrics.
type Metrics struct {
	PrometheusAddr string
}

// Functions

// Default returns the configuration used for
// every value the config file leaves out.
func Default() *Config {

	return &Config{
		LogLevel: "info",
		Simulation: Simulation{
			Replicas:      []string{"replica-1", "replica-2", "replica-3"},
			Inserts:       1000,
			Universe:      100,
			DuplicateRate: 0.1,
			MergeEvery:    50,
		},
	}
}

// LoadConfig takes in the path to the main config
// file in TOML syntax and places the values from
// the file on top of the defaults.
func LoadConfig(configFile string) (*Config, error) {

	conf := Default()

	// Parse values from TOML file into struct.
	md, err := toml.DecodeFile(configFile, conf)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read in TOML config file at '%s'", configFile)
	}

	// Unknown keys are most likely typos.
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown keys in config file '%s': %v", configFile, undecoded)
	}

	if err := conf.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file '%s'", configFile)
	}

	return conf, nil
}

// Validate checks the parts of the config that cannot
// be expressed in TOML types alone.
func (conf *Config) Validate() error {

	switch strings.ToLower(conf.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("unsupported log level '%s'", conf.LogLevel)
	}

	if len(conf.Simulation.Replicas) < 2 {
		return errors.New("at least two replicas are needed to replicate anything")
	}

	// Make sure each replica name is usable as identifier.
	names := make(map[string]struct{}, len(conf.Simulation.Replicas))
	for _, name := range conf.Simulation.Replicas {

		if name == "" {
			return errors.New("replica names must not be empty")
		}

		if _, found := names[name]; found {
			return errors.Errorf("replica name '%s' used more than once", name)
		}

		names[name] = struct{}{}
	}

	return nil
}
