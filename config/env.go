package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Names of the environment variables this module reads.
const (
	envSeed     = "CRDT_SEED"
	envLogLevel = "CRDT_LOGLEVEL"
)

// Structs

// Env holds information specific to the system where
// the simulation is executed. This enables host adaptions
// without needing to maintain two different config files.
type Env struct {
	Seed     int64
	HasSeed  bool
	LogLevel string
}

// Functions

// LoadEnv reads in all defined values from the supplied
// .env file, if it exists, and the process environment.
// Variables already set in the environment take
// precedence over the file.
func LoadEnv(envFile string) (*Env, error) {

	if _, err := os.Stat(envFile); err == nil {

		// Load environment file.
		if err := godotenv.Load(envFile); err != nil {
			return nil, errors.Wrapf(err, "failed to read in env file at '%s'", envFile)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to access env file at '%s'", envFile)
	}

	env := &Env{
		LogLevel: os.Getenv(envLogLevel),
	}

	if raw := os.Getenv(envSeed); raw != "" {

		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s '%s'", envSeed, raw)
		}

		env.Seed = seed
		env.HasSeed = true
	}

	return env, nil
}

// Apply overrides values in conf with all
// values set in the environment.
func (env *Env) Apply(conf *Config) {

	if env.HasSeed {
		conf.Simulation.Seed = env.Seed
	}

	if env.LogLevel != "" {
		conf.LogLevel = env.LogLevel
	}
}
