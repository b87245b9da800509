package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/hiddenmemory/crdt/config"
	"github.com/hiddenmemory/crdt/replica"
	"github.com/hiddenmemory/crdt/sim"
	"github.com/sanity-io/litter"
)

// Functions

// initLogger initializes a JSON gokit-logger set
// to the according log level supplied via cli flag.
func initLogger(w io.Writer, loglevel string) log.Logger {

	logger := log.NewJSONLogger(log.NewSyncWriter(w))
	logger = log.With(logger,
		"ts", log.DefaultTimestampUTC,
		"caller", log.DefaultCaller,
	)

	switch strings.ToLower(loglevel) {
	case "info":
		logger = level.NewFilter(logger, level.AllowInfo())
	case "warn":
		logger = level.NewFilter(logger, level.AllowWarn())
	case "error":
		logger = level.NewFilter(logger, level.AllowError())
	default:
		logger = level.NewFilter(logger, level.AllowDebug())
	}

	return logger
}

// simOptions translates the simulation part
// of the config into simulation options.
func simOptions(conf *config.Config) sim.Options {

	seed := conf.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return sim.Options{
		Replicas:      conf.Simulation.Replicas,
		Inserts:       conf.Simulation.Inserts,
		Universe:      conf.Simulation.Universe,
		DuplicateRate: conf.Simulation.DuplicateRate,
		MergeEvery:    conf.Simulation.MergeEvery,
		Seed:          seed,
	}
}

func main() {

	// Parse command-line flags that define config paths.
	configFlag := flag.String("config", "config.toml", "Provide path to configuration file in TOML syntax.")
	envFlag := flag.String("env", ".env", "Provide path to an optional .env file overriding seed and log level.")
	loglevelFlag := flag.String("loglevel", "", "This flag overrides the logging level of the config file.")
	flag.Parse()

	// Log at debug level until the config says otherwise.
	logger := initLogger(os.Stdout, "debug")

	// Read configuration from file.
	conf, err := config.LoadConfig(*configFlag)
	if err != nil {
		level.Error(logger).Log(
			"msg", "failed to load the config",
			"err", err,
		)
		os.Exit(1)
	}

	env, err := config.LoadEnv(*envFlag)
	if err != nil {
		level.Error(logger).Log(
			"msg", "failed to load the environment",
			"err", err,
		)
		os.Exit(2)
	}
	env.Apply(conf)

	if *loglevelFlag != "" {
		conf.LogLevel = *loglevelFlag
	}

	logger = initLogger(os.Stdout, conf.LogLevel)

	m := NewCRDTMetrics(conf.Metrics.PrometheusAddr)
	go runPromHTTP(logger, conf.Metrics.PrometheusAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := sim.New(logger, simOptions(conf), func(r replica.Service[string]) replica.Service[string] {
		r = replica.NewLoggingService(r, logger)
		return replica.NewMetricsService(r, m.Replica)
	})
	if err != nil {
		level.Error(logger).Log(
			"msg", "failed to initialize simulation",
			"err", err,
		)
		os.Exit(3)
	}

	report, err := s.Run(ctx)
	if err != nil {
		level.Error(logger).Log(
			"msg", "failed to run simulation",
			"err", err,
		)
		os.Exit(4)
	}

	dump := litter.Options{Compact: true}
	level.Debug(logger).Log(
		"msg", "converged state",
		"elements", dump.Sdump(report.Elements),
	)

	if !report.Converged {
		level.Error(logger).Log(
			"msg", "replicas did not converge",
			"run", report.RunID,
			"divergent", strings.Join(report.Divergent, ","),
		)
		os.Exit(5)
	}

	// Keep exposing the final counters until told to stop.
	if conf.Metrics.PrometheusAddr != "" {
		level.Info(logger).Log("msg", "simulation done, serving metrics until interrupted")
		<-ctx.Done()
	}
}
