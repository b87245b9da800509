package main

import (
	"net/http"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	"github.com/hiddenmemory/crdt/replica"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CRDTMetrics struct {
	Replica *replica.Metrics
}

// replicaCounter registers a Prometheus counter of the
// replica subsystem, labeled by replica name.
func replicaCounter(name string, help string) metrics.Counter {

	return prometheus.NewCounterFrom(prom.CounterOpts{
		Namespace: "crdt",
		Subsystem: "replica",
		Name:      name,
		Help:      help,
	}, []string{"replica"})
}

func NewCRDTMetrics(prometheusAddr string) *CRDTMetrics {

	m := &CRDTMetrics{}

	if prometheusAddr == "" {
		m.Replica = &replica.Metrics{
			Inserts:      discard.NewCounter(),
			NovelInserts: discard.NewCounter(),
			Applies:      discard.NewCounter(),
			Merges:       discard.NewCounter(),
		}
	} else {
		m.Replica = &replica.Metrics{
			Inserts:      replicaCounter("inserts_total", "Number of local insertions"),
			NovelInserts: replicaCounter("novel_inserts_total", "Number of local insertions of unseen elements"),
			Applies:      replicaCounter("applied_ops_total", "Number of applied remote operations"),
			Merges:       replicaCounter("merges_total", "Number of merged remote snapshots"),
		}
	}

	return m
}

func runPromHTTP(logger log.Logger, addr string) {

	if addr == "" {
		level.Debug(logger).Log("msg", "prometheus addr is empty, not exposing prometheus metrics")
		return
	}

	http.Handle("/metrics", promhttp.Handler())

	level.Info(logger).Log("msg", "prometheus handler listening", "addr", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		level.Warn(logger).Log("msg", "failed to serve prometheus metrics", "err", err)
	}
}
