// Package metrics declares the Prometheus collectors shared by every
// container shape (map, set, sequence); the clusters record none of their
// own.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Commands counts dispatched owner commands by container shape and
	// operation name (e.g. "get", "insert", "remove", "get_all").
	Commands = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "actorcache_commands_total",
		Help: "Total commands served by container owners, by shape and operation",
	}, []string{"shape", "op"})

	// Expirations counts entries removed by the TTL sweep.
	Expirations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "actorcache_expirations_total",
		Help: "Total entries removed for having passed their expiry",
	}, []string{"shape"})

	// Evictions counts entries removed by capacity eviction, by the
	// policy that picked the victim.
	Evictions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "actorcache_evictions_total",
		Help: "Total entries removed by capacity eviction, by policy",
	}, []string{"shape", "policy"})

	// ReplicationPulls counts each follower's per-tick pull from its
	// primary, by outcome ("ok", "error").
	ReplicationPulls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "actorcache_replication_pulls_total",
		Help: "Total replication pulls a follower has issued against its primary",
	}, []string{"shape", "outcome"})

	// ReplyDropped counts replies the owner could not place on a reply
	// channel because its one-slot buffer was already full.
	ReplyDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "actorcache_reply_dropped_total",
		Help: "Total command replies dropped because the caller was gone",
	}, []string{"shape"})

	// InboxDepth samples the current queue depth of a named container's
	// inbox.
	InboxDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "actorcache_inbox_depth",
		Help: "Current number of queued commands in a container's inbox",
	}, []string{"shape", "container"})

	// TickDuration measures how long one maintenance phase (replication
	// pull, TTL sweep, eviction) takes to run.
	TickDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "actorcache_tick_duration_seconds",
		Help:    "Duration of an owner's periodic maintenance phase",
		Buckets: prometheus.DefBuckets,
	}, []string{"shape"})
)

var registerOnce sync.Once

// Register registers every collector with prometheus's default registerer.
// Safe to call more than once; only the first call has effect.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			Commands,
			Expirations,
			Evictions,
			ReplicationPulls,
			ReplyDropped,
			InboxDepth,
			TickDuration,
		)
	})
}
