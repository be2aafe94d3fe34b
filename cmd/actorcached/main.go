// Command actorcached runs a small in-process demo of the three cache
// shapes — keyed map, set, and sequence — each fanned out over a fixed
// shard count, with a throttled load generator driving writes and a
// Prometheus endpoint exposing owner metrics.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	_ "go.uber.org/automaxprocs"

	"github.com/adred-codev/actorcache/hashmap"
	"github.com/adred-codev/actorcache/hashset"
	"github.com/adred-codev/actorcache/internal/inbox"
	"github.com/adred-codev/actorcache/internal/logging"
	"github.com/adred-codev/actorcache/internal/metrics"
	"github.com/adred-codev/actorcache/internal/policy"
	"github.com/adred-codev/actorcache/sequence"
)

func main() {
	log := logging.New("actorcached")

	cfg, err := LoadConfig(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("log_level", cfg.LogLevel).Msg("invalid LOG_LEVEL")
	}
	zerolog.SetGlobalLevel(level)

	metrics.Register()

	mapCluster := hashmap.NewCluster[string, int](cfg.Shards, func(id int) hashmap.Config {
		return hashmap.Config{
			Policy:       policy.Policy{Kind: policy.LRU, Capacity: 10_000},
			Inbox:        inbox.Bounded(1024),
			TickInterval: cfg.TickInterval,
			Name:         shardName("map", id),
			Logger:       log,
		}
	})
	defer mapCluster.Close()

	setCluster := hashset.NewCluster[string](cfg.Shards, func(id int) hashset.Config {
		return hashset.Config{
			Policy:       policy.Policy{Kind: policy.LFU, Capacity: 10_000},
			Inbox:        inbox.Bounded(1024),
			TickInterval: cfg.TickInterval,
			Name:         shardName("set", id),
			Logger:       log,
		}
	})
	defer setCluster.Close()

	seqCluster := sequence.NewCluster[string](cfg.Shards, func(id int) sequence.Config {
		return sequence.Config{
			Inbox:        inbox.Bounded(1024),
			TickInterval: cfg.TickInterval,
			Name:         shardName("sequence", id),
			Logger:       log,
		}
	})
	defer seqCluster.Close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}

	go func() {
		log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics endpoint listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	generator := newSeedGenerator(cfg, log, mapCluster, setCluster, seqCluster)
	go generator.run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Info().Msg("shutting down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during metrics server shutdown")
	}
}

func shardName(shape string, id int) string {
	return shape + "-" + strconv.Itoa(id)
}
