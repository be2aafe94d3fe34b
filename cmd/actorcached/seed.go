package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/adred-codev/actorcache/hashmap"
	"github.com/adred-codev/actorcache/hashset"
	"github.com/adred-codev/actorcache/sequence"
)

// seedGenerator drives a steady stream of writes across all three demo
// clusters, throttled by a token bucket so a local run never saturates an
// owner's inbox by accident.
type seedGenerator struct {
	limiter *rate.Limiter
	log     zerolog.Logger

	mapCluster *hashmap.Cluster[string, int]
	setCluster *hashset.Cluster[string]
	seqCluster *sequence.Cluster[string]
}

func newSeedGenerator(cfg *Config, log zerolog.Logger, mc *hashmap.Cluster[string, int], sc *hashset.Cluster[string], qc *sequence.Cluster[string]) *seedGenerator {
	return &seedGenerator{
		limiter:    rate.NewLimiter(rate.Limit(cfg.SeedRate), cfg.SeedBurst),
		log:        log.With().Str("component", "seed").Logger(),
		mapCluster: mc,
		setCluster: sc,
		seqCluster: qc,
	}
}

// run issues seed operations until ctx is cancelled, waiting on the limiter
// before each one.
func (g *seedGenerator) run(ctx context.Context) {
	var n int
	for {
		if err := g.limiter.Wait(ctx); err != nil {
			g.log.Info().Msg("seed generator stopping")
			return
		}

		key := fmt.Sprintf("key-%d", n%1000)
		n++

		switch n % 3 {
		case 0:
			if err := g.mapCluster.Insert(ctx, key, n, nil, false); err != nil {
				g.log.Warn().Err(err).Str("key", key).Msg("seed: map insert failed")
			}
		case 1:
			if err := g.setCluster.Insert(ctx, key, nil, false); err != nil {
				g.log.Warn().Err(err).Str("key", key).Msg("seed: set insert failed")
			}
		case 2:
			ttl := 30 * time.Second
			if err := g.seqCluster.Push(ctx, key, &ttl, false); err != nil {
				g.log.Warn().Err(err).Str("key", key).Msg("seed: sequence push failed")
			}
		}
	}
}
