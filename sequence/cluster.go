package sequence

import (
	"context"
	"time"

	"github.com/adred-codev/actorcache/cacheerr"
	"github.com/adred-codev/actorcache/internal/clusterutil"
	"github.com/adred-codev/actorcache/internal/shardhash"
	"github.com/adred-codev/actorcache/option"
)

// Cluster fans a sequence out over N identical shard owners. Shard
// assignment is hash_id(stringify(val), N); construction is immutable
// thereafter. Replication is a per-shard concern and is not exposed here.
type Cluster[V comparable] struct {
	shards []*Handle[V]
}

// NewCluster creates n shard owners, each built from cfgFor(shardID).
func NewCluster[V comparable](n int, cfgFor func(shardID int) Config) *Cluster[V] {
	shards := make([]*Handle[V], n)
	for i := 0; i < n; i++ {
		shards[i] = New[V](cfgFor(i))
	}
	return &Cluster[V]{shards: shards}
}

// Close shuts down every shard.
func (c *Cluster[V]) Close() {
	for _, h := range c.shards {
		h.Close()
	}
}

func (c *Cluster[V]) shardFor(val V) (*Handle[V], error) {
	n := len(c.shards)
	if n == 0 {
		return nil, cacheerr.New(cacheerr.NodeNotExists)
	}
	id := shardhash.HashID(clusterutil.Stringify(val), uint16(n))
	return c.shards[id], nil
}

// Push routes to the shard owning val.
func (c *Cluster[V]) Push(ctx context.Context, val V, ex *time.Duration, nx bool) error {
	shard, err := c.shardFor(val)
	if err != nil {
		return err
	}
	return shard.Push(ctx, val, ex, nx)
}

// MPush dispatches one push per value to its owning shard, in index order.
// Input slices must share one length.
func (c *Cluster[V]) MPush(ctx context.Context, vals []V, ex []*time.Duration, nx []bool) error {
	if err := checkLens(len(vals), len(ex), len(nx)); err != nil {
		return err
	}
	for i, v := range vals {
		if err := c.Push(ctx, v, ex[i], nx[i]); err != nil {
			return err
		}
	}
	return nil
}

// Contains dispatches per value to its owning shard.
func (c *Cluster[V]) Contains(ctx context.Context, vals []V) ([]bool, error) {
	out := make([]bool, len(vals))
	for i, v := range vals {
		shard, err := c.shardFor(v)
		if err != nil {
			return nil, err
		}
		found, err := shard.Contains(ctx, []V{v})
		if err != nil {
			return nil, err
		}
		out[i] = found[0]
	}
	return out, nil
}

// Remove dispatches per value to its owning shard.
func (c *Cluster[V]) Remove(ctx context.Context, vals []V) ([]bool, error) {
	out := make([]bool, len(vals))
	for i, v := range vals {
		shard, err := c.shardFor(v)
		if err != nil {
			return nil, err
		}
		removed, err := shard.Remove(ctx, []V{v})
		if err != nil {
			return nil, err
		}
		out[i] = removed[0]
	}
	return out, nil
}

// TTL dispatches per value to its owning shard.
func (c *Cluster[V]) TTL(ctx context.Context, vals []V) ([]option.Option[time.Duration], error) {
	out := make([]option.Option[time.Duration], len(vals))
	for i, v := range vals {
		shard, err := c.shardFor(v)
		if err != nil {
			return nil, err
		}
		ttls, err := shard.TTL(ctx, []V{v})
		if err != nil {
			return nil, err
		}
		out[i] = ttls[0]
	}
	return out, nil
}

// Clear broadcasts to every shard.
func (c *Cluster[V]) Clear(ctx context.Context) error {
	for _, shard := range c.shards {
		if err := shard.Clear(ctx); err != nil {
			return err
		}
	}
	return nil
}

// GetAll broadcasts to every shard and concatenates the results in shard
// order. Unlike the map and set shapes, this is NOT a union: a sequence has
// no cross-shard ordering guarantee, so a caller needing one must sort by
// its own key before comparing.
func (c *Cluster[V]) GetAll(ctx context.Context) ([]V, error) {
	var out []V
	for _, shard := range c.shards {
		vals, err := shard.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, vals...)
	}
	return out, nil
}

// ShardCount reports N.
func (c *Cluster[V]) ShardCount() int {
	return len(c.shards)
}

// Shard returns the handle for one shard directly, e.g. to wire per-shard
// replication between two clusters of equal size.
func (c *Cluster[V]) Shard(id int) *Handle[V] {
	return c.shards[id]
}
