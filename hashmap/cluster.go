package hashmap

import (
	"context"
	"time"

	"github.com/adred-codev/actorcache/cacheerr"
	"github.com/adred-codev/actorcache/internal/clusterutil"
	"github.com/adred-codev/actorcache/internal/shardhash"
	"github.com/adred-codev/actorcache/option"
)

// Cluster fans a keyed map out over N identical shard owners. Shard
// assignment is hash_id(stringify(key), N); construction is immutable
// thereafter. Replication is a per-shard concern and is not exposed here.
type Cluster[K comparable, V any] struct {
	shards []*Handle[K, V]
}

// NewCluster creates n shard owners, each built from cfgFor(shardID).
func NewCluster[K comparable, V any](n int, cfgFor func(shardID int) Config) *Cluster[K, V] {
	shards := make([]*Handle[K, V], n)
	for i := 0; i < n; i++ {
		shards[i] = New[K, V](cfgFor(i))
	}
	return &Cluster[K, V]{shards: shards}
}

// Close shuts down every shard.
func (c *Cluster[K, V]) Close() {
	for _, h := range c.shards {
		h.Close()
	}
}

func (c *Cluster[K, V]) shardFor(key K) (*Handle[K, V], error) {
	n := len(c.shards)
	if n == 0 {
		return nil, cacheerr.New(cacheerr.NodeNotExists)
	}
	id := shardhash.HashID(clusterutil.Stringify(key), uint16(n))
	return c.shards[id], nil
}

// Insert routes to the shard owning key.
func (c *Cluster[K, V]) Insert(ctx context.Context, key K, val V, ex *time.Duration, nx bool) error {
	shard, err := c.shardFor(key)
	if err != nil {
		return err
	}
	return shard.Insert(ctx, key, val, ex, nx)
}

// MInsert dispatches one insert per key to its owning shard, in index
// order. Input slices must share one length.
func (c *Cluster[K, V]) MInsert(ctx context.Context, keys []K, vals []V, ex []*time.Duration, nx []bool) error {
	if err := checkLens(len(keys), len(vals), len(ex), len(nx)); err != nil {
		return err
	}
	for i, k := range keys {
		if err := c.Insert(ctx, k, vals[i], ex[i], nx[i]); err != nil {
			return err
		}
	}
	return nil
}

// Get routes to the shard owning key.
func (c *Cluster[K, V]) Get(ctx context.Context, key K) (option.Option[V], error) {
	shard, err := c.shardFor(key)
	if err != nil {
		return option.None[V](), err
	}
	return shard.Get(ctx, key)
}

// MGet dispatches one get per key to its owning shard, collecting replies
// aligned to the input order.
func (c *Cluster[K, V]) MGet(ctx context.Context, keys []K) ([]option.Option[V], error) {
	out := make([]option.Option[V], len(keys))
	for i, k := range keys {
		v, err := c.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ContainsKey dispatches per key to its owning shard.
func (c *Cluster[K, V]) ContainsKey(ctx context.Context, keys []K) ([]bool, error) {
	out := make([]bool, len(keys))
	for i, k := range keys {
		shard, err := c.shardFor(k)
		if err != nil {
			return nil, err
		}
		found, err := shard.ContainsKey(ctx, []K{k})
		if err != nil {
			return nil, err
		}
		out[i] = found[0]
	}
	return out, nil
}

// Remove dispatches per key to its owning shard.
func (c *Cluster[K, V]) Remove(ctx context.Context, keys []K) ([]option.Option[V], error) {
	out := make([]option.Option[V], len(keys))
	for i, k := range keys {
		shard, err := c.shardFor(k)
		if err != nil {
			return nil, err
		}
		vals, err := shard.Remove(ctx, []K{k})
		if err != nil {
			return nil, err
		}
		out[i] = vals[0]
	}
	return out, nil
}

// TTL dispatches per key to its owning shard.
func (c *Cluster[K, V]) TTL(ctx context.Context, keys []K) ([]option.Option[time.Duration], error) {
	out := make([]option.Option[time.Duration], len(keys))
	for i, k := range keys {
		shard, err := c.shardFor(k)
		if err != nil {
			return nil, err
		}
		ttls, err := shard.TTL(ctx, []K{k})
		if err != nil {
			return nil, err
		}
		out[i] = ttls[0]
	}
	return out, nil
}

// Clear broadcasts to every shard.
func (c *Cluster[K, V]) Clear(ctx context.Context) error {
	for _, shard := range c.shards {
		if err := shard.Clear(ctx); err != nil {
			return err
		}
	}
	return nil
}

// GetAll broadcasts to every shard and unions the results. Key uniqueness
// across shards is guaranteed by shard routing being a function of the
// key, so no collisions are possible.
func (c *Cluster[K, V]) GetAll(ctx context.Context) (map[K]V, error) {
	out := make(map[K]V)
	for _, shard := range c.shards {
		m, err := shard.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		for k, v := range m {
			out[k] = v
		}
	}
	return out, nil
}

// ShardCount reports N.
func (c *Cluster[K, V]) ShardCount() int {
	return len(c.shards)
}

// Shard returns the handle for one shard directly, e.g. to wire per-shard
// replication between two clusters of equal size.
func (c *Cluster[K, V]) Shard(id int) *Handle[K, V] {
	return c.shards[id]
}
