package hashmap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adred-codev/actorcache/cacheerr"
)

// S7 — cluster routing stability.
func TestClusterRoutingStability(t *testing.T) {
	ctx := context.Background()
	cluster := NewCluster[string, int](3, func(id int) Config {
		return Config{Name: "shard"}
	})
	t.Cleanup(cluster.Close)

	keys := []string{"a", "b", "c", "d", "e", "f", "g"}
	for i, k := range keys {
		require.NoError(t, cluster.Insert(ctx, k, i, nil, false))
	}

	for i, k := range keys {
		v, err := cluster.Get(ctx, k)
		require.NoError(t, err)
		got, ok := v.Get()
		require.True(t, ok)
		assert.Equal(t, i, got)
	}

	total := 0
	for s := 0; s < cluster.ShardCount(); s++ {
		all, err := cluster.Shard(s).GetAll(ctx)
		require.NoError(t, err)
		total += len(all)
	}
	assert.Equal(t, len(keys), total)
}

func TestClusterEmptyRaisesNodeNotExists(t *testing.T) {
	ctx := context.Background()
	cluster := NewCluster[string, int](0, func(id int) Config { return Config{} })
	t.Cleanup(cluster.Close)

	_, err := cluster.Get(ctx, "a")
	require.Error(t, err)
	assert.True(t, cacheerr.Is(err, cacheerr.NodeNotExists))
}

func TestClusterGetAllUnionsShards(t *testing.T) {
	ctx := context.Background()
	cluster := NewCluster[string, int](4, func(id int) Config { return Config{} })
	t.Cleanup(cluster.Close)

	require.NoError(t, cluster.MInsert(ctx,
		[]string{"a", "b", "c"},
		[]int{1, 2, 3},
		[]*time.Duration{nil, nil, nil},
		[]bool{false, false, false},
	))

	all, err := cluster.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 3}, all)
}
