package hashset

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adred-codev/actorcache/cacheerr"
	"github.com/adred-codev/actorcache/internal/inbox"
	"github.com/adred-codev/actorcache/internal/policy"
)

func newTestSet(t *testing.T, cfg Config) *Handle[string] {
	t.Helper()
	h := New[string](cfg)
	t.Cleanup(h.Close)
	return h
}

func TestInsertContainsRemove(t *testing.T) {
	ctx := context.Background()
	h := newTestSet(t, Config{Inbox: inbox.Bounded(32)})

	require.NoError(t, h.Insert(ctx, "a", nil, false))

	found, err := h.Contains(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, found)

	removed, err := h.Remove(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, removed)

	found, err = h.Contains(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, found)
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	h := newTestSet(t, Config{TickInterval: 20 * time.Millisecond})

	require.NoError(t, h.Insert(ctx, "a", nil, false))
	ttl := 50 * time.Millisecond
	require.NoError(t, h.Insert(ctx, "b", &ttl, false))

	time.Sleep(150 * time.Millisecond)

	found, err := h.Contains(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, found)
}

func TestLRUEviction(t *testing.T) {
	ctx := context.Background()
	h := newTestSet(t, Config{
		Policy:       policy.Policy{Kind: policy.LRU, Capacity: 1},
		TickInterval: 20 * time.Millisecond,
	})

	require.NoError(t, h.Insert(ctx, "a", nil, false))
	require.NoError(t, h.Insert(ctx, "b", nil, false))

	time.Sleep(150 * time.Millisecond)

	all, err := h.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"b": {}}, all)
}

func TestReplicationConvergence(t *testing.T) {
	ctx := context.Background()
	tick := 20 * time.Millisecond
	primary := newTestSet(t, Config{Name: "primary", TickInterval: tick})
	follower := newTestSet(t, Config{Name: "follower", TickInterval: tick})

	require.NoError(t, follower.Replicate(ctx, primary))
	require.NoError(t, primary.Insert(ctx, "a", nil, false))
	time.Sleep(100 * time.Millisecond)

	found, err := follower.Contains(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, found)

	require.NoError(t, follower.StopReplicating(ctx))
	require.NoError(t, primary.Insert(ctx, "b", nil, false))
	time.Sleep(100 * time.Millisecond)

	found, err = follower.Contains(ctx, []string{"b"})
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, found)
}

func TestMInsertInconsistentLen(t *testing.T) {
	ctx := context.Background()
	h := newTestSet(t, Config{})

	err := h.MInsert(ctx, []string{"a", "b"}, []*time.Duration{nil}, []bool{false, false})
	require.Error(t, err)
	assert.True(t, cacheerr.Is(err, cacheerr.InconsistentLen))
}
