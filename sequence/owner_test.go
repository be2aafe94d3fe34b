package sequence

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

func newTestSeq(t *testing.T, cfg Config) *Handle[string] {
	t.Helper()
	h := New[string](cfg)
	t.Cleanup(h.Close)
	return h
}

func TestPushGetAllRemove(t *testing.T) {
	ctx := context.Background()
	h := newTestSeq(t, Config{Inbox: inbox.Bounded(32)})

	require.NoError(t, h.Push(ctx, "a", nil, false))
	require.NoError(t, h.Push(ctx, "b", nil, false))
	require.NoError(t, h.Push(ctx, "a", nil, false))

	all, err := h.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a"}, all)

	removed, err := h.Remove(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, removed)

	all, err = h.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, all)
}

// Remove must report false for a value that was never present, not just
// true for every input regardless of whether it matched anything.
func TestRemoveReportsExistenceNotJustInput(t *testing.T) {
	ctx := context.Background()
	h := newTestSeq(t, Config{Inbox: inbox.Bounded(32)})

	require.NoError(t, h.Push(ctx, "a", nil, false))

	removed, err := h.Remove(ctx, []string{"a", "never-inserted"})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, removed)
}

// Push with nx=true is a no-op when a live entry with equal value exists.
func TestPushNXNoOpOnLiveMatch(t *testing.T) {
	ctx := context.Background()
	h := newTestSeq(t, Config{Inbox: inbox.Bounded(32)})

	require.NoError(t, h.Push(ctx, "a", nil, false))
	require.NoError(t, h.Push(ctx, "a", nil, true))

	all, err := h.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, all)
}

func TestContains(t *testing.T) {
	ctx := context.Background()
	h := newTestSeq(t, Config{Inbox: inbox.Bounded(32)})

	require.NoError(t, h.Push(ctx, "a", nil, false))

	found, err := h.Contains(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, found)
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	h := newTestSeq(t, Config{TickInterval: 20 * time.Millisecond})

	require.NoError(t, h.Push(ctx, "a", nil, false))
	ttl := 50 * time.Millisecond
	require.NoError(t, h.Push(ctx, "b", &ttl, false))

	time.Sleep(150 * time.Millisecond)

	all, err := h.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, all)
}

func TestLRUEviction(t *testing.T) {
	ctx := context.Background()
	h := newTestSeq(t, Config{
		Policy:       policy.Policy{Kind: policy.LRU, Capacity: 1},
		TickInterval: 20 * time.Millisecond,
	})

	require.NoError(t, h.Push(ctx, "a", nil, false))
	require.NoError(t, h.Push(ctx, "b", nil, false))

	time.Sleep(150 * time.Millisecond)

	all, err := h.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, all)
}

func TestLFUEviction(t *testing.T) {
	ctx := context.Background()
	h := newTestSeq(t, Config{
		Policy:       policy.Policy{Kind: policy.LFU, Capacity: 1},
		TickInterval: 20 * time.Millisecond,
	})

	require.NoError(t, h.Push(ctx, "a", nil, false))
	require.NoError(t, h.Push(ctx, "b", nil, false))

	found, err := h.Contains(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, found)

	time.Sleep(150 * time.Millisecond)

	all, err := h.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, all)
}

func TestReplicationConvergence(t *testing.T) {
	ctx := context.Background()
	tick := 20 * time.Millisecond
	primary := newTestSeq(t, Config{Name: "primary", TickInterval: tick})
	follower := newTestSeq(t, Config{Name: "follower", TickInterval: tick})

	require.NoError(t, follower.Replicate(ctx, primary))
	require.NoError(t, primary.Push(ctx, "a", nil, false))
	time.Sleep(100 * time.Millisecond)

	all, err := follower.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, all)

	require.NoError(t, follower.StopReplicating(ctx))
	require.NoError(t, primary.Push(ctx, "b", nil, false))
	time.Sleep(100 * time.Millisecond)

	all, err = follower.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, all)
}

func TestMPushInconsistentLen(t *testing.T) {
	ctx := context.Background()
	h := newTestSeq(t, Config{})

	err := h.MPush(ctx, []string{"a", "b"}, []*time.Duration{nil}, []bool{false, false})
	require.Error(t, err)
	assert.True(t, cacheerr.Is(err, cacheerr.InconsistentLen))
}

func TestTrySendFailsWhenBoundedInboxFull(t *testing.T) {
	h := &Handle[string]{
		inbox:   inbox.New[cmd[string]](inbox.Bounded(0)),
		done:    make(chan struct{}),
		bounded: true,
	}

	err := h.TryPush("a", nil, false)
	require.Error(t, err)
	assert.True(t, cacheerr.Is(err, cacheerr.Send))
}

func TestIsReplica(t *testing.T) {
	ctx := context.Background()
	primary := newTestSeq(t, Config{})
	follower := newTestSeq(t, Config{})

	is, err := follower.IsReplica(ctx)
	require.NoError(t, err)
	assert.False(t, is)

	require.NoError(t, follower.Replicate(ctx, primary))
	is, err = follower.IsReplica(ctx)
	require.NoError(t, err)
	assert.True(t, is)
}
