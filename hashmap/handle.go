package hashmap

import (
	"context"
	"time"

	"github.com/adred-codev/actorcache/cacheerr"
	"github.com/adred-codev/actorcache/internal/inbox"
	"github.com/adred-codev/actorcache/option"
)

// Handle is a cheaply-cloneable reference to a running map owner. A zero
// Handle is not usable; construct one with New.
type Handle[K comparable, V any] struct {
	inbox   *inbox.Inbox[cmd[K, V]]
	done    <-chan struct{}
	bounded bool
}

// Close shuts the owner down once its inbox drains. Safe to call from any
// goroutine holding a clone of this handle; clones share the same owner.
func (h *Handle[K, V]) Close() {
	h.inbox.Close()
}

func (h *Handle[K, V]) send(ctx context.Context, c cmd[K, V]) error {
	var ok bool
	if h.bounded {
		ok = h.inbox.Send(ctx, c)
	} else {
		ok = h.inbox.TrySend(c)
	}
	if !ok {
		return cacheerr.New(cacheerr.Send)
	}
	return nil
}

// sendRaw lets an owner push a command straight into another handle's
// inbox, used only for the replication pull.
func (h *Handle[K, V]) sendRaw(ctx context.Context, c cmd[K, V]) error {
	return h.send(ctx, c)
}

func (h *Handle[K, V]) trySend(c cmd[K, V]) error {
	if !h.inbox.TrySend(c) {
		return cacheerr.New(cacheerr.Send)
	}
	return nil
}

func await1[T any](ctx context.Context, done <-chan struct{}, ch chan T) (T, error) {
	var zero T
	select {
	case v, ok := <-ch:
		if !ok {
			return zero, cacheerr.New(cacheerr.Receive)
		}
		return v, nil
	case <-done:
		return zero, cacheerr.New(cacheerr.Receive)
	case <-ctx.Done():
		return zero, cacheerr.New(cacheerr.Receive)
	}
}

// Insert writes key/val, blocking for queue space on a bounded inbox under
// backpressure. ex, when non-nil, sets a relative expiration; nx, when
// true, makes the write a no-op if key is already present.
func (h *Handle[K, V]) Insert(ctx context.Context, key K, val V, ex *time.Duration, nx bool) error {
	return h.send(ctx, insertCmd[K, V]{key: key, val: val, ex: ex, nx: nx})
}

// TryInsert is the non-blocking form of Insert: it fails fast with Send
// rather than waiting for inbox space.
func (h *Handle[K, V]) TryInsert(key K, val V, ex *time.Duration, nx bool) error {
	return h.trySend(insertCmd[K, V]{key: key, val: val, ex: ex, nx: nx})
}

// MInsert applies insert semantics per key in index order. All input
// slices must share one length or InconsistentLen is raised before any
// command is dispatched.
func (h *Handle[K, V]) MInsert(ctx context.Context, keys []K, vals []V, ex []*time.Duration, nx []bool) error {
	if err := checkLens(len(keys), len(vals), len(ex), len(nx)); err != nil {
		return err
	}
	return h.send(ctx, minsertCmd[K, V]{keys: keys, vals: vals, ex: ex, nx: nx})
}

// TryMInsert is the non-blocking form of MInsert.
func (h *Handle[K, V]) TryMInsert(keys []K, vals []V, ex []*time.Duration, nx []bool) error {
	if err := checkLens(len(keys), len(vals), len(ex), len(nx)); err != nil {
		return err
	}
	return h.trySend(minsertCmd[K, V]{keys: keys, vals: vals, ex: ex, nx: nx})
}

// Get returns the value for key, or option.None if absent or expired.
func (h *Handle[K, V]) Get(ctx context.Context, key K) (option.Option[V], error) {
	reply := make(chan option.Option[V], 1)
	if err := h.send(ctx, getCmd[K, V]{key: key, reply: reply}); err != nil {
		return option.None[V](), err
	}
	return await1(ctx, h.done, reply)
}

// MGet returns one value per input key, aligned to the input order.
func (h *Handle[K, V]) MGet(ctx context.Context, keys []K) ([]option.Option[V], error) {
	reply := make(chan []option.Option[V], 1)
	if err := h.send(ctx, mgetCmd[K, V]{keys: keys, reply: reply}); err != nil {
		return nil, err
	}
	return await1(ctx, h.done, reply)
}

// ContainsKey reports membership per input key.
func (h *Handle[K, V]) ContainsKey(ctx context.Context, keys []K) ([]bool, error) {
	reply := make(chan []bool, 1)
	if err := h.send(ctx, containsKeyCmd[K, V]{keys: keys, reply: reply}); err != nil {
		return nil, err
	}
	return await1(ctx, h.done, reply)
}

// Remove deletes each input key, returning the prior value or None.
func (h *Handle[K, V]) Remove(ctx context.Context, keys []K) ([]option.Option[V], error) {
	reply := make(chan []option.Option[V], 1)
	if err := h.send(ctx, removeCmd[K, V]{keys: keys, reply: reply}); err != nil {
		return nil, err
	}
	return await1(ctx, h.done, reply)
}

// Clear empties storage.
func (h *Handle[K, V]) Clear(ctx context.Context) error {
	return h.send(ctx, clearCmd[K, V]{})
}

// TryClear is the non-blocking form of Clear.
func (h *Handle[K, V]) TryClear() error {
	return h.trySend(clearCmd[K, V]{})
}

// TTL returns the remaining time-to-live per input key: None if the key is
// absent, never expires, or has just expired.
func (h *Handle[K, V]) TTL(ctx context.Context, keys []K) ([]option.Option[time.Duration], error) {
	reply := make(chan []option.Option[time.Duration], 1)
	if err := h.send(ctx, ttlCmd[K, V]{keys: keys, reply: reply}); err != nil {
		return nil, err
	}
	return await1(ctx, h.done, reply)
}

// GetAll returns a snapshot of all current key/value pairs.
func (h *Handle[K, V]) GetAll(ctx context.Context) (map[K]V, error) {
	reply := make(chan map[K]V, 1)
	if err := h.send(ctx, getAllCmd[K, V]{reply: reply}); err != nil {
		return nil, err
	}
	return await1(ctx, h.done, reply)
}

// Replicate marks this owner a follower of primary, taking effect at the
// next tick.
func (h *Handle[K, V]) Replicate(ctx context.Context, primary *Handle[K, V]) error {
	return h.send(ctx, replicateCmd[K, V]{primary: primary})
}

// StopReplicating clears the follower link; storage retains whatever was
// last replicated in.
func (h *Handle[K, V]) StopReplicating(ctx context.Context) error {
	return h.send(ctx, stopReplicatingCmd[K, V]{})
}

// IsReplica reports whether this owner currently follows a primary.
func (h *Handle[K, V]) IsReplica(ctx context.Context) (bool, error) {
	reply := make(chan bool, 1)
	if err := h.send(ctx, isReplicaCmd[K, V]{reply: reply}); err != nil {
		return false, err
	}
	return await1(ctx, h.done, reply)
}

func checkLens(lens ...int) error {
	for i := 1; i < len(lens); i++ {
		if lens[i] != lens[0] {
			return cacheerr.New(cacheerr.InconsistentLen)
		}
	}
	return nil
}
