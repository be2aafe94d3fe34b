package hashset

import (
	"context"
	"time"

	"github.com/adred-codev/actorcache/cacheerr"
	"github.com/adred-codev/actorcache/internal/inbox"
	"github.com/adred-codev/actorcache/option"
)

// Handle is a cheaply-cloneable reference to a running set owner.
type Handle[V comparable] struct {
	inbox   *inbox.Inbox[cmd[V]]
	done    <-chan struct{}
	bounded bool
}

// Close shuts the owner down once its inbox drains.
func (h *Handle[V]) Close() {
	h.inbox.Close()
}

func (h *Handle[V]) send(ctx context.Context, c cmd[V]) error {
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

func (h *Handle[V]) sendRaw(ctx context.Context, c cmd[V]) error {
	return h.send(ctx, c)
}

func (h *Handle[V]) trySend(c cmd[V]) error {
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

// Insert adds val to the set, blocking for queue space on a bounded inbox
// under backpressure.
func (h *Handle[V]) Insert(ctx context.Context, val V, ex *time.Duration, nx bool) error {
	return h.send(ctx, insertCmd[V]{val: val, ex: ex, nx: nx})
}

// TryInsert is the non-blocking form of Insert.
func (h *Handle[V]) TryInsert(val V, ex *time.Duration, nx bool) error {
	return h.trySend(insertCmd[V]{val: val, ex: ex, nx: nx})
}

// MInsert applies insert semantics per value in index order. Input slices
// must share one length.
func (h *Handle[V]) MInsert(ctx context.Context, vals []V, ex []*time.Duration, nx []bool) error {
	if err := checkLens(len(vals), len(ex), len(nx)); err != nil {
		return err
	}
	return h.send(ctx, minsertCmd[V]{vals: vals, ex: ex, nx: nx})
}

// TryMInsert is the non-blocking form of MInsert.
func (h *Handle[V]) TryMInsert(vals []V, ex []*time.Duration, nx []bool) error {
	if err := checkLens(len(vals), len(ex), len(nx)); err != nil {
		return err
	}
	return h.trySend(minsertCmd[V]{vals: vals, ex: ex, nx: nx})
}

// Contains reports membership per input value.
func (h *Handle[V]) Contains(ctx context.Context, vals []V) ([]bool, error) {
	reply := make(chan []bool, 1)
	if err := h.send(ctx, containsCmd[V]{vals: vals, reply: reply}); err != nil {
		return nil, err
	}
	return await1(ctx, h.done, reply)
}

// Remove deletes each input value, reporting whether it had been present.
func (h *Handle[V]) Remove(ctx context.Context, vals []V) ([]bool, error) {
	reply := make(chan []bool, 1)
	if err := h.send(ctx, removeCmd[V]{vals: vals, reply: reply}); err != nil {
		return nil, err
	}
	return await1(ctx, h.done, reply)
}

// Clear empties storage.
func (h *Handle[V]) Clear(ctx context.Context) error {
	return h.send(ctx, clearCmd[V]{})
}

// TryClear is the non-blocking form of Clear.
func (h *Handle[V]) TryClear() error {
	return h.trySend(clearCmd[V]{})
}

// TTL returns the remaining time-to-live per input value.
func (h *Handle[V]) TTL(ctx context.Context, vals []V) ([]option.Option[time.Duration], error) {
	reply := make(chan []option.Option[time.Duration], 1)
	if err := h.send(ctx, ttlCmd[V]{vals: vals, reply: reply}); err != nil {
		return nil, err
	}
	return await1(ctx, h.done, reply)
}

// GetAll returns a snapshot of all current members.
func (h *Handle[V]) GetAll(ctx context.Context) (map[V]struct{}, error) {
	reply := make(chan map[V]struct{}, 1)
	if err := h.send(ctx, getAllCmd[V]{reply: reply}); err != nil {
		return nil, err
	}
	return await1(ctx, h.done, reply)
}

// Replicate marks this owner a follower of primary, taking effect at the
// next tick.
func (h *Handle[V]) Replicate(ctx context.Context, primary *Handle[V]) error {
	return h.send(ctx, replicateCmd[V]{primary: primary})
}

// StopReplicating clears the follower link.
func (h *Handle[V]) StopReplicating(ctx context.Context) error {
	return h.send(ctx, stopReplicatingCmd[V]{})
}

// IsReplica reports whether this owner currently follows a primary.
func (h *Handle[V]) IsReplica(ctx context.Context) (bool, error) {
	reply := make(chan bool, 1)
	if err := h.send(ctx, isReplicaCmd[V]{reply: reply}); err != nil {
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
