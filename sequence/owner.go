package sequence

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/adred-codev/actorcache/internal/entry"
	"github.com/adred-codev/actorcache/internal/inbox"
	"github.com/adred-codev/actorcache/internal/logging"
	"github.com/adred-codev/actorcache/internal/metrics"
	"github.com/adred-codev/actorcache/internal/policy"
	"github.com/adred-codev/actorcache/option"
)

const shape = "sequence"

// owner exclusively holds one sequence's storage: an insertion-ordered,
// duplicate-permitting list of entries.
type owner[V comparable] struct {
	cfg   Config
	inbox *inbox.Inbox[cmd[V]]
	done  chan struct{}
	log   zerolog.Logger

	storage    []entry.Entry[V]
	followerOf *Handle[V]
}

// New starts a sequence owner and returns a handle to it.
func New[V comparable](cfg Config) *Handle[V] {
	cfg = cfg.withDefaults()
	ib := inbox.New[cmd[V]](cfg.Inbox)
	o := &owner[V]{
		cfg:   cfg,
		inbox: ib,
		done:  make(chan struct{}),
		log:   logging.WithContainer(cfg.Logger, shape, cfg.Name),
	}
	go o.run()
	return &Handle[V]{inbox: ib, done: o.done, bounded: cfg.Inbox.Bounded()}
}

func (o *owner[V]) run() {
	defer close(o.done)

	ticker := time.NewTicker(o.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			o.tick()
		case c, ok := <-o.inbox.C():
			if !ok {
				return
			}
			o.service(c)
		}
	}
}

func (o *owner[V]) tick() {
	start := time.Now()
	defer func() {
		metrics.TickDuration.WithLabelValues(shape).Observe(time.Since(start).Seconds())
	}()

	o.pullFromPrimary()
	o.sweepExpired()
	o.evictExcess()
}

func (o *owner[V]) pullFromPrimary() {
	if o.followerOf == nil {
		return
	}
	reply := make(chan []entry.Entry[V], 1)
	if err := o.followerOf.sendRaw(context.Background(), getAllRawCmd[V]{reply: reply}); err != nil {
		metrics.ReplicationPulls.WithLabelValues(shape, "error").Inc()
		o.log.Error().Err(err).Msg("replication pull: send to primary failed")
		return
	}
	select {
	case snapshot, ok := <-reply:
		if !ok {
			metrics.ReplicationPulls.WithLabelValues(shape, "error").Inc()
			o.log.Error().Msg("replication pull: primary dropped reply channel")
			return
		}
		o.storage = snapshot
		metrics.ReplicationPulls.WithLabelValues(shape, "ok").Inc()
	case <-o.followerOf.done:
		metrics.ReplicationPulls.WithLabelValues(shape, "error").Inc()
		o.log.Error().Msg("replication pull: primary terminated before reply")
	}
}

func (o *owner[V]) sweepExpired() {
	now := time.Now()
	live := o.storage[:0]
	for _, e := range o.storage {
		if e.Expired(now) {
			metrics.Expirations.WithLabelValues(shape).Inc()
			continue
		}
		live = append(live, e)
	}
	o.storage = live
}

// evictExcess removes the LRU/LFU victim one at a time, preserving the
// relative order of survivors; sequences never reorder on eviction.
func (o *owner[V]) evictExcess() {
	if !o.cfg.Policy.Enabled() {
		return
	}
	for len(o.storage) > o.cfg.Policy.Capacity {
		cands := make([]policy.Candidate[int], 0, len(o.storage))
		for i, e := range o.storage {
			cands = append(cands, policy.Candidate[int]{
				Key:            i,
				AccessCount:    e.AccessCount,
				LastAccessedAt: e.LastAccessedAt,
			})
		}
		idx, ok := policy.Victim(cands, o.cfg.Policy.Kind)
		if !ok {
			return
		}
		o.storage = append(o.storage[:idx], o.storage[idx+1:]...)
		metrics.Evictions.WithLabelValues(shape, o.cfg.Policy.Kind.String()).Inc()
	}
}

func (o *owner[V]) service(c cmd[V]) {
	now := time.Now()
	switch c := c.(type) {
	case pushCmd[V]:
		metrics.Commands.WithLabelValues(shape, "push").Inc()
		o.doPush(c.val, c.ex, c.nx, now)

	case mpushCmd[V]:
		metrics.Commands.WithLabelValues(shape, "mpush").Inc()
		for i := range c.vals {
			o.doPush(c.vals[i], c.ex[i], c.nx[i], now)
		}

	case containsCmd[V]:
		metrics.Commands.WithLabelValues(shape, "contains").Inc()
		found := make([]bool, len(c.vals))
		for i, v := range c.vals {
			found[i] = o.touchMatching(v, now)
		}
		reply(o.log, c.reply, found)

	case removeCmd[V]:
		metrics.Commands.WithLabelValues(shape, "remove").Inc()
		removed := make([]bool, len(c.vals))
		wanted := make(map[V]bool, len(c.vals))
		existed := make(map[V]bool, len(c.vals))
		for _, v := range c.vals {
			wanted[v] = true
		}
		kept := o.storage[:0]
		for _, e := range o.storage {
			if wanted[e.Value] {
				existed[e.Value] = true
				continue
			}
			kept = append(kept, e)
		}
		o.storage = kept
		for i, v := range c.vals {
			removed[i] = existed[v]
		}
		reply(o.log, c.reply, removed)

	case clearCmd[V]:
		metrics.Commands.WithLabelValues(shape, "clear").Inc()
		o.storage = nil

	case ttlCmd[V]:
		metrics.Commands.WithLabelValues(shape, "ttl").Inc()
		out := make([]option.Option[time.Duration], len(c.vals))
		for i, v := range c.vals {
			out[i] = option.None[time.Duration]()
			for idx := range o.storage {
				if o.storage[idx].Value != v {
					continue
				}
				o.storage[idx].Touch(now)
				if d, live := o.storage[idx].TTL(now); live {
					out[i] = option.Some(d)
				}
				break
			}
		}
		reply(o.log, c.reply, out)

	case getAllCmd[V]:
		metrics.Commands.WithLabelValues(shape, "get_all").Inc()
		out := make([]V, 0, len(o.storage))
		for idx := range o.storage {
			if o.storage[idx].Expired(now) {
				continue
			}
			o.storage[idx].Touch(now)
			out = append(out, o.storage[idx].Value)
		}
		reply(o.log, c.reply, out)

	case getAllRawCmd[V]:
		metrics.Commands.WithLabelValues(shape, "get_all_raw").Inc()
		snapshot := make([]entry.Entry[V], len(o.storage))
		copy(snapshot, o.storage)
		reply(o.log, c.reply, snapshot)

	case replicateCmd[V]:
		metrics.Commands.WithLabelValues(shape, "replicate").Inc()
		o.followerOf = c.primary

	case stopReplicatingCmd[V]:
		metrics.Commands.WithLabelValues(shape, "stop_replicating").Inc()
		o.followerOf = nil

	case isReplicaCmd[V]:
		metrics.Commands.WithLabelValues(shape, "is_replica").Inc()
		reply(o.log, c.reply, o.followerOf != nil)
	}

	metrics.InboxDepth.WithLabelValues(shape, o.cfg.Name).Set(float64(o.inbox.Len()))
}

// doPush appends a new entry. When nx is true and a live entry with equal
// value already exists, the push is a no-op; otherwise it always appends —
// duplicates accumulate, they are never deduplicated in place.
func (o *owner[V]) doPush(val V, ex *time.Duration, nx bool, now time.Time) {
	var accessCount uint64
	for idx := range o.storage {
		if o.storage[idx].Value != val || o.storage[idx].Expired(now) {
			continue
		}
		if nx {
			return
		}
		accessCount = o.storage[idx].AccessCount + 1
		break
	}
	o.storage = append(o.storage, entry.NewEntry(now, val, ex, accessCount))
}

// touchMatching reports whether any live entry equals val, bumping access
// stats on every matching entry (not just the first).
func (o *owner[V]) touchMatching(val V, now time.Time) bool {
	found := false
	for idx := range o.storage {
		if o.storage[idx].Value != val || o.storage[idx].Expired(now) {
			continue
		}
		o.storage[idx].Touch(now)
		found = true
	}
	return found
}

func reply[T any](log zerolog.Logger, ch chan T, v T) {
	select {
	case ch <- v:
	default:
		metrics.ReplyDropped.WithLabelValues(shape).Inc()
		log.Warn().Msg("reply channel dropped by caller")
	}
}
