package hashmap

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

const shape = "map"

// owner is the long-running task that exclusively holds one map's storage.
// It races a periodic tick against inbox arrivals; exactly one of the two
// is handled per loop iteration, which is the serialization property every
// other guarantee in this package rests on.
type owner[K comparable, V any] struct {
	cfg   Config
	inbox *inbox.Inbox[cmd[K, V]]
	done  chan struct{}
	log   zerolog.Logger

	storage    map[K]entry.Entry[V]
	followerOf *Handle[K, V]
}

// New starts a map owner and returns a handle to it. The owner goroutine
// runs until the handle's Close is called and its inbox drains.
func New[K comparable, V any](cfg Config) *Handle[K, V] {
	cfg = cfg.withDefaults()
	ib := inbox.New[cmd[K, V]](cfg.Inbox)
	o := &owner[K, V]{
		cfg:     cfg,
		inbox:   ib,
		done:    make(chan struct{}),
		log:     logging.WithContainer(cfg.Logger, shape, cfg.Name),
		storage: make(map[K]entry.Entry[V]),
	}
	go o.run()
	return &Handle[K, V]{
		inbox:   ib,
		done:    o.done,
		bounded: cfg.Inbox.Bounded(),
	}
}

func (o *owner[K, V]) run() {
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

// tick runs the maintenance phase: replication pull, then TTL sweep, then
// capacity eviction, in that order, so a follower evicts against freshly
// replicated state.
func (o *owner[K, V]) tick() {
	start := time.Now()
	defer func() {
		metrics.TickDuration.WithLabelValues(shape).Observe(time.Since(start).Seconds())
	}()

	o.pullFromPrimary()
	o.sweepExpired()
	o.evictExcess()
}

func (o *owner[K, V]) pullFromPrimary() {
	if o.followerOf == nil {
		return
	}
	reply := make(chan map[K]entry.Entry[V], 1)
	err := o.followerOf.sendRaw(context.Background(), getAllRawCmd[K, V]{reply: reply})
	if err != nil {
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

func (o *owner[K, V]) sweepExpired() {
	now := time.Now()
	for k, e := range o.storage {
		if e.Expired(now) {
			delete(o.storage, k)
			metrics.Expirations.WithLabelValues(shape).Inc()
		}
	}
}

func (o *owner[K, V]) evictExcess() {
	if !o.cfg.Policy.Enabled() {
		return
	}
	for len(o.storage) > o.cfg.Policy.Capacity {
		cands := make([]policy.Candidate[K], 0, len(o.storage))
		for k, e := range o.storage {
			cands = append(cands, policy.Candidate[K]{
				Key:            k,
				AccessCount:    e.AccessCount,
				LastAccessedAt: e.LastAccessedAt,
			})
		}
		victim, ok := policy.Victim(cands, o.cfg.Policy.Kind)
		if !ok {
			return
		}
		delete(o.storage, victim)
		metrics.Evictions.WithLabelValues(shape, o.cfg.Policy.Kind.String()).Inc()
	}
}

// service dispatches one command. Every reply-carrying variant attempts to
// send its result even when something went wrong internally; a failed
// reply send is logged and never propagated, since the caller has already
// disconnected.
func (o *owner[K, V]) service(c cmd[K, V]) {
	now := time.Now()
	switch c := c.(type) {
	case insertCmd[K, V]:
		metrics.Commands.WithLabelValues(shape, "insert").Inc()
		o.doInsert(c.key, c.val, c.ex, c.nx, now)

	case minsertCmd[K, V]:
		metrics.Commands.WithLabelValues(shape, "minsert").Inc()
		for i := range c.keys {
			o.doInsert(c.keys[i], c.vals[i], c.ex[i], c.nx[i], now)
		}

	case getCmd[K, V]:
		metrics.Commands.WithLabelValues(shape, "get").Inc()
		reply(o.log, c.reply, o.doGet(c.key, now))

	case mgetCmd[K, V]:
		metrics.Commands.WithLabelValues(shape, "mget").Inc()
		vals := make([]option.Option[V], len(c.keys))
		for i, k := range c.keys {
			vals[i] = o.doGet(k, now)
		}
		reply(o.log, c.reply, vals)

	case containsKeyCmd[K, V]:
		metrics.Commands.WithLabelValues(shape, "contains_key").Inc()
		found := make([]bool, len(c.keys))
		for i, k := range c.keys {
			_, ok := o.doGet(k, now).Get()
			found[i] = ok
		}
		reply(o.log, c.reply, found)

	case removeCmd[K, V]:
		metrics.Commands.WithLabelValues(shape, "remove").Inc()
		out := make([]option.Option[V], len(c.keys))
		for i, k := range c.keys {
			e, ok := o.storage[k]
			delete(o.storage, k)
			if ok && !e.Expired(now) {
				out[i] = option.Some(e.Value)
			} else {
				out[i] = option.None[V]()
			}
		}
		reply(o.log, c.reply, out)

	case clearCmd[K, V]:
		metrics.Commands.WithLabelValues(shape, "clear").Inc()
		o.storage = make(map[K]entry.Entry[V])

	case ttlCmd[K, V]:
		metrics.Commands.WithLabelValues(shape, "ttl").Inc()
		out := make([]option.Option[time.Duration], len(c.keys))
		for i, k := range c.keys {
			e, ok := o.storage[k]
			if !ok {
				out[i] = option.None[time.Duration]()
				continue
			}
			e.Touch(now)
			o.storage[k] = e
			if d, live := e.TTL(now); live {
				out[i] = option.Some(d)
			} else {
				out[i] = option.None[time.Duration]()
			}
		}
		reply(o.log, c.reply, out)

	case getAllCmd[K, V]:
		metrics.Commands.WithLabelValues(shape, "get_all").Inc()
		out := make(map[K]V, len(o.storage))
		for k, e := range o.storage {
			if e.Expired(now) {
				continue
			}
			e.Touch(now)
			o.storage[k] = e
			out[k] = e.Value
		}
		reply(o.log, c.reply, out)

	case getAllRawCmd[K, V]:
		metrics.Commands.WithLabelValues(shape, "get_all_raw").Inc()
		snapshot := make(map[K]entry.Entry[V], len(o.storage))
		for k, e := range o.storage {
			snapshot[k] = e
		}
		reply(o.log, c.reply, snapshot)

	case replicateCmd[K, V]:
		metrics.Commands.WithLabelValues(shape, "replicate").Inc()
		o.followerOf = c.primary

	case stopReplicatingCmd[K, V]:
		metrics.Commands.WithLabelValues(shape, "stop_replicating").Inc()
		o.followerOf = nil

	case isReplicaCmd[K, V]:
		metrics.Commands.WithLabelValues(shape, "is_replica").Inc()
		reply(o.log, c.reply, o.followerOf != nil)
	}

	metrics.InboxDepth.WithLabelValues(shape, o.cfg.Name).Set(float64(o.inbox.Len()))
}

func (o *owner[K, V]) doInsert(key K, val V, ex *time.Duration, nx bool, now time.Time) {
	prior, exists := o.storage[key]
	if nx && exists {
		return
	}
	var accessCount uint64
	if exists {
		accessCount = prior.AccessCount + 1
	}
	o.storage[key] = entry.NewEntry(now, val, ex, accessCount)
}

func (o *owner[K, V]) doGet(key K, now time.Time) option.Option[V] {
	e, ok := o.storage[key]
	if !ok || e.Expired(now) {
		return option.None[V]()
	}
	e.Touch(now)
	o.storage[key] = e
	return option.Some(e.Value)
}

// reply attempts a non-blocking send on a single-use reply channel. Every
// reply channel is created with a one-slot buffer, so the send completes
// even when the caller already stopped listening; the default branch only
// fires if that slot is already taken, and then the reply is counted and
// logged as dropped instead of blocking the owner.
func reply[T any](log zerolog.Logger, ch chan T, v T) {
	select {
	case ch <- v:
	default:
		metrics.ReplyDropped.WithLabelValues(shape).Inc()
		log.Warn().Msg("reply channel dropped by caller")
	}
}
