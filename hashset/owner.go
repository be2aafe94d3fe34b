package hashset

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

const shape = "set"

// owner exclusively holds one set's storage: a unique-value mapping from V
// to its access-tracking state.
type owner[V comparable] struct {
	cfg   Config
	inbox *inbox.Inbox[cmd[V]]
	done  chan struct{}
	log   zerolog.Logger

	storage    map[V]entry.State
	followerOf *Handle[V]
}

// New starts a set owner and returns a handle to it.
func New[V comparable](cfg Config) *Handle[V] {
	cfg = cfg.withDefaults()
	ib := inbox.New[cmd[V]](cfg.Inbox)
	o := &owner[V]{
		cfg:     cfg,
		inbox:   ib,
		done:    make(chan struct{}),
		log:     logging.WithContainer(cfg.Logger, shape, cfg.Name),
		storage: make(map[V]entry.State),
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
	reply := make(chan map[V]entry.State, 1)
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
	for v, st := range o.storage {
		if st.Expired(now) {
			delete(o.storage, v)
			metrics.Expirations.WithLabelValues(shape).Inc()
		}
	}
}

func (o *owner[V]) evictExcess() {
	if !o.cfg.Policy.Enabled() {
		return
	}
	for len(o.storage) > o.cfg.Policy.Capacity {
		cands := make([]policy.Candidate[V], 0, len(o.storage))
		for v, st := range o.storage {
			cands = append(cands, policy.Candidate[V]{
				Key:            v,
				AccessCount:    st.AccessCount,
				LastAccessedAt: st.LastAccessedAt,
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

func (o *owner[V]) service(c cmd[V]) {
	now := time.Now()
	switch c := c.(type) {
	case insertCmd[V]:
		metrics.Commands.WithLabelValues(shape, "insert").Inc()
		o.doInsert(c.val, c.ex, c.nx, now)

	case minsertCmd[V]:
		metrics.Commands.WithLabelValues(shape, "minsert").Inc()
		for i := range c.vals {
			o.doInsert(c.vals[i], c.ex[i], c.nx[i], now)
		}

	case containsCmd[V]:
		metrics.Commands.WithLabelValues(shape, "contains").Inc()
		found := make([]bool, len(c.vals))
		for i, v := range c.vals {
			found[i] = o.touch(v, now)
		}
		reply(o.log, c.reply, found)

	case removeCmd[V]:
		metrics.Commands.WithLabelValues(shape, "remove").Inc()
		removed := make([]bool, len(c.vals))
		for i, v := range c.vals {
			st, ok := o.storage[v]
			delete(o.storage, v)
			removed[i] = ok && !st.Expired(now)
		}
		reply(o.log, c.reply, removed)

	case clearCmd[V]:
		metrics.Commands.WithLabelValues(shape, "clear").Inc()
		o.storage = make(map[V]entry.State)

	case ttlCmd[V]:
		metrics.Commands.WithLabelValues(shape, "ttl").Inc()
		out := make([]option.Option[time.Duration], len(c.vals))
		for i, v := range c.vals {
			st, ok := o.storage[v]
			if !ok {
				out[i] = option.None[time.Duration]()
				continue
			}
			st.Touch(now)
			o.storage[v] = st
			if d, live := st.TTL(now); live {
				out[i] = option.Some(d)
			} else {
				out[i] = option.None[time.Duration]()
			}
		}
		reply(o.log, c.reply, out)

	case getAllCmd[V]:
		metrics.Commands.WithLabelValues(shape, "get_all").Inc()
		out := make(map[V]struct{}, len(o.storage))
		for v, st := range o.storage {
			if st.Expired(now) {
				continue
			}
			st.Touch(now)
			o.storage[v] = st
			out[v] = struct{}{}
		}
		reply(o.log, c.reply, out)

	case getAllRawCmd[V]:
		metrics.Commands.WithLabelValues(shape, "get_all_raw").Inc()
		snapshot := make(map[V]entry.State, len(o.storage))
		for v, st := range o.storage {
			snapshot[v] = st
		}
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

func (o *owner[V]) doInsert(val V, ex *time.Duration, nx bool, now time.Time) {
	prior, exists := o.storage[val]
	if nx && exists {
		return
	}
	st := entry.NewState(now, ex)
	if exists {
		st.AccessCount = prior.AccessCount + 1
	}
	o.storage[val] = st
}

// touch reports membership, bumping access stats on a live hit.
func (o *owner[V]) touch(val V, now time.Time) bool {
	st, ok := o.storage[val]
	if !ok || st.Expired(now) {
		return false
	}
	st.Touch(now)
	o.storage[val] = st
	return true
}

func reply[T any](log zerolog.Logger, ch chan T, v T) {
	select {
	case ch <- v:
	default:
		metrics.ReplyDropped.WithLabelValues(shape).Inc()
		log.Warn().Msg("reply channel dropped by caller")
	}
}
