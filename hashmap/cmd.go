package hashmap

import (
	"time"

	"github.com/adred-codev/actorcache/internal/entry"
	"github.com/adred-codev/actorcache/option"
)

// cmd is the closed set of messages a map owner accepts. Every variant
// either fires-and-forgets or carries a single-use reply channel.
type cmd[K comparable, V any] interface {
	isHashMapCmd()
}

type insertCmd[K comparable, V any] struct {
	key K
	val V
	ex  *time.Duration
	nx  bool
}

func (insertCmd[K, V]) isHashMapCmd() {}

type minsertCmd[K comparable, V any] struct {
	keys []K
	vals []V
	ex   []*time.Duration
	nx   []bool
}

func (minsertCmd[K, V]) isHashMapCmd() {}

type getCmd[K comparable, V any] struct {
	key   K
	reply chan option.Option[V]
}

func (getCmd[K, V]) isHashMapCmd() {}

type mgetCmd[K comparable, V any] struct {
	keys  []K
	reply chan []option.Option[V]
}

func (mgetCmd[K, V]) isHashMapCmd() {}

type containsKeyCmd[K comparable, V any] struct {
	keys  []K
	reply chan []bool
}

func (containsKeyCmd[K, V]) isHashMapCmd() {}

type removeCmd[K comparable, V any] struct {
	keys  []K
	reply chan []option.Option[V]
}

func (removeCmd[K, V]) isHashMapCmd() {}

type clearCmd[K comparable, V any] struct{}

func (clearCmd[K, V]) isHashMapCmd() {}

type ttlCmd[K comparable, V any] struct {
	keys  []K
	reply chan []option.Option[time.Duration]
}

func (ttlCmd[K, V]) isHashMapCmd() {}

type getAllCmd[K comparable, V any] struct {
	reply chan map[K]V
}

func (getAllCmd[K, V]) isHashMapCmd() {}

// getAllRawCmd is the raw snapshot a follower pulls from its primary each
// tick: entries with their full access-stats state, not just values.
type getAllRawCmd[K comparable, V any] struct {
	reply chan map[K]entry.Entry[V]
}

func (getAllRawCmd[K, V]) isHashMapCmd() {}

type replicateCmd[K comparable, V any] struct {
	primary *Handle[K, V]
}

func (replicateCmd[K, V]) isHashMapCmd() {}

type stopReplicatingCmd[K comparable, V any] struct{}

func (stopReplicatingCmd[K, V]) isHashMapCmd() {}

type isReplicaCmd[K comparable, V any] struct {
	reply chan bool
}

func (isReplicaCmd[K, V]) isHashMapCmd() {}
