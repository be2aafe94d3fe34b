package hashset

import (
	"time"

	"github.com/adred-codev/actorcache/internal/entry"
	"github.com/adred-codev/actorcache/option"
)

// cmd is the closed set of messages a set owner accepts.
type cmd[V comparable] interface {
	isHashSetCmd()
}

type insertCmd[V comparable] struct {
	val V
	ex  *time.Duration
	nx  bool
}

func (insertCmd[V]) isHashSetCmd() {}

type minsertCmd[V comparable] struct {
	vals []V
	ex   []*time.Duration
	nx   []bool
}

func (minsertCmd[V]) isHashSetCmd() {}

type containsCmd[V comparable] struct {
	vals  []V
	reply chan []bool
}

func (containsCmd[V]) isHashSetCmd() {}

type removeCmd[V comparable] struct {
	vals  []V
	reply chan []bool
}

func (removeCmd[V]) isHashSetCmd() {}

type clearCmd[V comparable] struct{}

func (clearCmd[V]) isHashSetCmd() {}

type ttlCmd[V comparable] struct {
	vals  []V
	reply chan []option.Option[time.Duration]
}

func (ttlCmd[V]) isHashSetCmd() {}

type getAllCmd[V comparable] struct {
	reply chan map[V]struct{}
}

func (getAllCmd[V]) isHashSetCmd() {}

// getAllRawCmd is the raw snapshot a follower pulls from its primary each
// tick: values with their full access-stats state.
type getAllRawCmd[V comparable] struct {
	reply chan map[V]entry.State
}

func (getAllRawCmd[V]) isHashSetCmd() {}

type replicateCmd[V comparable] struct {
	primary *Handle[V]
}

func (replicateCmd[V]) isHashSetCmd() {}

type stopReplicatingCmd[V comparable] struct{}

func (stopReplicatingCmd[V]) isHashSetCmd() {}

type isReplicaCmd[V comparable] struct {
	reply chan bool
}

func (isReplicaCmd[V]) isHashSetCmd() {}
