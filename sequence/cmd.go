package sequence

import (
	"time"

	"github.com/adred-codev/actorcache/internal/entry"
	"github.com/adred-codev/actorcache/option"
)

// cmd is the closed set of messages a sequence owner accepts.
type cmd[V comparable] interface {
	isSequenceCmd()
}

type pushCmd[V comparable] struct {
	val V
	ex  *time.Duration
	nx  bool
}

func (pushCmd[V]) isSequenceCmd() {}

type mpushCmd[V comparable] struct {
	vals []V
	ex   []*time.Duration
	nx   []bool
}

func (mpushCmd[V]) isSequenceCmd() {}

type containsCmd[V comparable] struct {
	vals  []V
	reply chan []bool
}

func (containsCmd[V]) isSequenceCmd() {}

type removeCmd[V comparable] struct {
	vals  []V
	reply chan []bool
}

func (removeCmd[V]) isSequenceCmd() {}

type clearCmd[V comparable] struct{}

func (clearCmd[V]) isSequenceCmd() {}

type ttlCmd[V comparable] struct {
	vals  []V
	reply chan []option.Option[time.Duration]
}

func (ttlCmd[V]) isSequenceCmd() {}

type getAllCmd[V comparable] struct {
	reply chan []V
}

func (getAllCmd[V]) isSequenceCmd() {}

// getAllRawCmd is the raw snapshot a follower pulls from its primary each
// tick: every stored entry in order, with its full access-stats state.
type getAllRawCmd[V comparable] struct {
	reply chan []entry.Entry[V]
}

func (getAllRawCmd[V]) isSequenceCmd() {}

type replicateCmd[V comparable] struct {
	primary *Handle[V]
}

func (replicateCmd[V]) isSequenceCmd() {}

type stopReplicatingCmd[V comparable] struct{}

func (stopReplicatingCmd[V]) isSequenceCmd() {}

type isReplicaCmd[V comparable] struct {
	reply chan bool
}

func (isReplicaCmd[V]) isSequenceCmd() {}
