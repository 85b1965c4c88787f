// Package logtail is a minimal append-only sequence tracking the local
// log's last-seen (offset, epoch) pair, trimmed down to the one thing the
// quorum state manager's Initialize needs: the log-end-offset-and-epoch
// reconciliation input used to decide the initial role on startup. Full
// replication, snapshotting, and commit tracking are out of scope for
// this component.
package logtail

import (
	"sync"

	"github.com/krantius/kraft-quorum/quorum"
)

type Log struct {
	mu        sync.Mutex
	endOffset quorum.LogOffset
	endEpoch  uint32
}

func New() *Log {
	return &Log{}
}

// Append records that the log now ends at (offset, epoch). It is the
// caller's responsibility to ensure offsets are non-decreasing and epochs
// are monotonic - this type does no replication-level validation, since
// that belongs to the (out of scope) log replication component.
func (l *Log) Append(offset quorum.LogOffset, epoch uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.endOffset = offset
	l.endEpoch = epoch
}

// EndOffsetAndEpoch returns the last-seen (offset, epoch) pair, or the
// zero value if nothing has been appended yet.
func (l *Log) EndOffsetAndEpoch() quorum.OffsetAndEpoch {
	l.mu.Lock()
	defer l.mu.Unlock()
	return quorum.OffsetAndEpoch{Offset: l.endOffset, Epoch: l.endEpoch}
}
