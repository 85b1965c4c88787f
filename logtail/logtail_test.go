package logtail_test

import (
	"testing"

	"github.com/krantius/kraft-quorum/logtail"
	"github.com/krantius/kraft-quorum/quorum"
)

func TestEndOffsetAndEpochIsZeroBeforeAnyAppend(t *testing.T) {
	l := logtail.New()
	got := l.EndOffsetAndEpoch()
	if got != (quorum.OffsetAndEpoch{}) {
		t.Errorf("expected the zero value before any append, got %+v", got)
	}
}

func TestAppendUpdatesEndOffsetAndEpoch(t *testing.T) {
	l := logtail.New()
	l.Append(10, 2)
	l.Append(20, 3)

	got := l.EndOffsetAndEpoch()
	want := quorum.OffsetAndEpoch{Offset: 20, Epoch: 3}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
