package quorum_test

import (
	"github.com/google/uuid"

	"github.com/krantius/kraft-quorum/quorum"
	"github.com/krantius/kraft-quorum/quorum/memview"
	"github.com/krantius/kraft-quorum/shared/logging"
)

type fakeClock struct {
	nowMs int64
}

func (c *fakeClock) NowMs() int64 { return c.nowMs }

// fakeRand always draws 0, so randomized election timeouts land exactly on
// their configured base - deterministic without needing to special-case a
// base of 0 in every test.
type fakeRand struct{}

func (fakeRand) Intn(n int) int { return 0 }

const (
	localID int32 = 1
	peerID  int32 = 2
	thirdID int32 = 3
)

func localKey(dirID uuid.UUID) quorum.ReplicaKey {
	return quorum.ReplicaKey{ID: localID, DirectoryID: dirID}
}

func threeVoterSet(localDirID uuid.UUID) *memview.VoterSet {
	return memview.NewVoterSet(
		memview.Voter{Key: quorum.ReplicaKey{ID: localID, DirectoryID: localDirID}, Endpoints: quorum.Endpoints{{Listener: "local"}}},
		memview.Voter{Key: quorum.ReplicaKey{ID: peerID}, Endpoints: quorum.Endpoints{{Listener: "peer"}}},
		memview.Voter{Key: quorum.ReplicaKey{ID: thirdID}, Endpoints: quorum.Endpoints{{Listener: "third"}}},
	)
}

func newTestManager(localDirID uuid.UUID, store quorum.ElectionStateStore, view *memview.View, clock *fakeClock) *quorum.QuorumState {
	id := localID
	cfg := quorum.Config{
		LocalID:                    &id,
		LocalDirectoryID:           localDirID,
		LocalListeners:             quorum.Endpoints{{Listener: "local"}},
		LocalSupportedKRaftVersion: quorum.VersionRange{Min: 0, Max: 1},
		ElectionTimeoutMs:          1000,
		FetchTimeoutMs:             2000,
	}
	return quorum.New(cfg, store, view, clock, fakeRand{}, logging.New("test"))
}

func newObserverManager(store quorum.ElectionStateStore, view *memview.View, clock *fakeClock) *quorum.QuorumState {
	cfg := quorum.Config{
		LocalListeners:    nil,
		ElectionTimeoutMs: 1000,
		FetchTimeoutMs:    2000,
	}
	return quorum.New(cfg, store, view, clock, fakeRand{}, logging.New("test-observer"))
}
