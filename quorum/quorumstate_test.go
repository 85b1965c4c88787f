package quorum_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/krantius/kraft-quorum/quorum"
	"github.com/krantius/kraft-quorum/quorum/memstore"
	"github.com/krantius/kraft-quorum/quorum/memview"
)

func TestInitializeFreshStoreYieldsUnattached(t *testing.T) {
	dirID := uuid.New()
	view := memview.New(threeVoterSet(dirID))
	qs := newTestManager(dirID, memstore.New(), view, &fakeClock{})

	if err := qs.Initialize(quorum.OffsetAndEpoch{}); err != nil {
		t.Fatalf("Initialize returned unexpected error: %v", err)
	}
	if !qs.IsUnattached() {
		t.Errorf("expected Unattached after a fresh Initialize, got a different role")
	}
	if qs.Epoch() != 0 {
		t.Errorf("expected epoch 0, got %d", qs.Epoch())
	}
}

func TestInitializeStoredLeaderIsUsYieldsResigned(t *testing.T) {
	dirID := uuid.New()
	view := memview.New(threeVoterSet(dirID))
	store := memstore.New()

	leaderID := localID
	if err := store.Write(quorum.ElectionState{Epoch: 5, LeaderID: &leaderID}, 1); err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}

	qs := newTestManager(dirID, store, view, &fakeClock{})
	if err := qs.Initialize(quorum.OffsetAndEpoch{}); err != nil {
		t.Fatalf("Initialize returned unexpected error: %v", err)
	}
	if !qs.IsResigned() {
		t.Errorf("expected Resigned when the stored leader is the local id")
	}
	if qs.Epoch() != 5 {
		t.Errorf("expected epoch 5, got %d", qs.Epoch())
	}
}

func TestInitializeStoredVotedKeyIsUsYieldsCandidate(t *testing.T) {
	dirID := uuid.New()
	view := memview.New(threeVoterSet(dirID))
	store := memstore.New()

	self := localKey(dirID)
	if err := store.Write(quorum.ElectionState{Epoch: 3, VotedKey: &self}, 1); err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}

	qs := newTestManager(dirID, store, view, &fakeClock{})
	if err := qs.Initialize(quorum.OffsetAndEpoch{}); err != nil {
		t.Fatalf("Initialize returned unexpected error: %v", err)
	}
	cs, ok := qs.MaybeCandidateState()
	if !ok {
		t.Fatalf("expected Candidate when the stored voted-key is the local replica key")
	}
	if cs.RetryCount() != 1 {
		t.Errorf("expected retries=1 on recovery, got %d", cs.RetryCount())
	}
}

func TestInitializeStoredVotedKeyIsSomeoneElseYieldsUnattachedVoted(t *testing.T) {
	dirID := uuid.New()
	view := memview.New(threeVoterSet(dirID))
	store := memstore.New()

	voted := quorum.ReplicaKey{ID: peerID}
	if err := store.Write(quorum.ElectionState{Epoch: 4, VotedKey: &voted}, 1); err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}

	qs := newTestManager(dirID, store, view, &fakeClock{})
	if err := qs.Initialize(quorum.OffsetAndEpoch{}); err != nil {
		t.Fatalf("Initialize returned unexpected error: %v", err)
	}
	us, ok := qs.MaybeUnattachedState()
	if !ok {
		t.Fatalf("expected Unattached carrying the prior vote")
	}
	if us.VotedKey() == nil || *us.VotedKey() != voted {
		t.Errorf("expected the prior vote to be preserved, got %+v", us.VotedKey())
	}
}

func TestInitializeStoredLeaderKnownEndpointYieldsFollower(t *testing.T) {
	dirID := uuid.New()
	view := memview.New(threeVoterSet(dirID))
	store := memstore.New()

	leader := peerID
	if err := store.Write(quorum.ElectionState{Epoch: 7, LeaderID: &leader}, 1); err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}

	qs := newTestManager(dirID, store, view, &fakeClock{})
	if err := qs.Initialize(quorum.OffsetAndEpoch{}); err != nil {
		t.Fatalf("Initialize returned unexpected error: %v", err)
	}
	fs, ok := qs.MaybeFollowerState()
	if !ok {
		t.Fatalf("expected Follower when the stored leader's endpoint is known")
	}
	if fs.LeaderID() != peerID {
		t.Errorf("expected to follow leader %d, got %d", peerID, fs.LeaderID())
	}
}

func TestInitializeStoredLeaderUnknownEndpointYieldsUnattached(t *testing.T) {
	dirID := uuid.New()
	// A voter set that no longer contains the stored leader at all.
	view := memview.New(memview.NewVoterSet(
		memview.Voter{Key: quorum.ReplicaKey{ID: localID, DirectoryID: dirID}, Endpoints: quorum.Endpoints{{Listener: "local"}}},
	))
	store := memstore.New()

	leader := peerID
	if err := store.Write(quorum.ElectionState{Epoch: 7, LeaderID: &leader}, 1); err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}

	qs := newTestManager(dirID, store, view, &fakeClock{})
	if err := qs.Initialize(quorum.OffsetAndEpoch{}); err != nil {
		t.Fatalf("Initialize returned unexpected error: %v", err)
	}
	us, ok := qs.MaybeUnattachedState()
	if !ok {
		t.Fatalf("expected Unattached when the leader's endpoint can't be resolved")
	}
	if us.LeaderID() == nil || *us.LeaderID() != peerID {
		t.Errorf("expected the unreachable leader id to be remembered, got %+v", us.LeaderID())
	}
}

func TestInitializeStoredEpochBehindLogEpochWarnsAndResets(t *testing.T) {
	dirID := uuid.New()
	view := memview.New(threeVoterSet(dirID))
	store := memstore.New()

	if err := store.Write(quorum.ElectionState{Epoch: 2}, 1); err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}

	qs := newTestManager(dirID, store, view, &fakeClock{})
	if err := qs.Initialize(quorum.OffsetAndEpoch{Epoch: 9}); err != nil {
		t.Fatalf("Initialize returned unexpected error: %v", err)
	}
	if qs.Epoch() != 9 {
		t.Errorf("expected the higher log epoch to win, got %d", qs.Epoch())
	}
	if !qs.IsUnattached() {
		t.Errorf("expected Unattached after a durability-skew reset")
	}
}

func TestInitializeVotedKeyWithoutLocalIDFails(t *testing.T) {
	dirID := uuid.New()
	view := memview.New(threeVoterSet(dirID))
	store := memstore.New()

	voted := quorum.ReplicaKey{ID: peerID}
	if err := store.Write(quorum.ElectionState{Epoch: 1, VotedKey: &voted}, 1); err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}

	qs := newObserverManager(store, view, &fakeClock{})
	err := qs.Initialize(quorum.OffsetAndEpoch{})
	if err == nil {
		t.Fatalf("expected Initialize to fail for an observer reading a voted-key record")
	}
	if _, ok := err.(*quorum.IllegalInitStateError); !ok {
		t.Errorf("expected *IllegalInitStateError, got %T", err)
	}
}

func TestInitializeIsIdempotentRoundTrip(t *testing.T) {
	dirID := uuid.New()
	view := memview.New(threeVoterSet(dirID))
	store := memstore.New()

	qs := newTestManager(dirID, store, view, &fakeClock{})
	if err := qs.Initialize(quorum.OffsetAndEpoch{}); err != nil {
		t.Fatalf("first Initialize failed: %v", err)
	}
	if err := qs.TransitionToCandidate(); err != nil {
		t.Fatalf("TransitionToCandidate failed: %v", err)
	}

	// Re-read the durable record on a fresh manager, simulating a restart.
	restarted := newTestManager(dirID, store, view, &fakeClock{})
	if err := restarted.Initialize(quorum.OffsetAndEpoch{}); err != nil {
		t.Fatalf("second Initialize failed: %v", err)
	}
	cs, ok := restarted.MaybeCandidateState()
	if !ok {
		t.Fatalf("expected the restarted replica to recover as Candidate")
	}
	if cs.RetryCount() != 1 {
		t.Errorf("expected retries reset to 1 on recovery, got %d", cs.RetryCount())
	}
	if restarted.Epoch() != qs.Epoch() {
		t.Errorf("expected epoch to round-trip: got %d vs %d", restarted.Epoch(), qs.Epoch())
	}
}
