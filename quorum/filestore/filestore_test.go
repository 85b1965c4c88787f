package filestore_test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/krantius/kraft-quorum/quorum"
	"github.com/krantius/kraft-quorum/quorum/filestore"
)

func TestReadMissingFileIsNotAnError(t *testing.T) {
	s := filestore.New(filepath.Join(t.TempDir(), "quorum-state.json"))

	_, ok, err := s.Read()
	if err != nil {
		t.Fatalf("expected no error reading a missing file, got %v", err)
	}
	if ok {
		t.Errorf("expected ok=false for a missing file")
	}
}

func TestWriteThenReadRoundTripsLeaderRecord(t *testing.T) {
	s := filestore.New(filepath.Join(t.TempDir(), "quorum-state.json"))

	leaderID := int32(7)
	want := quorum.ElectionState{
		Epoch:    3,
		LeaderID: &leaderID,
		VoterIDs: map[int32]struct{}{1: {}, 2: {}, 7: {}},
	}
	if err := s.Write(want, 1); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, ok, err := s.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true after a successful write")
	}
	if got.Epoch != want.Epoch {
		t.Errorf("expected epoch %d, got %d", want.Epoch, got.Epoch)
	}
	if got.LeaderID == nil || *got.LeaderID != leaderID {
		t.Errorf("expected leader id %d, got %+v", leaderID, got.LeaderID)
	}
	if len(got.VoterIDs) != len(want.VoterIDs) {
		t.Errorf("expected %d voter ids, got %d", len(want.VoterIDs), len(got.VoterIDs))
	}
}

func TestWriteThenReadRoundTripsVotedRecord(t *testing.T) {
	s := filestore.New(filepath.Join(t.TempDir(), "quorum-state.json"))

	votedKey := quorum.ReplicaKey{ID: 9, DirectoryID: uuid.New()}
	want := quorum.ElectionState{Epoch: 1, VotedKey: &votedKey}
	if err := s.Write(want, 1); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, ok, err := s.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true after a successful write")
	}
	if got.VotedKey == nil || *got.VotedKey != votedKey {
		t.Errorf("expected voted key %+v, got %+v", votedKey, got.VotedKey)
	}
}

func TestWriteOverwritesPreviousRecord(t *testing.T) {
	s := filestore.New(filepath.Join(t.TempDir(), "quorum-state.json"))

	if err := s.Write(quorum.ElectionState{Epoch: 1}, 1); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := s.Write(quorum.ElectionState{Epoch: 2}, 1); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	got, ok, err := s.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !ok || got.Epoch != 2 {
		t.Errorf("expected the second write to win with epoch 2, got ok=%v epoch=%d", ok, got.Epoch)
	}
}
