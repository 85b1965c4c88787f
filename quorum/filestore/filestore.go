// Package filestore is a JSON file-backed quorum.ElectionStateStore:
// write to a temp file, fsync, then rename over the real path so a
// reader never observes a half-written record.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/krantius/kraft-quorum/quorum"
)

// record is the on-disk shape of an ElectionState. VoterIDs is stored as a
// sorted-on-write slice since JSON has no set type.
type record struct {
	Epoch        uint32  `json:"epoch"`
	LeaderID     *int32  `json:"leader_id,omitempty"`
	VotedID      *int32  `json:"voted_id,omitempty"`
	VotedDirID   *string `json:"voted_directory_id,omitempty"`
	VoterIDs     []int32 `json:"voter_ids"`
	KraftVersion int16   `json:"kraft_version"`
}

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

func (s *Store) Read() (quorum.ElectionState, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return quorum.ElectionState{}, false, nil
		}
		return quorum.ElectionState{}, false, fmt.Errorf("reading election state from %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return quorum.ElectionState{}, false, nil
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return quorum.ElectionState{}, false, fmt.Errorf("decoding election state from %s: %w", s.path, err)
	}

	state := quorum.ElectionState{
		Epoch:    rec.Epoch,
		LeaderID: rec.LeaderID,
		VoterIDs: toVoterSet(rec.VoterIDs),
	}
	if rec.VotedID != nil && rec.VotedDirID != nil {
		dirID, err := uuid.Parse(*rec.VotedDirID)
		if err != nil {
			return quorum.ElectionState{}, false, fmt.Errorf("decoding voted directory id from %s: %w", s.path, err)
		}
		key := quorum.ReplicaKey{ID: *rec.VotedID, DirectoryID: dirID}
		state.VotedKey = &key
	}

	return state, true, nil
}

func (s *Store) Write(state quorum.ElectionState, kraftVersion int16) error {
	rec := record{
		Epoch:        state.Epoch,
		LeaderID:     state.LeaderID,
		VoterIDs:     fromVoterSet(state.VoterIDs),
		KraftVersion: kraftVersion,
	}
	if state.VotedKey != nil {
		id := state.VotedKey.ID
		dirID := state.VotedKey.DirectoryID.String()
		rec.VotedID = &id
		rec.VotedDirID = &dirID
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding election state for %s: %w", s.path, err)
	}

	tmpPath := s.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		log.WithField("path", s.path).WithError(err).Error("failed to open election state file for write")
		return fmt.Errorf("opening %s: %w", tmpPath, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}

	// Writes must be synchronously durable before this call returns.
	if err := f.Sync(); err != nil {
		f.Close()
		log.WithField("path", s.path).WithError(err).Error("failed to fsync election state file")
		return fmt.Errorf("fsyncing %s: %w", tmpPath, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, s.path, err)
	}

	dir, err := os.Open(filepath.Dir(s.path))
	if err == nil {
		_ = dir.Sync()
		dir.Close()
	}

	return nil
}

func toVoterSet(ids []int32) map[int32]struct{} {
	set := make(map[int32]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func fromVoterSet(set map[int32]struct{}) []int32 {
	ids := make([]int32, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
