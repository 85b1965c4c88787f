// Package memstore is an in-memory quorum.ElectionStateStore, used by
// tests and by short-lived demos where durability across a real process
// restart is not needed.
package memstore

import (
	"sync"

	"github.com/krantius/kraft-quorum/quorum"
)

type Store struct {
	mu    sync.Mutex
	state quorum.ElectionState
	set   bool
}

func New() *Store {
	return &Store{}
}

func (s *Store) Read() (quorum.ElectionState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.set, nil
}

func (s *Store) Write(state quorum.ElectionState, kraftVersion int16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.set = true
	return nil
}

func (s *Store) Path() string {
	return "memory"
}
