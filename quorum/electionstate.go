package quorum

import "fmt"

// ElectionState is the durable record a QuorumStateStore reads and writes.
// LeaderID and VotedKey are mutually exclusive within one epoch, except for
// the leader-known-but-unreachable exception handled during Initialize.
type ElectionState struct {
	Epoch    uint32
	LeaderID *int32
	VotedKey *ReplicaKey
	VoterIDs map[int32]struct{}
}

// WithUnknownLeader builds an ElectionState for an epoch with neither a
// known leader nor a recorded vote - the synthesized state used when the
// store has nothing on disk yet.
func WithUnknownLeader(epoch uint32, voterIDs map[int32]struct{}) ElectionState {
	return ElectionState{Epoch: epoch, VoterIDs: voterIDs}
}

func (e ElectionState) HasLeader() bool {
	return e.LeaderID != nil
}

func (e ElectionState) HasVoted() bool {
	return e.VotedKey != nil
}

// IsLeader reports whether the given local id is recorded as the leader of
// this election.
func (e ElectionState) IsLeader(id int32) bool {
	return e.LeaderID != nil && *e.LeaderID == id
}

// IsVotedCandidate reports whether the full replica key (id and directory
// id) matches the recorded vote.
func (e ElectionState) IsVotedCandidate(key ReplicaKey) bool {
	return e.VotedKey != nil && *e.VotedKey == key
}

// LeaderIDOrSentinel returns the leader id, or -1 if there is none.
func (e ElectionState) LeaderIDOrSentinel() int32 {
	if e.LeaderID == nil {
		return -1
	}
	return *e.LeaderID
}

func (e ElectionState) String() string {
	leader := "none"
	if e.LeaderID != nil {
		leader = fmt.Sprintf("%d", *e.LeaderID)
	}
	voted := "none"
	if e.VotedKey != nil {
		voted = e.VotedKey.String()
	}
	return fmt.Sprintf("ElectionState(epoch=%d, leader=%s, voted=%s)", e.Epoch, leader, voted)
}
