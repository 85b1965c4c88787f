package quorum

import "fmt"

// unattachedState covers both "Unattached" and its voted sub-state:
// VotedKey is nil in the former, set in the latter.
type unattachedState struct {
	epoch           uint32
	leaderID        *int32
	votedKey        *ReplicaKey
	voterIDs        map[int32]struct{}
	highWatermark   *LogOffsetMetadata
	electionTimeout electionDeadline
}

func newUnattachedState(
	clock Clock,
	epoch uint32,
	leaderID *int32,
	votedKey *ReplicaKey,
	voterIDs map[int32]struct{},
	highWatermark *LogOffsetMetadata,
	electionTimeoutMs int64,
) *unattachedState {
	return &unattachedState{
		epoch:           epoch,
		leaderID:        leaderID,
		votedKey:        votedKey,
		voterIDs:        voterIDs,
		highWatermark:   highWatermark,
		electionTimeout: newElectionDeadline(clock.NowMs(), electionTimeoutMs),
	}
}

func (s *unattachedState) Epoch() uint32 { return s.epoch }

func (s *unattachedState) Election() ElectionState {
	return ElectionState{
		Epoch:    s.epoch,
		LeaderID: s.leaderID,
		VotedKey: s.votedKey,
		VoterIDs: s.voterIDs,
	}
}

func (s *unattachedState) LeaderEndpoints() Endpoints { return nil }

func (s *unattachedState) HighWatermark() *LogOffsetMetadata { return s.highWatermark }

// CanGrantVote applies the candidate-comparison rule: a vote already cast
// for this epoch may only be repeated for the same candidate, and an
// un-voted Unattached grants whoever asks first whose log is at least as
// up to date. (A Follower grants no votes at all.)
func (s *unattachedState) CanGrantVote(candidateKey ReplicaKey, isLogUpToDate bool) bool {
	if s.votedKey != nil {
		return *s.votedKey == candidateKey
	}
	return isLogUpToDate
}

func (s *unattachedState) Close() error { return nil }

func (s *unattachedState) Name() RoleName { return RoleUnattached }

func (s *unattachedState) votedKeyOrNil() *ReplicaKey { return s.votedKey }

// VotedKey exposes the vote cast while Unattached, if any.
func (s *unattachedState) VotedKey() *ReplicaKey { return s.votedKey }

// LeaderID exposes the remembered-but-unreachable leader id, if any.
func (s *unattachedState) LeaderID() *int32 { return s.leaderID }

func (s *unattachedState) remainingElectionTimeMs(nowMs int64) int64 {
	return s.electionTimeout.remainingMs(nowMs)
}

func (s *unattachedState) String() string {
	voted := "none"
	if s.votedKey != nil {
		voted = s.votedKey.String()
	}
	leader := "none"
	if s.leaderID != nil {
		leader = fmt.Sprintf("%d", *s.leaderID)
	}
	return fmt.Sprintf("Unattached(epoch=%d, leader=%s, voted=%s)", s.epoch, leader, voted)
}
