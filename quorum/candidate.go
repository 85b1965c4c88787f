package quorum

import "fmt"

// voteTally is the candidate's minimal internal bookkeeping: how many
// voters exist and which ones have granted a vote this epoch.
type voteTally struct {
	totalVoters int
	granted     map[int32]struct{}
}

func newVoteTally(self int32, voters VoterSet) voteTally {
	t := voteTally{
		totalVoters: len(voters.VoterIDs()),
		granted:     map[int32]struct{}{self: {}},
	}
	return t
}

func (t *voteTally) record(voterID int32) {
	t.granted[voterID] = struct{}{}
}

func (t *voteTally) isVoteGranted() bool {
	return len(t.granted) >= (t.totalVoters/2)+1
}

func (t *voteTally) grantingVoters() map[int32]struct{} {
	out := make(map[int32]struct{}, len(t.granted))
	for id := range t.granted {
		out[id] = struct{}{}
	}
	return out
}

type candidateState struct {
	epoch           uint32
	self            ReplicaKey
	voters          VoterSet
	retries         int
	tally           voteTally
	highWatermark   *LogOffsetMetadata
	electionTimeout electionDeadline
}

func newCandidateState(
	clock Clock,
	self ReplicaKey,
	epoch uint32,
	voters VoterSet,
	highWatermark *LogOffsetMetadata,
	retries int,
	electionTimeoutMs int64,
) *candidateState {
	return &candidateState{
		epoch:           epoch,
		self:            self,
		voters:          voters,
		retries:         retries,
		tally:           newVoteTally(self.ID, voters),
		highWatermark:   highWatermark,
		electionTimeout: newElectionDeadline(clock.NowMs(), electionTimeoutMs),
	}
}

func (s *candidateState) Epoch() uint32 { return s.epoch }

func (s *candidateState) Election() ElectionState {
	votedKey := s.self
	return ElectionState{
		Epoch:    s.epoch,
		VotedKey: &votedKey,
		VoterIDs: s.voters.VoterIDs(),
	}
}

func (s *candidateState) LeaderEndpoints() Endpoints { return nil }

func (s *candidateState) HighWatermark() *LogOffsetMetadata { return s.highWatermark }

func (s *candidateState) CanGrantVote(candidateKey ReplicaKey, isLogUpToDate bool) bool {
	// A candidate has already voted for itself; it can only repeat that
	// vote, never grant one to someone else.
	return candidateKey == s.self
}

func (s *candidateState) Close() error { return nil }

func (s *candidateState) Name() RoleName { return RoleCandidate }

func (s *candidateState) retryCount() int { return s.retries }

func (s *candidateState) isVoteGranted() bool { return s.tally.isVoteGranted() }

func (s *candidateState) grantingVoters() map[int32]struct{} { return s.tally.grantingVoters() }

// RetryCount is the number of consecutive elections this candidate has
// called, including the current one.
func (s *candidateState) RetryCount() int { return s.retries }

// Self is the replica key this candidate voted for (itself).
func (s *candidateState) Self() ReplicaKey { return s.self }

// IsVoteGranted reports whether a majority of voters have granted this
// candidate a vote in the current epoch.
func (s *candidateState) IsVoteGranted() bool { return s.tally.isVoteGranted() }

// GrantingVoters is the set of voter ids that have granted this candidate
// a vote in the current epoch.
func (s *candidateState) GrantingVoters() map[int32]struct{} { return s.tally.grantingVoters() }

// RecordGrantedVote is called by the outer engine when a RequestVote
// response grants a vote to this candidate.
func (s *candidateState) RecordGrantedVote(voterID int32) { s.tally.record(voterID) }

func (s *candidateState) remainingElectionTimeMs(nowMs int64) int64 {
	return s.electionTimeout.remainingMs(nowMs)
}

func (s *candidateState) String() string {
	return fmt.Sprintf("Candidate(epoch=%d, self=%s, retries=%d)", s.epoch, s.self, s.retries)
}
