package quorum

import "fmt"

type leaderState struct {
	epoch              uint32
	self               ReplicaKey
	epochStartOffset   LogOffset
	voters             VoterSet
	voterSetOffset     LogOffset
	kraftVersion       int16
	grantingVoters     map[int32]struct{}
	accumulator        BatchAccumulator
	localListeners     Endpoints
	fetchTimeoutMs     int64
	highWatermarkAcked bool
}

func newLeaderState(
	self ReplicaKey,
	epoch uint32,
	epochStartOffset LogOffset,
	voters VoterSet,
	voterSetOffset LogOffset,
	kraftVersion int16,
	grantingVoters map[int32]struct{},
	accumulator BatchAccumulator,
	localListeners Endpoints,
	fetchTimeoutMs int64,
) *leaderState {
	return &leaderState{
		epoch:            epoch,
		self:             self,
		epochStartOffset: epochStartOffset,
		voters:           voters,
		voterSetOffset:   voterSetOffset,
		kraftVersion:     kraftVersion,
		grantingVoters:   grantingVoters,
		accumulator:      accumulator,
		localListeners:   localListeners,
		fetchTimeoutMs:   fetchTimeoutMs,
	}
}

func (s *leaderState) Epoch() uint32 { return s.epoch }

func (s *leaderState) Election() ElectionState {
	leaderID := s.self.ID
	return ElectionState{
		Epoch:    s.epoch,
		LeaderID: &leaderID,
		VoterIDs: s.voters.VoterIDs(),
	}
}

func (s *leaderState) LeaderEndpoints() Endpoints { return s.localListeners }

// HighWatermark is never inherited from the prior role: it becomes visible
// only once a majority of voters have acknowledged an offset at or past
// epochStartOffset. Until the outer engine calls ackMajorityAtEpochStart
// (through LeaderHandle.AckMajorityAtEpochStart, driven by the raft
// engine's replication tracking, out of scope here), it reports nil.
func (s *leaderState) HighWatermark() *LogOffsetMetadata {
	if !s.highWatermarkAcked {
		return nil
	}
	return &LogOffsetMetadata{Offset: s.epochStartOffset}
}

// ackMajorityAtEpochStart is called by the outer engine once it observes
// that a majority of voters have replicated at least epochStartOffset,
// restoring high-watermark monotonicity across the leader change.
func (s *leaderState) ackMajorityAtEpochStart() {
	s.highWatermarkAcked = true
}

func (s *leaderState) CanGrantVote(candidateKey ReplicaKey, isLogUpToDate bool) bool {
	// A sitting leader never grants a vote away within its own epoch.
	return false
}

func (s *leaderState) Close() error {
	if s.accumulator != nil {
		return s.accumulator.Close()
	}
	return nil
}

func (s *leaderState) Name() RoleName { return RoleLeader }

// Self is this replica's key.
func (s *leaderState) Self() ReplicaKey { return s.self }

// EpochStartOffset is the offset the leader started writing at in this
// epoch; the high watermark cannot advance past it until a majority of
// voters acknowledge it (see AckMajorityAtEpochStart on LeaderHandle).
func (s *leaderState) EpochStartOffset() LogOffset { return s.epochStartOffset }

// GrantingVoters is the set of voter ids that elected this leader.
func (s *leaderState) GrantingVoters() map[int32]struct{} { return s.grantingVoters }

func (s *leaderState) String() string {
	return fmt.Sprintf("Leader(epoch=%d, self=%s, epochStartOffset=%d)", s.epoch, s.self, s.epochStartOffset)
}
