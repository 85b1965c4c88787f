package quorum

import "fmt"

type followerState struct {
	epoch          uint32
	leaderID       int32
	leaderEndpoint Endpoints
	voterIDs       map[int32]struct{}
	highWatermark  *LogOffsetMetadata
	fetchTimeoutMs int64
}

func newFollowerState(
	epoch uint32,
	leaderID int32,
	leaderEndpoint Endpoints,
	voterIDs map[int32]struct{},
	highWatermark *LogOffsetMetadata,
	fetchTimeoutMs int64,
) *followerState {
	return &followerState{
		epoch:          epoch,
		leaderID:       leaderID,
		leaderEndpoint: leaderEndpoint,
		voterIDs:       voterIDs,
		highWatermark:  highWatermark,
		fetchTimeoutMs: fetchTimeoutMs,
	}
}

func (s *followerState) Epoch() uint32 { return s.epoch }

func (s *followerState) Election() ElectionState {
	leaderID := s.leaderID
	return ElectionState{
		Epoch:    s.epoch,
		LeaderID: &leaderID,
		VoterIDs: s.voterIDs,
	}
}

func (s *followerState) LeaderEndpoints() Endpoints { return s.leaderEndpoint }

func (s *followerState) HighWatermark() *LogOffsetMetadata { return s.highWatermark }

func (s *followerState) CanGrantVote(candidateKey ReplicaKey, isLogUpToDate bool) bool {
	// Already following a leader in this epoch; nothing could be more
	// up to date than the leader we are already fetching from.
	return false
}

func (s *followerState) Close() error { return nil }

func (s *followerState) Name() RoleName { return RoleFollower }

// LeaderID is the id of the leader this replica is following.
func (s *followerState) LeaderID() int32 { return s.leaderID }

func (s *followerState) String() string {
	return fmt.Sprintf("Follower(epoch=%d, leader=%d, endpoints=%d)", s.epoch, s.leaderID, len(s.leaderEndpoint))
}
