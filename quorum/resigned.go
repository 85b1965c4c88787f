package quorum

import "fmt"

// resignedState is soft state: it is never persisted, because recovering
// as Resigned after a crash is already guaranteed by the durable epoch
// bump plus the init rule that treats "stored leader is us" as Resigned.
type resignedState struct {
	epoch               uint32
	selfID              int32
	voterIDs            map[int32]struct{}
	preferredSuccessors []ReplicaKey
	localListeners      Endpoints
	electionTimeout     electionDeadline
}

func newResignedState(
	clock Clock,
	selfID int32,
	epoch uint32,
	voterIDs map[int32]struct{},
	electionTimeoutMs int64,
	preferredSuccessors []ReplicaKey,
	localListeners Endpoints,
) *resignedState {
	return &resignedState{
		epoch:               epoch,
		selfID:              selfID,
		voterIDs:            voterIDs,
		preferredSuccessors: preferredSuccessors,
		localListeners:      localListeners,
		electionTimeout:     newElectionDeadline(clock.NowMs(), electionTimeoutMs),
	}
}

func (s *resignedState) Epoch() uint32 { return s.epoch }

func (s *resignedState) Election() ElectionState {
	leaderID := s.selfID
	return ElectionState{
		Epoch:    s.epoch,
		LeaderID: &leaderID,
		VoterIDs: s.voterIDs,
	}
}

func (s *resignedState) LeaderEndpoints() Endpoints { return s.localListeners }

func (s *resignedState) HighWatermark() *LogOffsetMetadata { return nil }

func (s *resignedState) CanGrantVote(candidateKey ReplicaKey, isLogUpToDate bool) bool {
	// We just stepped down as leader of this epoch; refuse to vote for
	// anyone else in it.
	return false
}

func (s *resignedState) Close() error { return nil }

func (s *resignedState) Name() RoleName { return RoleResigned }

// PreferredSuccessors is the in-memory-only list of replicas this leader
// suggested should run for election next; lost across a crash without
// safety consequence.
func (s *resignedState) PreferredSuccessors() []ReplicaKey { return s.preferredSuccessors }

// SelfID is the id of the replica that resigned (the prior leader).
func (s *resignedState) SelfID() int32 { return s.selfID }

func (s *resignedState) remainingElectionTimeMs(nowMs int64) int64 {
	return s.electionTimeout.remainingMs(nowMs)
}

func (s *resignedState) String() string {
	return fmt.Sprintf("Resigned(epoch=%d, self=%d)", s.epoch, s.selfID)
}
