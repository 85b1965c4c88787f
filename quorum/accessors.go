package quorum

import "github.com/google/uuid"

// This file implements the per-state accessor contract: checked
// casts, optional projections, role predicates, and pure getters. All of
// it reads the published state through currentState(), which is safe to
// call concurrently without holding mu - that is the point of publishing
// the state through an atomic pointer.

func (q *QuorumState) Epoch() uint32 {
	return q.currentState().Epoch()
}

func (q *QuorumState) LeaderID() *int32 {
	election := q.currentState().Election()
	return election.LeaderID
}

func (q *QuorumState) HasLeader() bool {
	return q.LeaderID() != nil
}

func (q *QuorumState) HasRemoteLeader() bool {
	leaderID := q.LeaderID()
	return leaderID != nil && *leaderID != q.localIDOrSentinel()
}

func (q *QuorumState) LeaderEndpoints() Endpoints {
	return q.currentState().LeaderEndpoints()
}

func (q *QuorumState) HighWatermark() *LogOffsetMetadata {
	return q.currentState().HighWatermark()
}

// LeaderAndEpoch bundles the optional leader id with the current epoch -
// the shape an observer would diff against its previous read to check the
// monotonicity invariant (epoch never decreases; leader id within a fixed
// epoch never changes to a different non-nil value).
type LeaderAndEpoch struct {
	LeaderID *int32
	Epoch    uint32
}

func (q *QuorumState) LeaderAndEpoch() LeaderAndEpoch {
	election := q.currentState().Election()
	return LeaderAndEpoch{LeaderID: election.LeaderID, Epoch: election.Epoch}
}

func (q *QuorumState) CanGrantVote(candidateKey ReplicaKey, isLogUpToDate bool) bool {
	return q.currentState().CanGrantVote(candidateKey, isLogUpToDate)
}

func (q *QuorumState) LocalID() *int32 { return q.localID }

func (q *QuorumState) LocalDirectoryID() uuid.UUID { return q.localDirectoryID }

func (q *QuorumState) localIDOrSentinel() int32 {
	if q.localID == nil {
		return -1
	}
	return *q.localID
}

func (q *QuorumState) IsVoter() bool {
	if q.localID == nil {
		return false
	}
	return q.partitionView.LastVoterSet().IsVoter(ReplicaKey{ID: *q.localID, DirectoryID: q.localDirectoryID})
}

func (q *QuorumState) IsObserver() bool { return !q.IsVoter() }

func (q *QuorumState) isObserverLocked() bool { return q.IsObserver() }

func (q *QuorumState) IsOnlyVoter() bool {
	if q.localID == nil {
		return false
	}
	return q.partitionView.LastVoterSet().IsOnlyVoter(ReplicaKey{ID: *q.localID, DirectoryID: q.localDirectoryID})
}

func (q *QuorumState) IsLeader() bool {
	_, ok := q.currentState().(*leaderState)
	return ok
}

func (q *QuorumState) isLeaderLocked() bool { return q.IsLeader() }

func (q *QuorumState) IsCandidate() bool {
	_, ok := q.currentState().(*candidateState)
	return ok
}

func (q *QuorumState) isCandidateLocked() bool { return q.IsCandidate() }

func (q *QuorumState) IsFollower() bool {
	_, ok := q.currentState().(*followerState)
	return ok
}

func (q *QuorumState) IsUnattached() bool {
	_, ok := q.currentState().(*unattachedState)
	return ok
}

func (q *QuorumState) isUnattachedLocked() bool { return q.IsUnattached() }

func (q *QuorumState) IsUnattachedNotVoted() bool {
	us, ok := q.currentState().(*unattachedState)
	return ok && us.votedKeyOrNil() == nil
}

func (q *QuorumState) isUnattachedNotVotedLocked() bool { return q.IsUnattachedNotVoted() }

func (q *QuorumState) IsUnattachedAndVoted() bool {
	us, ok := q.currentState().(*unattachedState)
	return ok && us.votedKeyOrNil() != nil
}

func (q *QuorumState) IsResigned() bool {
	_, ok := q.currentState().(*resignedState)
	return ok
}

// UnattachedStateOrErr is the checked cast for Unattached.
func (q *QuorumState) UnattachedStateOrErr() (*unattachedState, error) {
	if us, ok := q.currentState().(*unattachedState); ok {
		return us, nil
	}
	return nil, illegalTransitionf("expected to be Unattached, but current state is %s", q.currentState())
}

// MaybeUnattachedState is the optional projection for Unattached.
func (q *QuorumState) MaybeUnattachedState() (*unattachedState, bool) {
	us, ok := q.currentState().(*unattachedState)
	return us, ok
}

func (q *QuorumState) CandidateStateOrErr() (*candidateState, error) {
	if cs, ok := q.currentState().(*candidateState); ok {
		return cs, nil
	}
	return nil, illegalTransitionf("expected to be Candidate, but current state is %s", q.currentState())
}

func (q *QuorumState) MaybeCandidateState() (*candidateState, bool) {
	cs, ok := q.currentState().(*candidateState)
	return cs, ok
}

func (q *QuorumState) LeaderStateOrErr() (*leaderState, error) {
	if ls, ok := q.currentState().(*leaderState); ok {
		return ls, nil
	}
	return nil, illegalTransitionf("expected to be Leader, but current state is %s", q.currentState())
}

func (q *QuorumState) MaybeLeaderState() (*leaderState, bool) {
	ls, ok := q.currentState().(*leaderState)
	return ls, ok
}

func (q *QuorumState) FollowerStateOrErr() (*followerState, error) {
	if fs, ok := q.currentState().(*followerState); ok {
		return fs, nil
	}
	return nil, illegalTransitionf("expected to be Follower, but current state is %s", q.currentState())
}

func (q *QuorumState) MaybeFollowerState() (*followerState, bool) {
	fs, ok := q.currentState().(*followerState)
	return fs, ok
}

func (q *QuorumState) ResignedStateOrErr() (*resignedState, error) {
	if rs, ok := q.currentState().(*resignedState); ok {
		return rs, nil
	}
	return nil, illegalTransitionf("expected to be Resigned, but current state is %s", q.currentState())
}

func (q *QuorumState) MaybeResignedState() (*resignedState, bool) {
	rs, ok := q.currentState().(*resignedState)
	return rs, ok
}
