package quorum

// TransitionToResigned is a soft transition: Resigned is never persisted,
// because recovering it after a crash is already guaranteed by the
// durable epoch bump plus the init rule that treats "stored leader is us"
// as Resigned.
func (q *QuorumState) TransitionToResigned(preferredSuccessors []ReplicaKey) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.isLeaderLocked() {
		return illegalTransitionf("invalid transition to Resigned from %s", q.currentState())
	}

	epoch := q.currentState().Epoch()
	next := newResignedState(
		q.clock,
		q.localIDOrSentinel(),
		epoch,
		q.partitionView.LastVoterSet().VoterIDs(),
		q.randomElectionTimeoutMs(),
		preferredSuccessors,
		q.localListeners,
	)
	return q.memoryTransitionTo(next)
}

// TransitionToUnattached means we have learned of an epoch greater than
// our current one but do not yet know the elected leader.
func (q *QuorumState) TransitionToUnattached(newEpoch uint32) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	current := q.currentState()
	if newEpoch <= current.Epoch() {
		return illegalTransitionf("cannot transition to Unattached with epoch=%d from current state %s", newEpoch, current)
	}

	var electionTimeoutMs int64
	switch {
	case q.isObserverLocked():
		electionTimeoutMs = infiniteElectionTimeoutMs
	case q.isCandidateLocked():
		electionTimeoutMs = current.(*candidateState).remainingElectionTimeMs(q.clock.NowMs())
	case q.isUnattachedLocked():
		electionTimeoutMs = current.(*unattachedState).remainingElectionTimeMs(q.clock.NowMs())
	default:
		electionTimeoutMs = q.randomElectionTimeoutMs()
	}

	next := newUnattachedState(
		q.clock,
		newEpoch,
		nil,
		nil,
		q.partitionView.LastVoterSet().VoterIDs(),
		current.HighWatermark(),
		electionTimeoutMs,
	)
	return q.durableTransitionTo(next)
}

// TransitionToUnattachedVoted grants a vote to candidateKey. We remain (or
// become) Unattached until either the election timeout fires or a leader
// is elected; fetching only begins once TransitionToFollower is invoked.
func (q *QuorumState) TransitionToUnattachedVoted(epoch uint32, candidateKey ReplicaKey) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	current := q.currentState()
	currentEpoch := current.Epoch()

	if q.localID == nil {
		return illegalTransitionf("cannot transition to voted without a replica id")
	}
	if candidateKey.ID == *q.localID {
		return illegalTransitionf(
			"cannot transition to voted for %s and epoch %d since it matches the local id", candidateKey, epoch)
	}
	if epoch < currentEpoch {
		return illegalTransitionf(
			"cannot transition to voted for %s and epoch %d since the current epoch (%d) is larger",
			candidateKey, epoch, currentEpoch)
	}
	if epoch == currentEpoch && !q.isUnattachedNotVotedLocked() {
		return illegalTransitionf(
			"cannot transition to voted for %s and epoch %d from the current state (%s)", candidateKey, epoch, current)
	}

	// Reset the election timeout after voting: the candidate we just
	// voted for has at least as good a chance of winning as we would.
	next := newUnattachedState(
		q.clock,
		epoch,
		nil,
		&candidateKey,
		q.partitionView.LastVoterSet().VoterIDs(),
		current.HighWatermark(),
		q.randomElectionTimeoutMs(),
	)
	if err := q.durableTransitionTo(next); err != nil {
		return err
	}
	q.log.Debugf("voted for candidate %s in epoch %d", candidateKey, epoch)
	return nil
}

// TransitionToFollower makes the replica a follower of an elected leader
// so that it can begin fetching.
func (q *QuorumState) TransitionToFollower(epoch uint32, leaderID int32, endpoints Endpoints) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	current := q.currentState()
	currentEpoch := current.Epoch()

	if endpoints.Empty() {
		return illegalTransitionf(
			"cannot transition to Follower with leader %d and epoch %d without a leader endpoint", leaderID, epoch)
	}
	if q.localID != nil && leaderID == *q.localID {
		return illegalTransitionf(
			"cannot transition to Follower with leader %d and epoch %d since it matches the local id", leaderID, epoch)
	}
	if epoch < currentEpoch {
		return illegalTransitionf(
			"cannot transition to Follower with leader %d and epoch %d since the current epoch %d is larger",
			leaderID, epoch, currentEpoch)
	}
	if epoch == currentEpoch {
		if fs, ok := current.(*followerState); ok && len(fs.leaderEndpoint) >= len(endpoints) {
			return illegalTransitionf(
				"cannot transition to Follower with leader %d, epoch %d and endpoints %v from state %s",
				leaderID, epoch, endpoints, current)
		}
		if q.isLeaderLocked() {
			return illegalTransitionf(
				"cannot transition to Follower with leader %d and epoch %d from state %s", leaderID, epoch, current)
		}
	}

	next := newFollowerState(
		epoch,
		leaderID,
		endpoints,
		q.partitionView.LastVoterSet().VoterIDs(),
		current.HighWatermark(),
		int64(q.fetchTimeoutMs),
	)
	return q.durableTransitionTo(next)
}

// TransitionToCandidate begins a new election. Only voters may do this.
func (q *QuorumState) TransitionToCandidate() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	current := q.currentState()

	if q.isObserverLocked() {
		return illegalTransitionf(
			"cannot transition to Candidate since the local id (%v) and directory id (%s) is not one of the voters",
			q.localID, q.localDirectoryID)
	}
	if q.isLeaderLocked() {
		return illegalTransitionf(
			"cannot transition to Candidate since the local id is already Leader with state %s", current)
	}

	retries := 1
	if cs, ok := current.(*candidateState); ok {
		retries = cs.retryCount() + 1
	}
	newEpoch := current.Epoch() + 1

	next := newCandidateState(
		q.clock,
		ReplicaKey{ID: *q.localID, DirectoryID: q.localDirectoryID},
		newEpoch,
		q.partitionView.LastVoterSet(),
		current.HighWatermark(),
		retries,
		q.randomElectionTimeoutMs(),
	)
	return q.durableTransitionTo(next)
}

// TransitionToLeader promotes a Candidate that has been granted a majority
// of votes. The new Leader does NOT inherit the prior high watermark -
// monotonicity of the published high watermark is restored only once a
// majority of voters acknowledge an offset at or after epochStartOffset.
func (q *QuorumState) TransitionToLeader(epochStartOffset LogOffset, accumulator BatchAccumulator) (*LeaderHandle, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	current := q.currentState()

	if q.isObserverLocked() {
		return nil, illegalTransitionf(
			"cannot transition to Leader since the local id (%v) and directory id (%s) is not one of the voters",
			q.localID, q.localDirectoryID)
	}
	cs, ok := current.(*candidateState)
	if !ok {
		return nil, illegalTransitionf("cannot transition to Leader from current state %s", current)
	}
	if !cs.isVoteGranted() {
		return nil, illegalTransitionf("cannot become leader without majority votes granted")
	}

	next := newLeaderState(
		cs.self,
		cs.epoch,
		epochStartOffset,
		q.partitionView.LastVoterSet(),
		q.partitionView.LastVoterSetOffset(),
		q.partitionView.LastKraftVersion(),
		cs.grantingVoters(),
		accumulator,
		q.localListeners,
		int64(q.fetchTimeoutMs),
	)
	if err := q.durableTransitionTo(next); err != nil {
		return nil, err
	}
	return &LeaderHandle{state: next}, nil
}

// LeaderHandle is returned by TransitionToLeader so the outer engine can
// later acknowledge that a majority of voters have replicated past the
// epoch start offset, restoring high-watermark monotonicity.
type LeaderHandle struct {
	state *leaderState
}

func (h *LeaderHandle) AckMajorityAtEpochStart() {
	h.state.ackMajorityAtEpochStart()
}

// durableTransitionTo writes the new state's election record (together
// with the partition view's active protocol version) to the store before
// publishing the new state. The write must be synchronously durable
// before memoryTransitionTo runs.
func (q *QuorumState) durableTransitionTo(next epochState) error {
	q.log.Infof("attempting durable transition to %s from %s", next, q.currentState())
	if err := q.store.Write(next.Election(), q.partitionView.LastKraftVersion()); err != nil {
		return err
	}
	return q.memoryTransitionTo(next)
}

// memoryTransitionTo closes the outgoing state and publishes the new one.
// A close failure here is unrecoverable: the durable write (if any) has
// already succeeded, so continuing with a stale in-memory view would be
// worse than terminating.
func (q *QuorumState) memoryTransitionTo(next epochState) error {
	prev := q.currentState()
	if prev != nil {
		if err := prev.Close(); err != nil {
			q.log.Fatalf("failed to transition from %s to %s: %v", prev.Name(), next.Name(), err)
		}
	}
	q.state.Store(&stateBox{s: next})
	q.log.Infof("completed transition to %s from %s", next, prev)
	return nil
}
