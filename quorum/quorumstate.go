package quorum

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/krantius/kraft-quorum/shared/logging"
)

// stateBox lets the active role state - an interface value - be published
// through an atomic.Pointer, which requires a concrete type.
type stateBox struct {
	s epochState
}

// VersionRange is the protocol version range a replica can speak.
type VersionRange struct {
	Min int16
	Max int16
}

// Config carries the construction-time settings for a QuorumState.
type Config struct {
	LocalID                    *int32 // nil means observer-only
	LocalDirectoryID           uuid.UUID
	LocalListeners             Endpoints
	LocalSupportedKRaftVersion VersionRange
	ElectionTimeoutMs          int
	FetchTimeoutMs             int
}

// QuorumState owns the single active role state for this replica. It
// validates every transition, persists the ones that must survive a crash,
// and exposes typed accessors to the rest of the engine. Exactly one role
// variant is active at a time; the outgoing variant is always Close()d
// before the next becomes visible to readers.
type QuorumState struct {
	localID                    *int32
	localDirectoryID           uuid.UUID
	localListeners             Endpoints
	localSupportedKRaftVersion VersionRange

	electionTimeoutMs int
	fetchTimeoutMs    int

	store         ElectionStateStore
	partitionView PartitionStateView
	clock         Clock
	rnd           Randomizer
	log           *logging.Logger

	// mu guards every mutating method. The manager is meant to be driven
	// by a single event-loop goroutine, but this mutex makes misuse safe
	// rather than racy.
	mu sync.Mutex

	state atomic.Pointer[stateBox]
}

// New constructs a QuorumState. It does not read the store or pick an
// initial role - call Initialize for that.
func New(cfg Config, store ElectionStateStore, partitionView PartitionStateView, clock Clock, rnd Randomizer, log *logging.Logger) *QuorumState {
	return &QuorumState{
		localID:                    cfg.LocalID,
		localDirectoryID:           cfg.LocalDirectoryID,
		localListeners:             cfg.LocalListeners,
		localSupportedKRaftVersion: cfg.LocalSupportedKRaftVersion,
		electionTimeoutMs:          cfg.ElectionTimeoutMs,
		fetchTimeoutMs:             cfg.FetchTimeoutMs,
		store:                      store,
		partitionView:              partitionView,
		clock:                      clock,
		rnd:                        rnd,
		log:                        log,
	}
}

func (q *QuorumState) currentState() epochState {
	box := q.state.Load()
	if box == nil {
		return nil
	}
	return box.s
}

func (q *QuorumState) readElectionState() (ElectionState, error) {
	stored, ok, err := q.store.Read()
	if err != nil {
		return ElectionState{}, err
	}
	if !ok {
		return WithUnknownLeader(0, q.partitionView.LastVoterSet().VoterIDs()), nil
	}
	return stored, nil
}

// Initialize reads the durable election state and selects the replica's
// starting role by applying a fixed sequence of reconciliation rules, in
// order. logEndOffsetAndEpoch is the local log's last known (offset,
// epoch), used to detect durability skew between the quorum file and the
// log after a crash.
func (q *QuorumState) Initialize(logEndOffsetAndEpoch OffsetAndEpoch) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	election, err := q.readElectionState()
	if err != nil {
		return err
	}

	var initial epochState

	switch {
	case election.HasVoted() && q.localID == nil:
		return illegalInitStatef(
			"initialized quorum state (%s) with a voted candidate but without a local id", election)

	case election.Epoch < logEndOffsetAndEpoch.Epoch:
		q.log.Warningf(
			"epoch from quorum store (%s) is %d, which is smaller than the last written epoch %d in the log",
			q.store.Path(), election.Epoch, logEndOffsetAndEpoch.Epoch)
		initial = newUnattachedState(
			q.clock,
			logEndOffsetAndEpoch.Epoch,
			nil,
			nil,
			q.partitionView.LastVoterSet().VoterIDs(),
			nil,
			q.randomElectionTimeoutMs(),
		)

	case q.localID != nil && election.IsLeader(*q.localID):
		initial = newResignedState(
			q.clock,
			*q.localID,
			election.Epoch,
			q.partitionView.LastVoterSet().VoterIDs(),
			q.randomElectionTimeoutMs(),
			nil,
			q.localListeners,
		)

	case q.localID != nil && election.IsVotedCandidate(ReplicaKey{ID: *q.localID, DirectoryID: q.localDirectoryID}):
		initial = newCandidateState(
			q.clock,
			ReplicaKey{ID: *q.localID, DirectoryID: q.localDirectoryID},
			election.Epoch,
			q.partitionView.LastVoterSet(),
			nil,
			1,
			q.randomElectionTimeoutMs(),
		)

	case election.HasVoted():
		initial = newUnattachedState(
			q.clock,
			election.Epoch,
			nil,
			election.VotedKey,
			q.partitionView.LastVoterSet().VoterIDs(),
			nil,
			q.randomElectionTimeoutMs(),
		)

	case election.HasLeader():
		voters := q.partitionView.LastVoterSet()
		leaderEndpoints := voters.Endpoints(*election.LeaderID)
		if leaderEndpoints.Empty() {
			q.log.Infof(
				"the leader in election state %s is not a member of the latest voter set; "+
					"transitioning to unattached instead of follower because the leader's "+
					"endpoints are not known", election)
			leaderID := *election.LeaderID
			initial = newUnattachedState(
				q.clock,
				election.Epoch,
				&leaderID,
				nil,
				q.partitionView.LastVoterSet().VoterIDs(),
				nil,
				q.randomElectionTimeoutMs(),
			)
		} else {
			initial = newFollowerState(
				election.Epoch,
				*election.LeaderID,
				leaderEndpoints,
				voters.VoterIDs(),
				nil,
				int64(q.fetchTimeoutMs),
			)
		}

	default:
		initial = newUnattachedState(
			q.clock,
			election.Epoch,
			nil,
			nil,
			q.partitionView.LastVoterSet().VoterIDs(),
			nil,
			q.randomElectionTimeoutMs(),
		)
	}

	return q.durableTransitionTo(initial)
}

func (q *QuorumState) randomElectionTimeoutMs() int64 {
	return randomElectionTimeoutMs(q.electionTimeoutMs, q.rnd)
}
