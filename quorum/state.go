package quorum

// RoleName tags a role state for diagnostics.
type RoleName string

const (
	RoleUnattached RoleName = "unattached"
	RoleCandidate  RoleName = "candidate"
	RoleLeader     RoleName = "leader"
	RoleFollower   RoleName = "follower"
	RoleResigned   RoleName = "resigned"
)

// epochState is the common contract every role state satisfies. The five
// role types (unattachedState, candidateState, leaderState, followerState,
// resignedState) form a closed set - Go has no sum type, so a type switch
// on this interface stands in for pattern matching on a tagged variant.
type epochState interface {
	Epoch() uint32
	Election() ElectionState
	LeaderEndpoints() Endpoints
	HighWatermark() *LogOffsetMetadata
	CanGrantVote(candidateKey ReplicaKey, isLogUpToDate bool) bool
	Close() error
	Name() RoleName
	String() string
}

// BatchAccumulator is the opaque collaborator a Leader carries. Its
// batching mechanics are out of scope for the quorum state manager; only
// enough of its lifecycle is modeled here for LeaderState to release it on
// close.
type BatchAccumulator interface {
	Close() error
}
