// Package quorum implements the quorum state manager: the component that
// owns a replica's role in its epoch and enforces the legal transitions
// between roles.
package quorum

import (
	"fmt"

	"github.com/google/uuid"
)

// ReplicaKey identifies a replica's storage incarnation. Two votes for the
// same ID but different DirectoryID are votes for different replicas -
// this is how post-reformat replicas are distinguished from their
// predecessors.
type ReplicaKey struct {
	ID          int32
	DirectoryID uuid.UUID
}

func (k ReplicaKey) String() string {
	return fmt.Sprintf("ReplicaKey(id=%d, directoryId=%s)", k.ID, k.DirectoryID)
}

// Endpoint is a single advertised listener for a replica.
type Endpoint struct {
	Listener string
	Host     string
	Port     uint16
}

// Endpoints is the set of advertised listeners for a replica.
type Endpoints []Endpoint

func (e Endpoints) Size() int {
	return len(e)
}

func (e Endpoints) Empty() bool {
	return len(e) == 0
}

// LogOffset identifies a position in the replicated log.
type LogOffset uint64

// OffsetAndEpoch is a position in the log tagged with the epoch that wrote
// it. It is the shape of the log-end marker consumed by Initialize; the
// high watermark exposed by role states is a LogOffsetMetadata instead.
type OffsetAndEpoch struct {
	Offset LogOffset
	Epoch  uint32
}

// LogOffsetMetadata is the high watermark carried by role states. It is
// intentionally a thin wrapper - the state machine only ever forwards it,
// never inspects it.
type LogOffsetMetadata struct {
	Offset LogOffset
}

// VoterSet is the authoritative set of replica keys currently eligible to
// vote, established by a control record in the log. It is an external
// collaborator: the quorum state manager only ever queries it, it never
// constructs or mutates one.
type VoterSet interface {
	IsVoter(key ReplicaKey) bool
	IsVoterID(id int32) bool
	Endpoints(id int32) Endpoints
	IsOnlyVoter(key ReplicaKey) bool
	VoterIDs() map[int32]struct{}
}
