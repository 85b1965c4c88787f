// Package memview is an in-memory quorum.PartitionStateView and
// quorum.VoterSet, settable by tests to exercise voter-set reconfiguration
// scenarios without a real partition control-record state machine.
package memview

import (
	"sync"

	"github.com/krantius/kraft-quorum/quorum"
)

// Voter is one entry of a VoterSet: a replica key plus its advertised
// endpoints.
type Voter struct {
	Key       quorum.ReplicaKey
	Endpoints quorum.Endpoints
}

// VoterSet is a simple map-backed quorum.VoterSet.
type VoterSet struct {
	voters map[int32]Voter
}

func NewVoterSet(voters ...Voter) *VoterSet {
	vs := &VoterSet{voters: make(map[int32]Voter, len(voters))}
	for _, v := range voters {
		vs.voters[v.Key.ID] = v
	}
	return vs
}

func (vs *VoterSet) IsVoter(key quorum.ReplicaKey) bool {
	v, ok := vs.voters[key.ID]
	return ok && v.Key == key
}

func (vs *VoterSet) IsVoterID(id int32) bool {
	_, ok := vs.voters[id]
	return ok
}

func (vs *VoterSet) Endpoints(id int32) quorum.Endpoints {
	v, ok := vs.voters[id]
	if !ok {
		return nil
	}
	return v.Endpoints
}

func (vs *VoterSet) IsOnlyVoter(key quorum.ReplicaKey) bool {
	return len(vs.voters) == 1 && vs.IsVoter(key)
}

func (vs *VoterSet) VoterIDs() map[int32]struct{} {
	ids := make(map[int32]struct{}, len(vs.voters))
	for id := range vs.voters {
		ids[id] = struct{}{}
	}
	return ids
}

// View is a settable quorum.PartitionStateView.
type View struct {
	mu           sync.RWMutex
	voterSet     *VoterSet
	offset       quorum.LogOffset
	kraftVersion int16
}

func New(voterSet *VoterSet) *View {
	return &View{voterSet: voterSet, kraftVersion: 1}
}

func (v *View) LastVoterSet() quorum.VoterSet {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.voterSet
}

func (v *View) LastVoterSetOffset() quorum.LogOffset {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.offset
}

func (v *View) LastKraftVersion() int16 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.kraftVersion
}

// SetVoterSet installs a new voter set, recording the offset it was
// established at - used by tests to simulate a reconfiguration.
func (v *View) SetVoterSet(voterSet *VoterSet, offset quorum.LogOffset) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.voterSet = voterSet
	v.offset = offset
}

func (v *View) SetKraftVersion(version int16) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.kraftVersion = version
}
