package quorum

import (
	"encoding/json"
	"net/http"
)

// statusView is the JSON shape served by StatusHandler.
type statusView struct {
	Epoch           uint32 `json:"epoch"`
	Role            string `json:"role"`
	LeaderID        *int32 `json:"leader_id,omitempty"`
	HasRemoteLeader bool   `json:"has_remote_leader"`
	HighWatermark   *uint64 `json:"high_watermark,omitempty"`
}

// StatusHandler returns an http.HandlerFunc that snapshots the manager's
// current role through its immutable accessors and serializes it as JSON.
// It never calls a mutating method, so it is safe to invoke concurrently
// with the event-loop goroutine driving transitions.
func (q *QuorumState) StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := statusView{
			Epoch:           q.Epoch(),
			Role:            string(q.currentState().Name()),
			LeaderID:        q.LeaderID(),
			HasRemoteLeader: q.HasRemoteLeader(),
		}
		if hwm := q.HighWatermark(); hwm != nil {
			offset := uint64(hwm.Offset)
			view.HighWatermark = &offset
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(view)
	}
}
