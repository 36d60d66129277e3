package dto

import (
	"encoding/json"

	"maturity.app/assessor/internal/model"
)

type SnapshotResponse struct {
	ID           int64            `json:"id,string"`
	Timestamp    string           `json:"timestamp"`
	Selection    *model.Selection `json:"selection,omitempty"`
	State        string           `json:"state,omitempty"`
	DerivedScore *float64         `json:"derived_score,omitempty"`
}

// ToSnapshotResponse decodes the stored state when it parses. A record that
// does not parse is returned with its raw state so it can still be inspected.
func ToSnapshotResponse(s *model.Snapshot) *SnapshotResponse {
	resp := &SnapshotResponse{
		ID:           s.ID,
		Timestamp:    s.Timestamp,
		DerivedScore: s.DerivedScore,
	}
	if sel, err := s.Selection(); err == nil {
		resp.Selection = &sel
	} else {
		resp.State = s.State
	}
	return resp
}

func ToSnapshotResponses(snaps []model.Snapshot) []*SnapshotResponse {
	out := make([]*SnapshotResponse, 0, len(snaps))
	for i := range snaps {
		out = append(out, ToSnapshotResponse(&snaps[i]))
	}
	return out
}

// LegacySaveRequest is the body of POST /save-state. State is either the
// serialized selection as a JSON string or the object itself.
type LegacySaveRequest struct {
	Filename string          `json:"filename,omitempty"`
	State    json.RawMessage `json:"state" binding:"required"`
}

// SelectionBytes unwraps a string-encoded state.
func (r LegacySaveRequest) SelectionBytes() []byte {
	var text string
	if err := json.Unmarshal(r.State, &text); err == nil {
		return []byte(text)
	}
	return r.State
}

// LegacyStateRow mirrors a model_states row as GET /state-files returns it.
// IDs are strings because snowflake keys exceed the JSON number range browsers
// represent exactly.
type LegacyStateRow struct {
	ID           int64    `json:"id,string"`
	Timestamp    string   `json:"timestamp"`
	State        string   `json:"state"`
	DerivedScore *float64 `json:"derived_score,omitempty"`
}

func ToLegacyStateRows(snaps []model.Snapshot) []LegacyStateRow {
	out := make([]LegacyStateRow, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, LegacyStateRow{
			ID:           s.ID,
			Timestamp:    s.Timestamp,
			State:        s.State,
			DerivedScore: s.DerivedScore,
		})
	}
	return out
}

type MessageResponse struct {
	Message string `json:"message"`
	ID      *int64 `json:"id,omitempty,string"`
}
