package dto

import (
	"maturity.app/assessor/internal/maturity"
	"maturity.app/assessor/internal/model"
	"maturity.app/assessor/internal/session"
)

type SelectLevelRequest struct {
	Level int `json:"level" binding:"required,min=1"`
}

type SessionResponse struct {
	Selection  model.Selection     `json:"selection"`
	Aggregates maturity.Aggregates `json:"aggregates"`
	LoadedFrom *int64              `json:"loaded_from,omitempty,string"`
}

func ToSessionResponse(st session.State) *SessionResponse {
	return &SessionResponse{
		Selection:  st.Selection,
		Aggregates: st.Aggregates,
		LoadedFrom: st.LoadedFrom,
	}
}

type SaveSessionResponse struct {
	Snapshot *SnapshotResponse `json:"snapshot"`
	Session  *SessionResponse  `json:"session"`
}
