package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"maturity.app/assessor/internal/http/dto"
	"maturity.app/assessor/internal/model"
	"maturity.app/assessor/internal/service"
)

// LegacyHandler serves the original un-versioned state routes used by older
// front ends.
type LegacyHandler struct {
	snapshots service.SnapshotService
}

func NewLegacyHandler(snapshots service.SnapshotService) *LegacyHandler {
	return &LegacyHandler{snapshots: snapshots}
}

func (h *LegacyHandler) SaveState(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LegacySaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sel, err := model.DecodeSelection(req.SelectionBytes())
	if err != nil {
		respondError(c, err, "save state")
		return
	}

	rec, err := h.snapshots.Save(ctx, sel)
	if err != nil {
		respondError(c, err, "save state")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "State saved successfully", ID: &rec.ID})
}

// LoadState returns the latest stored selection in its serialized form, or
// 404 when nothing was saved.
func (h *LegacyHandler) LoadState(c *gin.Context) {
	rec, err := h.snapshots.Latest(c.Request.Context())
	if err != nil {
		respondError(c, err, "load state")
		return
	}
	if !json.Valid([]byte(rec.State)) {
		slog.ErrorContext(c.Request.Context(), "latest state is not valid json", "snapshot_id", rec.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stored state is unreadable"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(rec.State))
}

func (h *LegacyHandler) StateFiles(c *gin.Context) {
	recs, err := h.snapshots.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "list states")
		return
	}
	c.JSON(http.StatusOK, dto.ToLegacyStateRows(recs))
}

func (h *LegacyHandler) ResetState(c *gin.Context) {
	if err := h.snapshots.Clear(c.Request.Context()); err != nil {
		respondError(c, err, "reset state")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "State reset successfully"})
}
