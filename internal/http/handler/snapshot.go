package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maturity.app/assessor/internal/http/dto"
	"maturity.app/assessor/internal/model"
	"maturity.app/assessor/internal/service"
)

type SnapshotHandler struct {
	snapshots service.SnapshotService
}

func NewSnapshotHandler(snapshots service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots}
}

// Create appends the posted selection as a new snapshot.
func (h *SnapshotHandler) Create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sel, err := model.DecodeSelection(body)
	if err != nil {
		respondError(c, err, "save snapshot")
		return
	}

	rec, err := h.snapshots.Save(c.Request.Context(), sel)
	if err != nil {
		respondError(c, err, "save snapshot")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSnapshotResponse(rec))
}

func (h *SnapshotHandler) List(c *gin.Context) {
	recs, err := h.snapshots.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "list snapshots")
		return
	}
	c.JSON(http.StatusOK, dto.ToSnapshotResponses(recs))
}

func (h *SnapshotHandler) Latest(c *gin.Context) {
	rec, err := h.snapshots.Latest(c.Request.Context())
	if err != nil {
		respondError(c, err, "fetch latest snapshot")
		return
	}
	c.JSON(http.StatusOK, dto.ToSnapshotResponse(rec))
}

func (h *SnapshotHandler) Clear(c *gin.Context) {
	if err := h.snapshots.Clear(c.Request.Context()); err != nil {
		respondError(c, err, "clear snapshots")
		return
	}
	c.Status(http.StatusNoContent)
}
