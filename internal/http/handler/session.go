package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"maturity.app/assessor/internal/http/dto"
	"maturity.app/assessor/internal/model"
	"maturity.app/assessor/internal/session"
)

// AssessmentSession is the in-progress assessment the session routes drive.
type AssessmentSession interface {
	State() (session.State, error)
	Select(dim, sub, level int) (session.State, error)
	Clear(dim, sub int) (session.State, error)
	Reset() (session.State, error)
	Load(ctx context.Context) (session.State, error)
	Save(ctx context.Context) (*model.Snapshot, session.State, error)
}

type SessionHandler struct {
	session AssessmentSession
}

func NewSessionHandler(s AssessmentSession) *SessionHandler {
	return &SessionHandler{session: s}
}

func (h *SessionHandler) Get(c *gin.Context) {
	st, err := h.session.State()
	if err != nil {
		respondError(c, err, "read session")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(st))
}

func (h *SessionHandler) Select(c *gin.Context) {
	dim, sub, ok := parseSubDimension(c)
	if !ok {
		return
	}

	var req dto.SelectLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(c.Request.Context(), "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st, err := h.session.Select(dim, sub, req.Level)
	if err != nil {
		respondError(c, err, "select level")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(st))
}

func (h *SessionHandler) Clear(c *gin.Context) {
	dim, sub, ok := parseSubDimension(c)
	if !ok {
		return
	}

	st, err := h.session.Clear(dim, sub)
	if err != nil {
		respondError(c, err, "clear selection")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(st))
}

func (h *SessionHandler) Reset(c *gin.Context) {
	st, err := h.session.Reset()
	if err != nil {
		respondError(c, err, "reset session")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(st))
}

func (h *SessionHandler) Load(c *gin.Context) {
	st, err := h.session.Load(c.Request.Context())
	if err != nil {
		respondError(c, err, "load session")
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(st))
}

func (h *SessionHandler) Save(c *gin.Context) {
	rec, st, err := h.session.Save(c.Request.Context())
	if err != nil {
		respondError(c, err, "save session")
		return
	}
	c.JSON(http.StatusCreated, dto.SaveSessionResponse{
		Snapshot: dto.ToSnapshotResponse(rec),
		Session:  dto.ToSessionResponse(st),
	})
}

func parseSubDimension(c *gin.Context) (int, int, bool) {
	dim, err := strconv.Atoi(c.Param("dimension"))
	if err != nil || dim < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dimension must be a non-negative integer"})
		return 0, 0, false
	}
	sub, err := strconv.Atoi(c.Param("subDimension"))
	if err != nil || sub < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subDimension must be a non-negative integer"})
		return 0, 0, false
	}
	return dim, sub, true
}
