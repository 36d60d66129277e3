package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"maturity.app/assessor/internal/model"
	"maturity.app/assessor/internal/service"
	"maturity.app/assessor/internal/store"
)

// respondError maps the error taxonomy onto status codes. Anything not
// recognised is a 500 and is logged.
func respondError(c *gin.Context, err error, action string) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot found"})
	case errors.Is(err, model.ErrInvalidSelection):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrCorruptSnapshot):
		slog.ErrorContext(ctx, "stored snapshot unreadable", "action", action, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stored snapshot unreadable"})
	case errors.Is(err, model.ErrSerialization):
		slog.WarnContext(ctx, "unreadable selection", "action", action, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidCatalog):
		slog.ErrorContext(ctx, "catalog rejected", "action", action, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPersistenceFailure):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to " + action})
	default:
		slog.ErrorContext(ctx, "request failed", "action", action, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
	}
}
