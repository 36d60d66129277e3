package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"maturity.app/assessor/internal/http/dto"
	"maturity.app/assessor/internal/report"
	"maturity.app/assessor/internal/service"
)

type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Get renders the gap report for the latest snapshot as JSON (default),
// Markdown or HTML.
func (h *ReportHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	var q dto.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep, err := h.reports.Latest(ctx, report.Options{IncludeDetails: q.Details})
	if err != nil {
		respondError(c, err, "build report")
		return
	}

	switch q.Format {
	case dto.ReportFormatMarkdown:
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(rep.Markdown()))
	case dto.ReportFormatHTML:
		page, err := rep.HTML()
		if err != nil {
			slog.ErrorContext(ctx, "failed to render report html", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	default:
		c.JSON(http.StatusOK, rep)
	}
}
