package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maturity.app/assessor/internal/catalog"
	"maturity.app/assessor/internal/model"
	"maturity.app/assessor/internal/service"
)

type CatalogHandler struct {
	assessment service.AssessmentService
}

func NewCatalogHandler(assessment service.AssessmentService) *CatalogHandler {
	return &CatalogHandler{assessment: assessment}
}

func (h *CatalogHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.assessment.Catalog())
}

func (h *CatalogHandler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Schema())
}

// Aggregates recomputes progress and the overall score for a posted
// selection without touching the session or the store.
func (h *CatalogHandler) Aggregates(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sel, err := model.DecodeSelection(body)
	if err != nil {
		respondError(c, err, "compute aggregates")
		return
	}

	agg, err := h.assessment.Aggregates(sel)
	if err != nil {
		respondError(c, err, "compute aggregates")
		return
	}
	c.JSON(http.StatusOK, agg)
}
