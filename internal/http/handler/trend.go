package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maturity.app/assessor/internal/service"
)

type TrendHandler struct {
	trend service.TrendService
}

func NewTrendHandler(trend service.TrendService) *TrendHandler {
	return &TrendHandler{trend: trend}
}

func (h *TrendHandler) Get(c *gin.Context) {
	series, err := h.trend.Series(c.Request.Context())
	if err != nil {
		respondError(c, err, "build trend")
		return
	}
	c.JSON(http.StatusOK, series)
}
