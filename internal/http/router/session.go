package router

import (
	"github.com/gin-gonic/gin"

	"maturity.app/assessor/internal/http/handler"
)

func SessionRouter(router *gin.RouterGroup, handler *handler.SessionHandler) {
	router.GET("", handler.Get)
	router.PUT("/selections/:dimension/:subDimension", handler.Select)
	router.DELETE("/selections/:dimension/:subDimension", handler.Clear)
	router.POST("/reset", handler.Reset)
	router.POST("/load", handler.Load)
	router.POST("/save", handler.Save)
}
