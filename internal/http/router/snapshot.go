package router

import (
	"github.com/gin-gonic/gin"

	"maturity.app/assessor/internal/http/handler"
)

func SnapshotRouter(router *gin.RouterGroup, handler *handler.SnapshotHandler) {
	router.POST("", handler.Create)
	router.GET("", handler.List)
	router.GET("/latest", handler.Latest)
	router.DELETE("", handler.Clear)
}
