package router

import (
	"github.com/gin-gonic/gin"

	"maturity.app/assessor/internal/http/handler"
)

// LegacyRouter mounts the un-versioned routes of the first front end.
func LegacyRouter(router *gin.RouterGroup, handler *handler.LegacyHandler) {
	router.POST("/save-state", handler.SaveState)
	router.GET("/load-state", handler.LoadState)
	router.GET("/state-files", handler.StateFiles)
	router.POST("/reset-state", handler.ResetState)
}
