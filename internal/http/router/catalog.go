package router

import (
	"github.com/gin-gonic/gin"

	"maturity.app/assessor/internal/http/handler"
)

func CatalogRouter(router *gin.RouterGroup, handler *handler.CatalogHandler) {
	router.GET("", handler.Get)
	router.GET("/schema", handler.Schema)
}
