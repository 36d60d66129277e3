package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"maturity.app/assessor/internal/http/handler"
	"maturity.app/assessor/internal/service"
)

type RouterConfig struct {
	MetricsEnabled bool
	Backend        string
}

func SetupRoutes(router *gin.Engine, services *service.Services, session handler.AssessmentSession, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "backend": cfg.Backend, "policy": services.Engine().Policy().Name()})
	})

	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	snapshotHandler := handler.NewSnapshotHandler(services.Snapshots())

	v1 := router.Group("/api/v1")
	{
		catalogHandler := handler.NewCatalogHandler(services.Assessment())
		CatalogRouter(v1.Group("/catalog"), catalogHandler)
		v1.POST("/aggregates", catalogHandler.Aggregates)

		SessionRouter(v1.Group("/session"), handler.NewSessionHandler(session))
		SnapshotRouter(v1.Group("/snapshots"), snapshotHandler)

		v1.GET("/trend", handler.NewTrendHandler(services.Trend()).Get)
		v1.GET("/report", handler.NewReportHandler(services.Reports()).Get)
	}

	LegacyRouter(router.Group(""), handler.NewLegacyHandler(services.Snapshots()))
}
