package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bruintracks/bruintracks-go/internal/middleware"
	"github.com/bruintracks/bruintracks-go/pkg/config"
	"github.com/bruintracks/bruintracks-go/pkg/logger"
	pkgMiddleware "github.com/bruintracks/bruintracks-go/pkg/middleware"
	"github.com/bruintracks/bruintracks-go/pkg/middleware/requestid"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Plan    *PlanHandler
	Edit    *EditHandler
	Breadth *BreadthHandler
	Export  *ExportHandler
	Metrics *middleware.HTTPMetrics
}

// NewRouter assembles the gin engine with the standard middleware chain.
func NewRouter(cfg *config.Config, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(logger.GinMiddleware(log))
	router.Use(pkgMiddleware.CORS(cfg.CORS.AllowedOrigins))
	if h.Metrics != nil {
		router.Use(h.Metrics.Middleware())
		router.GET("/metrics", h.Metrics.Handler())
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group(cfg.APIPrefix)
	{
		api.POST("/plans", h.Plan.Create)
		api.POST("/schedule/edit", h.Edit.Apply)
		api.POST("/schedule/export/csv", h.Export.CSV)
		api.POST("/schedule/export/pdf", h.Export.PDF)
		api.POST("/breadth/recommendations", h.Breadth.Recommend)
	}

	return router
}
