package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bruintracks/bruintracks-go/internal/dto"
	"github.com/bruintracks/bruintracks-go/internal/service"
	appErrors "github.com/bruintracks/bruintracks-go/pkg/errors"
	"github.com/bruintracks/bruintracks-go/pkg/response"
)

// PlanHandler exposes the planner over HTTP.
type PlanHandler struct {
	planner *service.PlannerService
	metrics *service.Metrics
	log     *zap.Logger
}

// NewPlanHandler constructs the handler. metrics and log may be nil.
func NewPlanHandler(planner *service.PlannerService, metrics *service.Metrics, log *zap.Logger) *PlanHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlanHandler{planner: planner, metrics: metrics, log: log}
}

// Create handles POST /plans.
func (h *PlanHandler) Create(c *gin.Context) {
	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, err.Error()))
		return
	}

	start := time.Now()
	resp, err := h.planner.Plan(c.Request.Context(), req)
	h.metrics.ObservePlan(start, err)
	if err != nil {
		h.log.Warn("planning failed", zap.Error(err))
		response.Error(c, err)
		return
	}

	response.JSONWithMeta(c, http.StatusOK, resp, gin.H{"plan_id": resp.PlanID})
}
