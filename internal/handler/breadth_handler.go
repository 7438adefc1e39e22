package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bruintracks/bruintracks-go/internal/dto"
	"github.com/bruintracks/bruintracks-go/internal/service"
	appErrors "github.com/bruintracks/bruintracks-go/pkg/errors"
	"github.com/bruintracks/bruintracks-go/pkg/response"
)

// BreadthHandler exposes breadth recommendations over HTTP.
type BreadthHandler struct {
	breadth *service.BreadthService
	metrics *service.Metrics
	log     *zap.Logger
}

// NewBreadthHandler constructs the handler.
func NewBreadthHandler(breadth *service.BreadthService, metrics *service.Metrics, log *zap.Logger) *BreadthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BreadthHandler{breadth: breadth, metrics: metrics, log: log}
}

// Recommend handles POST /breadth/recommendations.
func (h *BreadthHandler) Recommend(c *gin.Context) {
	var req dto.BreadthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, err.Error()))
		return
	}

	resp, err := h.breadth.Recommend(c.Request.Context(), req)
	h.metrics.ObserveBreadth(err)
	if err != nil {
		h.log.Warn("breadth request failed",
			zap.String("area", req.TechBreadthArea), zap.Error(err))
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, resp)
}
