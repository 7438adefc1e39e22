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

// EditHandler exposes schedule mutations over HTTP.
type EditHandler struct {
	editor  *service.EditorService
	metrics *service.Metrics
	log     *zap.Logger
}

// NewEditHandler constructs the handler.
func NewEditHandler(editor *service.EditorService, metrics *service.Metrics, log *zap.Logger) *EditHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &EditHandler{editor: editor, metrics: metrics, log: log}
}

// Apply handles POST /schedule/edit. Domain rejections come back as 200 with
// success=false; only malformed input and catalog outages become HTTP errors.
func (h *EditHandler) Apply(c *gin.Context) {
	var req dto.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, err.Error()))
		return
	}

	resp, err := h.editor.Apply(c.Request.Context(), req)
	h.metrics.ObserveEdit(req.Operation.Type, err)
	if err != nil {
		h.log.Warn("edit failed", zap.String("type", req.Operation.Type), zap.Error(err))
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, resp)
}
