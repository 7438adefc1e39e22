package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bruintracks/bruintracks-go/internal/models"
	"github.com/bruintracks/bruintracks-go/internal/service"
	appErrors "github.com/bruintracks/bruintracks-go/pkg/errors"
	"github.com/bruintracks/bruintracks-go/pkg/response"
)

// ExportHandler renders schedules as downloadable files.
type ExportHandler struct {
	exporter *service.ExportService
	log      *zap.Logger
}

// NewExportHandler constructs the handler.
func NewExportHandler(exporter *service.ExportService, log *zap.Logger) *ExportHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportHandler{exporter: exporter, log: log}
}

type exportRequest struct {
	Schedule *models.Schedule `json:"schedule"`
	Title    string           `json:"title"`
}

// CSV handles POST /schedule/export/csv.
func (h *ExportHandler) CSV(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, err.Error()))
		return
	}

	data, err := h.exporter.RenderCSV(req.Schedule)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="schedule.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// PDF handles POST /schedule/export/pdf.
func (h *ExportHandler) PDF(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, err.Error()))
		return
	}

	title := req.Title
	if title == "" {
		title = "Degree Plan"
	}
	data, err := h.exporter.RenderPDF(req.Schedule, title)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="schedule.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
