package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc    *Service
	Worker *queue.Worker
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, worker *queue.Worker) *Handler {
	return &Handler{Svc: svc, Worker: worker}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications/:applicationId/analysis", h.analyze)
	rg.GET("/applications/:applicationId/analysis", h.get)
}

// analyze accepts a CV upload and runs the pipeline. With async=true the
// work is queued and 202 is returned; otherwise the caller waits for the
// record.
func (h *Handler) analyze(c *gin.Context) {
	applicationID := strings.TrimSpace(c.Param("applicationId"))
	if applicationID == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "applicationId is required", nil)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read file", nil)
		return
	}

	force := c.Query("force") == "true"
	async := c.Query("async") != "false"

	if async && h.Worker != nil {
		fileName := fileHeader.Filename
		err := h.Worker.Enqueue(queue.Job{
			Label: fmt.Sprintf("analyze application=%s", applicationID),
			Run: func(ctx context.Context) error {
				_, err := h.Svc.Analyze(ctx, applicationID, data, fileName, force)
				return err
			},
		})
		if err != nil {
			respond.Error(c, http.StatusServiceUnavailable, respond.CodeInternal, "analysis queue unavailable", nil)
			return
		}
		respond.Accepted(c, gin.H{"applicationId": applicationID, "status": "queued"})
		return
	}

	rec, err := h.Svc.Analyze(c.Request.Context(), applicationID, data, fileHeader.Filename, force)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to analyze application", nil)
		return
	}
	respond.OK(c, rec)
}

// get returns the cached analysis without recomputing.
func (h *Handler) get(c *gin.Context) {
	applicationID := strings.TrimSpace(c.Param("applicationId"))
	if applicationID == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "applicationId is required", nil)
		return
	}

	rec, err := h.Svc.Get(c.Request.Context(), applicationID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "no analysis for this application", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeStorage, "failed to read analysis", nil)
		}
		return
	}
	respond.OK(c, rec)
}
