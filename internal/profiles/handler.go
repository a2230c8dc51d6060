package profiles

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the repo.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches golden-profile routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/jobs/:jobId/golden-profile", h.put)
	rg.GET("/jobs/:jobId/golden-profile", h.get)
}

type putRequest struct {
	Role    string `json:"role"`
	Level   string `json:"level"`
	Skills  string `json:"skills"`
	Summary string `json:"summary"`
}

func (h *Handler) put(c *gin.Context) {
	jobID := strings.TrimSpace(c.Param("jobId"))
	if jobID == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "jobId is required", nil)
		return
	}

	var req putRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	profile := GoldenProfile{
		Role:    strings.TrimSpace(req.Role),
		Level:   strings.TrimSpace(req.Level),
		Skills:  strings.TrimSpace(req.Skills),
		Summary: strings.TrimSpace(req.Summary),
	}
	if profile.Empty() {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "profile must set at least one field", nil)
		return
	}

	if err := h.Repo.Put(c.Request.Context(), jobID, profile); err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeStorage, "failed to store golden profile", nil)
		return
	}
	respond.OK(c, profile)
}

func (h *Handler) get(c *gin.Context) {
	jobID := strings.TrimSpace(c.Param("jobId"))
	if jobID == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "jobId is required", nil)
		return
	}

	profile, err := h.Repo.Get(c.Request.Context(), jobID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "no golden profile for this job", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeStorage, "failed to read golden profile", nil)
		}
		return
	}
	respond.OK(c, profile)
}
