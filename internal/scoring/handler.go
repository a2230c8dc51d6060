package scoring

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/analysis"
	"recruit-backend/internal/profiles"
	"recruit-backend/internal/shared/server/respond"
)

// Handler wires the compatibility endpoint to its collaborators.
type Handler struct {
	Svc      *Service
	Profiles profiles.Repo
	Analyses *analysis.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, profileRepo profiles.Repo, analyses *analysis.Service) *Handler {
	return &Handler{Svc: svc, Profiles: profileRepo, Analyses: analyses}
}

// RegisterRoutes attaches scoring routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs/:jobId/applications/:applicationId/compatibility", h.compatibility)
}

// compatibility scores a cached analysis against the job's golden profile.
// Missing prerequisites surface as 404s; the scoring itself never fails.
func (h *Handler) compatibility(c *gin.Context) {
	jobID := strings.TrimSpace(c.Param("jobId"))
	applicationID := strings.TrimSpace(c.Param("applicationId"))
	if jobID == "" || applicationID == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "jobId and applicationId are required", nil)
		return
	}

	golden, err := h.Profiles.Get(c.Request.Context(), jobID)
	if err != nil {
		switch {
		case errors.Is(err, profiles.ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "no golden profile configured for this job", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeStorage, "failed to read golden profile", nil)
		}
		return
	}

	rec, err := h.Analyses.Get(c.Request.Context(), applicationID)
	if err != nil {
		switch {
		case errors.Is(err, analysis.ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "no analysis for this application", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeStorage, "failed to read analysis", nil)
		}
		return
	}

	score := h.Svc.Score(c.Request.Context(), golden, rec.Result)
	respond.OK(c, gin.H{
		"jobId":         jobID,
		"applicationId": applicationID,
		"score":         score,
	})
}
