package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupProfilesRouter(repo Repo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	NewHandler(repo).RegisterRoutes(api)
	return router
}

func TestPutAndGetGoldenProfile(t *testing.T) {
	router := setupProfilesRouter(NewMemoryRepo())

	body := `{"role":"backend developer","level":"senior","skills":"go, postgresql","summary":"Payments team"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/jobs/job-1/golden-profile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-1/golden-profile", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status %d: %s", rec.Code, rec.Body.String())
	}

	var profile GoldenProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if profile.Role != "backend developer" || profile.Skills != "go, postgresql" {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if profile.UpdatedAt.IsZero() {
		t.Fatalf("expected UpdatedAt to be stamped on write")
	}
}

func TestPutGoldenProfileRejectsEmptyBody(t *testing.T) {
	router := setupProfilesRouter(NewMemoryRepo())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/jobs/job-1/golden-profile", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty profile, got %d", rec.Code)
	}
}

func TestPutGoldenProfileRejectsMalformedJSON(t *testing.T) {
	router := setupProfilesRouter(NewMemoryRepo())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/jobs/job-1/golden-profile", strings.NewReader(`{broken`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestGetGoldenProfileNotFound(t *testing.T) {
	router := setupProfilesRouter(NewMemoryRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/nope/golden-profile", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

type failingRepo struct{}

func (failingRepo) Get(context.Context, string) (GoldenProfile, error) {
	return GoldenProfile{}, errors.New("db down")
}

func (failingRepo) Put(context.Context, string, GoldenProfile) error {
	return errors.New("db down")
}

func TestGoldenProfileStorageErrors(t *testing.T) {
	router := setupProfilesRouter(failingRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-1/golden-profile", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on repo failure, got %d", rec.Code)
	}
}
