package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"recruit-backend/internal/llm"
	"recruit-backend/internal/shared/storage/object/local"
)

type stubProvider struct {
	name  string
	raw   string
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) ChatJSON(_ context.Context, _ string) (json.RawMessage, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.raw), nil
}

const providerPayload = `{
  "summary": "Experienced backend engineer.",
  "key_skills": ["Go", "PostgreSQL", "Docker"],
  "total_experience_years": 6,
  "seniority": "senior",
  "top_roles": ["backend developer"],
  "education": [],
  "languages": ["English"],
  "notable_projects": [],
  "risks": []
}`

const cvText = `Jan Kowalski
Senior Backend Developer
6 years of experience with Go, PostgreSQL and Docker.`

func newTestService(chain *llm.Chain, dir string) *Service {
	store := local.New(dir)
	return &Service{
		Cache:  NewObjectCache(store),
		Chain:  chain,
		Store:  store,
		Models: map[string]string{"openai": "gpt-4o-mini"},
	}
}

func TestAnalyzeProviderPath(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{name: "openai", raw: providerPayload}
	svc := newTestService(llm.NewChain(provider), t.TempDir())

	rec, err := svc.Analyze(ctx, "app-1", []byte(cvText), "cv.txt", false)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if rec.Outcome != OutcomeProvider {
		t.Fatalf("expected provider outcome, got %q", rec.Outcome)
	}
	if rec.Provider != "openai" || rec.Model != "gpt-4o-mini" {
		t.Fatalf("expected provider attribution, got %q/%q", rec.Provider, rec.Model)
	}
	if rec.Result.Seniority != SenioritySenior || len(rec.Result.KeySkills) != 3 {
		t.Fatalf("unexpected result %+v", rec.Result)
	}
}

func TestAnalyzeSecondCallHitsCache(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{name: "openai", raw: providerPayload}
	svc := newTestService(llm.NewChain(provider), t.TempDir())

	if _, err := svc.Analyze(ctx, "app-1", []byte(cvText), "cv.txt", false); err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	rec, err := svc.Analyze(ctx, "app-1", []byte(cvText), "cv.txt", false)
	if err != nil {
		t.Fatalf("second analyze: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected the cached record to short-circuit the chain, got %d calls", provider.calls)
	}
	if rec.Outcome != OutcomeProvider {
		t.Fatalf("expected cached provider record, got %q", rec.Outcome)
	}
}

func TestAnalyzeForceBypassesCache(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{name: "openai", raw: providerPayload}
	svc := newTestService(llm.NewChain(provider), t.TempDir())

	if _, err := svc.Analyze(ctx, "app-1", []byte(cvText), "cv.txt", false); err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	if _, err := svc.Analyze(ctx, "app-1", []byte(cvText), "cv.txt", true); err != nil {
		t.Fatalf("forced analyze: %v", err)
	}
	if provider.calls != 2 {
		t.Fatalf("expected force to recompute, got %d calls", provider.calls)
	}
}

func TestAnalyzeFallsBackToHeuristic(t *testing.T) {
	ctx := context.Background()
	chain := llm.NewChain(
		&stubProvider{name: "openai", err: errors.New("http 500")},
		&stubProvider{name: "gemini", err: errors.New("http 429")},
	)
	svc := newTestService(chain, t.TempDir())

	rec, err := svc.Analyze(ctx, "app-1", []byte(cvText), "cv.txt", false)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if rec.Outcome != OutcomeHeuristic {
		t.Fatalf("expected heuristic outcome, got %q", rec.Outcome)
	}
	if rec.Provider != "" {
		t.Fatalf("heuristic record must not carry provider attribution, got %q", rec.Provider)
	}

	want, err := json.Marshal(HeuristicAnalyze(cvText))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := json.Marshal(rec.Result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("fallback result differs from heuristic analyzer:\n%s\n%s", got, want)
	}
}

func TestAnalyzeMalformedProviderPayloadFallsBack(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{name: "openai", raw: `["array", "not", "object"]`}
	svc := newTestService(llm.NewChain(provider), t.TempDir())

	rec, err := svc.Analyze(ctx, "app-1", []byte(cvText), "cv.txt", false)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if rec.Outcome != OutcomeHeuristic {
		t.Fatalf("expected heuristic fallback for malformed payload, got %q", rec.Outcome)
	}
}

func TestAnalyzeFallbackIsDeterministic(t *testing.T) {
	ctx := context.Background()
	failing := func() *llm.Chain {
		return llm.NewChain(&stubProvider{name: "openai", err: errors.New("down")})
	}

	first, err := newTestService(failing(), t.TempDir()).Analyze(ctx, "app-1", []byte(cvText), "cv.txt", false)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	second, err := newTestService(failing(), t.TempDir()).Analyze(ctx, "app-1", []byte(cvText), "cv.txt", false)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	a, _ := json.Marshal(first.Result)
	b, _ := json.Marshal(second.Result)
	if string(a) != string(b) {
		t.Fatalf("fallback results differ across runs:\n%s\n%s", a, b)
	}
}

func TestAnalyzePersistsRawUpload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svc := newTestService(llm.NewChain(&stubProvider{name: "openai", raw: providerPayload}), dir)

	if _, err := svc.Analyze(ctx, "app-1", []byte(cvText), "cv.txt", false); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	body, err := svc.Store.Open(ctx, "applications/app-1/cv.txt")
	if err != nil {
		t.Fatalf("expected the raw upload persisted: %v", err)
	}
	body.Close()
}

func TestAnalyzeRequiresApplicationID(t *testing.T) {
	svc := newTestService(llm.NewChain(), t.TempDir())
	if _, err := svc.Analyze(context.Background(), "", []byte(cvText), "cv.txt", false); err == nil {
		t.Fatalf("expected error for empty application id")
	}
}

func TestAnalyzeSurvivesCacheWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := local.New(t.TempDir())
	svc := &Service{
		Cache: failingWriteCache{inner: NewObjectCache(store)},
		Chain: llm.NewChain(&stubProvider{name: "openai", raw: providerPayload}),
		Store: store,
	}

	rec, err := svc.Analyze(ctx, "app-1", []byte(cvText), "cv.txt", false)
	if err != nil {
		t.Fatalf("analyze must still return the record: %v", err)
	}
	if rec.Outcome != OutcomeProvider {
		t.Fatalf("unexpected outcome %q", rec.Outcome)
	}
}

type failingWriteCache struct {
	inner Cache
}

func (c failingWriteCache) Read(ctx context.Context, applicationID string) (Record, error) {
	return c.inner.Read(ctx, applicationID)
}

func (c failingWriteCache) Write(ctx context.Context, applicationID string, rec Record) error {
	return errors.New("disk full")
}

func TestGetReturnsNotFoundOnMiss(t *testing.T) {
	svc := newTestService(llm.NewChain(), t.TempDir())
	_, err := svc.Get(context.Background(), "never-analyzed")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetReturnsCachedRecord(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(llm.NewChain(&stubProvider{name: "openai", raw: providerPayload}), t.TempDir())

	if _, err := svc.Analyze(ctx, "app-1", []byte(cvText), "cv.txt", false); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	rec, err := svc.Get(ctx, "app-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.ApplicationID != "app-1" {
		t.Fatalf("unexpected record %+v", rec)
	}
}
