package analysis

import (
	"bytes"
	"context"
	"errors"
	"time"

	"recruit-backend/internal/extract"
	"recruit-backend/internal/llm"
	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/storage/object"
	"recruit-backend/internal/shared/telemetry"
	"recruit-backend/internal/shared/util"
)

// Service orchestrates the analysis pipeline: extraction, provider chain,
// heuristic fallback, cache write-through.
type Service struct {
	Cache Cache
	Chain *llm.Chain
	Store object.ObjectStore
	// Models maps a provider name to its configured model for record
	// attribution.
	Models map[string]string
}

// Analyze runs the pipeline for one application. With force=false a cached
// record is returned untouched; with force=true the analysis is always
// recomputed and the cache overwritten. Analysis itself never hard-fails:
// every provider or extraction failure degrades to the deterministic
// heuristic path. The returned error is non-nil only for an empty
// application id or a cancelled context.
func (s *Service) Analyze(ctx context.Context, applicationID string, data []byte, fileName string, force bool) (Record, error) {
	if applicationID == "" {
		return Record{}, errors.New("applicationID is required")
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	if !force {
		rec, err := s.Cache.Read(ctx, applicationID)
		if err == nil {
			metrics.IncCacheHit()
			return rec, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			telemetry.Error("analysis.cache_read_failed", map[string]any{
				"application_id": applicationID,
				"error":          err.Error(),
			})
		}
		metrics.IncCacheMiss()
	}

	metrics.IncAnalysisStarted()
	start := time.Now()

	s.persistRaw(ctx, applicationID, fileName, data)

	rec := s.runPipeline(ctx, applicationID, data, fileName)

	if err := s.Cache.Write(ctx, applicationID, rec); err != nil {
		metrics.IncCacheWriteFailed()
		telemetry.Error("analysis.cache_write_failed", map[string]any{
			"application_id": applicationID,
			"error":          err.Error(),
		})
	}

	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Milliseconds()))
	telemetry.Info("analysis.complete", map[string]any{
		"application_id": applicationID,
		"outcome":        rec.Outcome,
		"provider":       rec.Provider,
		"skills":         len(rec.Result.KeySkills),
		"duration_ms":    time.Since(start).Milliseconds(),
	})
	return rec, nil
}

// Get returns the cached analysis for an application without recomputing.
func (s *Service) Get(ctx context.Context, applicationID string) (Record, error) {
	if applicationID == "" {
		return Record{}, errors.New("applicationID is required")
	}
	rec, err := s.Cache.Read(ctx, applicationID)
	if errors.Is(err, ErrCacheMiss) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (s *Service) runPipeline(ctx context.Context, applicationID string, data []byte, fileName string) Record {
	text := extract.FromBytes(fileName, data)

	rec := Record{
		ApplicationID: applicationID,
		AnalyzedAt:    time.Now().UTC(),
	}

	raw, provider, err := s.Chain.ChatJSON(ctx, BuildPrompt(text))
	if err == nil {
		res, perr := ParseResult(raw)
		if perr == nil {
			rec.Result = res
			rec.Outcome = OutcomeProvider
			rec.Provider = provider
			rec.Model = s.Models[provider]
			return rec
		}
		telemetry.Error("analysis.result_malformed", map[string]any{
			"application_id": applicationID,
			"provider":       provider,
			"error":          perr.Error(),
		})
	}

	// Any chain or parse failure lands here. The heuristic analyzer is
	// total, so the pipeline always terminates with a populated result.
	metrics.IncHeuristicFallback()
	rec.Result = HeuristicAnalyze(text)
	rec.Outcome = OutcomeHeuristic
	return rec
}

// persistRaw keeps the original upload at applications/<id>/<fileName>.
// Failures are logged and ignored: losing the raw copy must not block the
// analysis.
func (s *Service) persistRaw(ctx context.Context, applicationID, fileName string, data []byte) {
	if s.Store == nil || len(data) == 0 {
		return
	}
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		name = "cv.bin"
	}
	key := object.ApplicationFileKey(applicationID, name)
	if _, err := s.Store.Save(ctx, key, "application/octet-stream", bytes.NewReader(data)); err != nil {
		telemetry.Error("analysis.raw_store_failed", map[string]any{
			"application_id": applicationID,
			"error":          err.Error(),
		})
	}
}
