package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"recruit-backend/internal/shared/storage/object"
)

// Cache maps an application id to its last computed analysis. Reads return
// ErrCacheMiss when no entry exists; writes overwrite unconditionally
// (last-write-wins, no versioning).
type Cache interface {
	Read(ctx context.Context, applicationID string) (Record, error)
	Write(ctx context.Context, applicationID string, rec Record) error
}

// ObjectCache persists analysis records as JSON documents in the object
// store at applications/<id>/analysis.json.
type ObjectCache struct {
	Store object.ObjectStore
}

// NewObjectCache constructs an ObjectCache.
func NewObjectCache(store object.ObjectStore) *ObjectCache {
	return &ObjectCache{Store: store}
}

// Read loads the cached record for an application.
func (c *ObjectCache) Read(ctx context.Context, applicationID string) (Record, error) {
	body, err := c.Store.Open(ctx, object.AnalysisKey(applicationID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || isNoSuchKey(err) {
			return Record{}, ErrCacheMiss
		}
		return Record{}, fmt.Errorf("analysis cache read app=%s: %w", applicationID, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return Record{}, fmt.Errorf("analysis cache read app=%s: %w", applicationID, err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		// A corrupt document is treated as absent so the pipeline recomputes.
		return Record{}, ErrCacheMiss
	}
	rec.Result.Normalize()
	return rec, nil
}

// Write stores the record, overwriting any previous entry.
func (c *ObjectCache) Write(ctx context.Context, applicationID string, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("analysis cache marshal app=%s: %w", applicationID, err)
	}
	key := object.AnalysisKey(applicationID)
	if _, err := c.Store.Save(ctx, key, "application/json; charset=utf-8", bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("analysis cache write app=%s: %w", applicationID, err)
	}
	return nil
}

// isNoSuchKey matches S3-style missing-object errors without importing the
// SDK's types here.
func isNoSuchKey(err error) bool {
	type coder interface{ ErrorCode() string }
	var c coder
	if errors.As(err, &c) {
		code := c.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}

var _ Cache = (*ObjectCache)(nil)
