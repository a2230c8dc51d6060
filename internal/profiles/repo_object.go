package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"recruit-backend/internal/shared/storage/object"
)

// ObjectRepo stores golden profiles as JSON documents in the object store
// at jobs/<jobId>/goldenCandidate.json. It is the database-free backend
// for deployments without Postgres.
type ObjectRepo struct {
	Store object.ObjectStore
}

// NewObjectRepo constructs an ObjectRepo.
func NewObjectRepo(store object.ObjectStore) *ObjectRepo {
	return &ObjectRepo{Store: store}
}

// Get returns the profile for a job.
func (r *ObjectRepo) Get(ctx context.Context, jobID string) (GoldenProfile, error) {
	body, err := r.Store.Open(ctx, object.GoldenProfileKey(jobID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return GoldenProfile{}, ErrNotFound
		}
		return GoldenProfile{}, fmt.Errorf("golden profile read job=%s: %w", jobID, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return GoldenProfile{}, fmt.Errorf("golden profile read job=%s: %w", jobID, err)
	}

	var profile GoldenProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return GoldenProfile{}, fmt.Errorf("golden profile decode job=%s: %w", jobID, err)
	}
	return profile, nil
}

// Put stores the profile, overwriting any previous one.
func (r *ObjectRepo) Put(ctx context.Context, jobID string, profile GoldenProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("golden profile marshal job=%s: %w", jobID, err)
	}
	key := object.GoldenProfileKey(jobID)
	if _, err := r.Store.Save(ctx, key, "application/json; charset=utf-8", bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("golden profile write job=%s: %w", jobID, err)
	}
	return nil
}

var _ Repo = (*ObjectRepo)(nil)
