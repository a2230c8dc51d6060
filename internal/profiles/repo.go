package profiles

import "context"

// Repo defines persistence operations for golden profiles. A job owns at
// most one profile; Put overwrites.
type Repo interface {
	Get(ctx context.Context, jobID string) (GoldenProfile, error)
	Put(ctx context.Context, jobID string, profile GoldenProfile) error
}
