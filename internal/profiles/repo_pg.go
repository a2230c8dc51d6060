package profiles

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Get returns the profile for a job.
func (r *PGRepo) Get(ctx context.Context, jobID string) (GoldenProfile, error) {
	const query = `
SELECT role, level, skills, summary, updated_at
FROM golden_profiles
WHERE job_id = $1`

	var profile GoldenProfile
	err := r.DB.QueryRowContext(ctx, query, jobID).Scan(
		&profile.Role,
		&profile.Level,
		&profile.Skills,
		&profile.Summary,
		&profile.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GoldenProfile{}, ErrNotFound
	}
	if err != nil {
		return GoldenProfile{}, err
	}
	return profile, nil
}

// Put upserts the profile for a job.
func (r *PGRepo) Put(ctx context.Context, jobID string, profile GoldenProfile) error {
	const query = `
INSERT INTO golden_profiles (job_id, role, level, skills, summary, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (job_id) DO UPDATE SET
	role = EXCLUDED.role,
	level = EXCLUDED.level,
	skills = EXCLUDED.skills,
	summary = EXCLUDED.summary,
	updated_at = EXCLUDED.updated_at`

	_, err := r.DB.ExecContext(ctx, query,
		jobID,
		profile.Role,
		profile.Level,
		profile.Skills,
		profile.Summary,
		time.Now().UTC(),
	)
	return err
}

var _ Repo = (*PGRepo)(nil)
