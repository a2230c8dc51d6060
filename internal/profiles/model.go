package profiles

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a job has no golden profile configured.
var ErrNotFound = errors.New("golden profile not found")

// GoldenProfile is the recruiter-authored reference description of the
// ideal candidate for a job. All fields are optional; Skills is a
// comma-separated list.
type GoldenProfile struct {
	Role      string    `json:"role"`
	Level     string    `json:"level"`
	Skills    string    `json:"skills"`
	Summary   string    `json:"summary"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Empty reports whether the profile carries no signal at all.
func (p GoldenProfile) Empty() bool {
	return strings.TrimSpace(p.Role) == "" &&
		strings.TrimSpace(p.Level) == "" &&
		strings.TrimSpace(p.Skills) == "" &&
		strings.TrimSpace(p.Summary) == ""
}

// SkillList returns the normalized skill set: comma-split, trimmed,
// lower-cased, empties dropped.
func (p GoldenProfile) SkillList() []string {
	parts := strings.Split(p.Skills, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
