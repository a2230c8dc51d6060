package analysis

import (
	"encoding/json"
	"strings"
	"time"
)

// Seniority levels recognized by the pipeline.
const (
	SeniorityJunior = "junior"
	SeniorityMid    = "mid"
	SenioritySenior = "senior"
	SeniorityLead   = "lead"
)

// Outcome values describe how a cached record was produced.
const (
	OutcomeProvider  = "provider"
	OutcomeHeuristic = "heuristic"
)

// Result is the structured analysis of a single CV. Every field is always
// populated: absence is an empty slice or zero, never null.
type Result struct {
	Summary              string   `json:"summary"`
	KeySkills            []string `json:"key_skills"`
	TotalExperienceYears float64  `json:"total_experience_years"`
	Seniority            string   `json:"seniority"`
	TopRoles             []string `json:"top_roles"`
	Education            []string `json:"education"`
	Languages            []string `json:"languages"`
	NotableProjects      []string `json:"notable_projects"`
	Risks                []string `json:"risks"`
}

// Record is the durable envelope the cache persists per application.
type Record struct {
	ApplicationID string    `json:"application_id"`
	Result        Result    `json:"result"`
	Outcome       string    `json:"outcome"`
	Provider      string    `json:"provider,omitempty"`
	Model         string    `json:"model,omitempty"`
	AnalyzedAt    time.Time `json:"analyzed_at"`
}

// Normalize enforces the Result invariants in place: non-nil slices,
// non-negative experience, a recognized seniority value.
func (r *Result) Normalize() {
	if r.KeySkills == nil {
		r.KeySkills = []string{}
	}
	if r.TopRoles == nil {
		r.TopRoles = []string{}
	}
	if r.Education == nil {
		r.Education = []string{}
	}
	if r.Languages == nil {
		r.Languages = []string{}
	}
	if r.NotableProjects == nil {
		r.NotableProjects = []string{}
	}
	if r.Risks == nil {
		r.Risks = []string{}
	}
	if r.TotalExperienceYears < 0 {
		r.TotalExperienceYears = 0
	}
	switch strings.ToLower(strings.TrimSpace(r.Seniority)) {
	case SeniorityJunior:
		r.Seniority = SeniorityJunior
	case SeniorityMid, "regular", "middle":
		r.Seniority = SeniorityMid
	case SenioritySenior:
		r.Seniority = SenioritySenior
	case SeniorityLead, "principal", "architect", "staff":
		r.Seniority = SeniorityLead
	default:
		r.Seniority = SeniorityJunior
	}
	r.Summary = strings.TrimSpace(r.Summary)
}

// ParseResult decodes a provider payload into a Result, repairing what it
// can: unknown fields are ignored, array members that are not strings are
// dropped, experience is clamped into a sane range. It fails only when the
// payload is not a JSON object at all.
func ParseResult(raw json.RawMessage) (Result, error) {
	var loose struct {
		Summary              string          `json:"summary"`
		KeySkills            []any           `json:"key_skills"`
		TotalExperienceYears json.RawMessage `json:"total_experience_years"`
		Seniority            string          `json:"seniority"`
		TopRoles             []any           `json:"top_roles"`
		Education            []any           `json:"education"`
		Languages            []any           `json:"languages"`
		NotableProjects      []any           `json:"notable_projects"`
		Risks                []any           `json:"risks"`
	}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return Result{}, err
	}

	res := Result{
		Summary:              loose.Summary,
		KeySkills:            stringSlice(loose.KeySkills),
		TotalExperienceYears: looseNumber(loose.TotalExperienceYears),
		Seniority:            loose.Seniority,
		TopRoles:             stringSlice(loose.TopRoles),
		Education:            stringSlice(loose.Education),
		Languages:            stringSlice(loose.Languages),
		NotableProjects:      stringSlice(loose.NotableProjects),
		Risks:                stringSlice(loose.Risks),
	}
	if res.TotalExperienceYears > 60 {
		res.TotalExperienceYears = 60
	}
	res.Normalize()
	return res, nil
}

func stringSlice(in []any) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// looseNumber tolerates providers returning years as a string ("5") or a
// number (5 or 5.0).
func looseNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		var parsed float64
		if err := json.Unmarshal([]byte(strings.TrimSpace(str)), &parsed); err == nil {
			return parsed
		}
	}
	return 0
}
