package analysis

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseResultFullPayload(t *testing.T) {
	raw := json.RawMessage(`{
  "summary": " Strong backend candidate. ",
  "key_skills": ["Go", "PostgreSQL"],
  "total_experience_years": 6,
  "seniority": "senior",
  "top_roles": ["backend developer"],
  "education": ["MSc Computer Science"],
  "languages": ["English"],
  "notable_projects": ["Payments platform"],
  "risks": []
}`)
	res, err := ParseResult(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Summary != "Strong backend candidate." {
		t.Fatalf("expected trimmed summary, got %q", res.Summary)
	}
	if res.TotalExperienceYears != 6 {
		t.Fatalf("expected 6 years, got %v", res.TotalExperienceYears)
	}
	if res.Seniority != SenioritySenior {
		t.Fatalf("expected senior, got %q", res.Seniority)
	}
	if len(res.Risks) != 0 || res.Risks == nil {
		t.Fatalf("expected empty non-nil risks, got %#v", res.Risks)
	}
}

func TestParseResultDropsNonStringArrayMembers(t *testing.T) {
	raw := json.RawMessage(`{"key_skills": ["Go", 42, null, {"x":1}, "  ", "Redis"]}`)
	res, err := ParseResult(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.KeySkills) != 2 || res.KeySkills[0] != "Go" || res.KeySkills[1] != "Redis" {
		t.Fatalf("expected [Go Redis], got %v", res.KeySkills)
	}
}

func TestParseResultYearsAsString(t *testing.T) {
	raw := json.RawMessage(`{"total_experience_years": "7"}`)
	res, err := ParseResult(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalExperienceYears != 7 {
		t.Fatalf("expected 7 years from string value, got %v", res.TotalExperienceYears)
	}
}

func TestParseResultClampsYears(t *testing.T) {
	over, err := ParseResult(json.RawMessage(`{"total_experience_years": 99}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if over.TotalExperienceYears != 60 {
		t.Fatalf("expected clamp to 60, got %v", over.TotalExperienceYears)
	}
	under, err := ParseResult(json.RawMessage(`{"total_experience_years": -3}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if under.TotalExperienceYears != 0 {
		t.Fatalf("expected clamp to 0, got %v", under.TotalExperienceYears)
	}
}

func TestParseResultSeniorityAliases(t *testing.T) {
	cases := map[string]string{
		"Senior":    SenioritySenior,
		"regular":   SeniorityMid,
		"middle":    SeniorityMid,
		"principal": SeniorityLead,
		"architect": SeniorityLead,
		"staff":     SeniorityLead,
		"wizard":    SeniorityJunior,
		"":          SeniorityJunior,
	}
	for in, want := range cases {
		raw, _ := json.Marshal(map[string]string{"seniority": in})
		res, err := ParseResult(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", in, err)
		}
		if res.Seniority != want {
			t.Fatalf("seniority %q: expected %q, got %q", in, want, res.Seniority)
		}
	}
}

func TestParseResultRejectsNonObject(t *testing.T) {
	if _, err := ParseResult(json.RawMessage(`["not", "an", "object"]`)); err == nil {
		t.Fatalf("expected error for array payload")
	}
	if _, err := ParseResult(json.RawMessage(`"just a string"`)); err == nil {
		t.Fatalf("expected error for string payload")
	}
}

func TestNormalizeFillsEmptySlices(t *testing.T) {
	var res Result
	res.Normalize()
	payload, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{`"key_skills":[]`, `"top_roles":[]`, `"education":[]`, `"languages":[]`, `"notable_projects":[]`, `"risks":[]`} {
		if !strings.Contains(string(payload), field) {
			t.Fatalf("expected %s in %s", field, payload)
		}
	}
	if res.Seniority != SeniorityJunior {
		t.Fatalf("expected junior default, got %q", res.Seniority)
	}
}
