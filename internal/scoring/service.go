package scoring

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"recruit-backend/internal/analysis"
	"recruit-backend/internal/llm"
	"recruit-backend/internal/profiles"
	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/telemetry"
)

// Component weights for the deterministic path.
const (
	skillsWeight = 60
	levelWeight  = 20
	roleWeight   = 20
)

// Service computes compatibility scores. The provider chain is preferred;
// any failure of it falls back to the deterministic weighted algorithm, so
// Score itself never fails.
type Service struct {
	Chain *llm.Chain
}

// Score compares a candidate analysis against a golden profile and returns
// a verdict in [0,100].
func (s *Service) Score(ctx context.Context, golden profiles.GoldenProfile, result analysis.Result) Score {
	if s.Chain != nil && !s.Chain.Empty() {
		if score, ok := s.scoreWithAI(ctx, golden, result); ok {
			metrics.IncScoreComputed()
			return score
		}
	}
	metrics.IncScoreComputed()
	metrics.IncScoreFallback()
	return Deterministic(golden, result)
}

func (s *Service) scoreWithAI(ctx context.Context, golden profiles.GoldenProfile, result analysis.Result) (Score, bool) {
	raw, provider, err := s.Chain.ChatJSON(ctx, BuildPrompt(golden, result))
	if err != nil {
		return Score{}, false
	}

	var parsed struct {
		Score     *float64             `json:"score"`
		Breakdown map[string]Component `json:"breakdown"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Score == nil {
		telemetry.Error("scoring.ai_malformed", map[string]any{
			"provider": provider,
			"error":    errString(err),
		})
		return Score{}, false
	}

	breakdown := parsed.Breakdown
	if breakdown == nil {
		breakdown = map[string]Component{}
	}
	return Score{
		Score:     Clamp(int(math.Round(*parsed.Score))),
		Breakdown: breakdown,
		Method:    MethodAI,
		Provider:  provider,
	}, true
}

// Deterministic computes the weighted fallback score: skills 60, level 20,
// role 20. It is pure and total.
func Deterministic(golden profiles.GoldenProfile, result analysis.Result) Score {
	goldenSkills := golden.SkillList()

	matched := 0
	candidateSkills := make(map[string]struct{}, len(result.KeySkills))
	for _, skill := range result.KeySkills {
		candidateSkills[strings.ToLower(strings.TrimSpace(skill))] = struct{}{}
	}
	for _, skill := range goldenSkills {
		if _, ok := candidateSkills[skill]; ok {
			matched++
		}
	}

	skillsValue := 0
	if len(goldenSkills) > 0 {
		skillsValue = int(math.Round(float64(matched) / float64(len(goldenSkills)) * skillsWeight))
	}

	levelValue := 0
	if level := strings.ToLower(strings.TrimSpace(golden.Level)); level != "" && level == strings.ToLower(result.Seniority) {
		levelValue = levelWeight
	}

	roleValue := 0
	if role := strings.ToLower(strings.TrimSpace(golden.Role)); role != "" {
		for _, candidate := range result.TopRoles {
			if strings.ToLower(strings.TrimSpace(candidate)) == role {
				roleValue = roleWeight
				break
			}
		}
	}

	return Score{
		Score: Clamp(skillsValue + levelValue + roleValue),
		Breakdown: map[string]Component{
			"skills": {Value: skillsValue, Weight: skillsWeight, Matched: matched, GoldenSkills: goldenSkills},
			"level":  {Value: levelValue, Weight: levelWeight},
			"role":   {Value: roleValue, Weight: roleWeight},
		},
		Method: MethodHeuristic,
	}
}

func errString(err error) string {
	if err == nil {
		return "missing numeric score"
	}
	return err.Error()
}
