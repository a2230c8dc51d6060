package scoring

import (
	"encoding/json"
	"fmt"

	"recruit-backend/internal/analysis"
	"recruit-backend/internal/profiles"
)

const scorePromptTemplate = `Compare the candidate analysis below against the recruiter's golden profile.
Return a JSON object: {"score": <integer 0-100>, "breakdown": {"<component>": {"value": <int>, "weight": <int>}}}.
Weigh skills overlap most heavily, then seniority match, then role match.

Golden profile:
%s

Candidate analysis:
%s`

// BuildPrompt renders the fixed compatibility-scoring prompt.
func BuildPrompt(golden profiles.GoldenProfile, result analysis.Result) string {
	goldenJSON, err := json.Marshal(golden)
	if err != nil {
		goldenJSON = []byte("{}")
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		resultJSON = []byte("{}")
	}
	return fmt.Sprintf(scorePromptTemplate, goldenJSON, resultJSON)
}
