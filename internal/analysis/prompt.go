package analysis

import (
	"fmt"
	"strings"
)

const maxPromptTextLen = 24000

const analysisPromptTemplate = `Analyze the following CV text and return a JSON object with exactly these fields:
{
  "summary": "one or two sentences describing the candidate",
  "key_skills": ["list of technologies and skills found"],
  "total_experience_years": 0,
  "seniority": "junior|mid|senior|lead",
  "top_roles": ["roles the candidate fits, e.g. backend developer"],
  "education": ["degrees and institutions"],
  "languages": ["spoken languages"],
  "notable_projects": ["short one-line project descriptions"],
  "risks": ["gaps or concerns, empty if none"]
}
Use empty arrays for anything not present in the CV. Do not invent facts.

CV text:
%s`

// BuildPrompt renders the fixed analysis prompt for the given CV text.
// Overlong text is truncated so the request stays within provider limits.
func BuildPrompt(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > maxPromptTextLen {
		text = text[:maxPromptTextLen]
	}
	if text == "" {
		text = "(no text could be extracted from the document)"
	}
	return fmt.Sprintf(analysisPromptTemplate, text)
}
