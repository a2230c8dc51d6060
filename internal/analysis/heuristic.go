package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// skillCatalogue is matched case-insensitively against the CV text.
// Order is significant: detected skills keep catalogue order.
var skillCatalogue = []string{
	"JavaScript", "TypeScript", "Python", "Java", "Go", "Rust", "C#", "C++",
	"PHP", "Ruby", "Kotlin", "Swift", "Scala", "SQL",
	"React", "Angular", "Vue", "Svelte", "Next.js", "Node.js", "Express",
	"NestJS", "Django", "Flask", "FastAPI", "Spring", "Laravel", "Rails",
	".NET", "GraphQL", "REST",
	"PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch", "Kafka",
	"RabbitMQ", "SQLite", "Oracle",
	"Docker", "Kubernetes", "Terraform", "Ansible", "AWS", "Azure", "GCP",
	"Linux", "Nginx", "CI/CD", "Jenkins", "GitLab", "GitHub Actions",
	"Git", "Jira", "Figma", "Selenium", "Cypress", "Playwright", "Pandas",
	"TensorFlow", "PyTorch",
}

var roleTable = []struct {
	pattern *regexp.Regexp
	label   string
}{
	{regexp.MustCompile(`(?i)front[- ]?end|react developer|ui developer`), "frontend developer"},
	{regexp.MustCompile(`(?i)back[- ]?end|api developer|server[- ]side`), "backend developer"},
	{regexp.MustCompile(`(?i)full[- ]?stack`), "fullstack developer"},
	{regexp.MustCompile(`(?i)mobile|android|\bios\b|flutter|react native`), "mobile developer"},
	{regexp.MustCompile(`(?i)devops|site reliability|platform engineer`), "devops engineer"},
	{regexp.MustCompile(`(?i)data engineer|etl\b`), "data engineer"},
	{regexp.MustCompile(`(?i)data scien|machine learning|ml engineer`), "data scientist"},
	{regexp.MustCompile(`(?i)\bqa\b|test(er| engineer| automation)|quality assurance`), "qa engineer"},
	{regexp.MustCompile(`(?i)ux|ui designer|product designer`), "ux/ui designer"},
	{regexp.MustCompile(`(?i)project manager|product manager|scrum master`), "project manager"},
}

var (
	// Matches "5 years", "5+ yrs" and the Polish forms "5 lat", "roku", "lata".
	experienceRe = regexp.MustCompile(`(?i)(\d{1,2})\s*\+?\s*(?:years?|yrs?|lat(?:a)?|roku)`)
	nameRe       = regexp.MustCompile(`\b([A-Z][a-z]+)\s+([A-Z][a-z]+)\b`)
)

var projectKeywords = []string{"project", "built", "developed", "implemented", "created", "designed", "launched"}

var seniorityKeywords = []struct {
	level string
	words []string
}{
	{SenioritySenior, []string{"senior", "sr."}},
	{SeniorityMid, []string{"mid-level", "middle", "regular"}},
	{SeniorityJunior, []string{"junior", "jr.", "intern", "trainee"}},
	{SeniorityLead, []string{"lead", "principal", "architect", "head of"}},
}

// HeuristicAnalyze derives a fully-populated analysis from raw CV text.
// It is deterministic, needs no network, and is defined for every input
// including the empty string. It is the pipeline's terminal fallback.
func HeuristicAnalyze(text string) Result {
	lower := strings.ToLower(text)

	skills := detectSkills(lower)
	years := detectExperienceYears(lower)
	seniority := inferSeniority(lower, years)
	roles := detectRoles(text)
	projects := detectProjects(text)

	res := Result{
		Summary:              buildSummary(text, seniority, roles, skills),
		KeySkills:            skills,
		TotalExperienceYears: years,
		Seniority:            seniority,
		TopRoles:             roles,
		Education:            detectEducation(text),
		Languages:            detectLanguages(lower),
		NotableProjects:      projects,
		Risks:                detectRisks(skills),
	}
	res.Normalize()
	return res
}

func detectSkills(lower string) []string {
	var found []string
	for _, skill := range skillCatalogue {
		if containsToken(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	return found
}

// containsToken avoids substring false positives for short alphabetic
// tokens ("go", "java" inside "javascript").
func containsToken(lower, token string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], token)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(token)
		if !isWordChar(byteAt(lower, start-1)) && !isWordChar(byteAt(lower, end)) {
			return true
		}
		idx = start + 1
		if idx >= len(lower) {
			return false
		}
	}
}

func byteAt(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return ' '
	}
	return s[i]
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func detectExperienceYears(lower string) float64 {
	max := 0
	for _, m := range experienceRe.FindAllStringSubmatch(lower, -1) {
		val, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if val >= 1 && val <= 30 && val > max {
			max = val
		}
	}
	return float64(max)
}

func inferSeniority(lower string, years float64) string {
	for _, entry := range seniorityKeywords {
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				return entry.level
			}
		}
	}
	switch {
	case years >= 7:
		return SenioritySenior
	case years >= 3:
		return SeniorityMid
	default:
		return SeniorityJunior
	}
}

func detectRoles(text string) []string {
	var roles []string
	for _, entry := range roleTable {
		if entry.pattern.MatchString(text) {
			roles = append(roles, entry.label)
		}
	}
	return roles
}

func detectProjects(text string) []string {
	var projects []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < 20 || len(trimmed) > 200 {
			continue
		}
		lowerLine := strings.ToLower(trimmed)
		for _, kw := range projectKeywords {
			if strings.Contains(lowerLine, kw) {
				projects = append(projects, trimmed)
				break
			}
		}
		if len(projects) == 3 {
			break
		}
	}
	return projects
}

var educationKeywords = []string{"university", "bachelor", "master", "phd", "b.sc", "m.sc", "engineer's degree", "politechnika", "uniwersytet"}

func detectEducation(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < 8 || len(trimmed) > 160 {
			continue
		}
		lowerLine := strings.ToLower(trimmed)
		for _, kw := range educationKeywords {
			if strings.Contains(lowerLine, kw) {
				out = append(out, trimmed)
				break
			}
		}
		if len(out) == 3 {
			break
		}
	}
	return out
}

var spokenLanguages = []string{"english", "polish", "german", "french", "spanish", "ukrainian", "italian", "dutch", "portuguese"}

func detectLanguages(lower string) []string {
	var out []string
	for _, lang := range spokenLanguages {
		if strings.Contains(lower, lang) {
			out = append(out, strings.ToUpper(lang[:1])+lang[1:])
		}
	}
	return out
}

func detectRisks(skills []string) []string {
	if len(skills) >= 3 {
		return nil
	}
	return []string{"Limited technical signal: fewer than 3 recognized skills in the CV text."}
}

func buildSummary(text, seniority string, roles, skills []string) string {
	subject := "The candidate"
	if m := nameRe.FindStringSubmatch(text); m != nil {
		subject = m[1] + " " + m[2]
	}

	role := "software professional"
	if len(roles) > 0 {
		role = roles[0]
	}

	topSkills := skills
	if len(topSkills) > 3 {
		topSkills = topSkills[:3]
	}
	if len(topSkills) == 0 {
		return fmt.Sprintf("%s appears to be a %s %s.", subject, seniority, role)
	}
	return fmt.Sprintf("%s appears to be a %s %s with experience in %s.",
		subject, seniority, role, strings.Join(topSkills, ", "))
}
