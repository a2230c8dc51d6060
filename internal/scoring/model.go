package scoring

// Methods describe which path produced a score.
const (
	MethodAI        = "ai"
	MethodHeuristic = "heuristic"
)

// Component is one weighted contribution to a compatibility score. The
// skills component additionally records the raw intersection count and the
// normalized golden skill set for auditability.
type Component struct {
	Value        int      `json:"value"`
	Weight       int      `json:"weight"`
	Matched      int      `json:"matched,omitempty"`
	GoldenSkills []string `json:"golden_skills,omitempty"`
}

// Score is a compatibility verdict in [0,100] with its breakdown. It is
// recomputed on every request and never persisted by this package.
type Score struct {
	Score     int                  `json:"score"`
	Breakdown map[string]Component `json:"breakdown"`
	Method    string               `json:"method"`
	Provider  string               `json:"provider,omitempty"`
}

// Clamp bounds a raw score into [0,100].
func Clamp(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
