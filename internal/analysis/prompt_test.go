package analysis

import (
	"strings"
	"testing"
)

func TestBuildPromptEmbedsText(t *testing.T) {
	prompt := BuildPrompt("Jan Kowalski, Go developer")
	if !strings.Contains(prompt, "Jan Kowalski, Go developer") {
		t.Fatalf("expected CV text embedded in prompt")
	}
	if !strings.Contains(prompt, `"key_skills"`) {
		t.Fatalf("expected the JSON shape spelled out in the prompt")
	}
}

func TestBuildPromptEmptyText(t *testing.T) {
	prompt := BuildPrompt("   ")
	if !strings.Contains(prompt, "(no text could be extracted from the document)") {
		t.Fatalf("expected empty-text placeholder, got %q", prompt)
	}
}

func TestBuildPromptTruncatesOverlongText(t *testing.T) {
	long := strings.Repeat("x", maxPromptTextLen+5000)
	prompt := BuildPrompt(long)
	if strings.Count(prompt, "x") != maxPromptTextLen {
		t.Fatalf("expected text truncated to %d chars", maxPromptTextLen)
	}
}
