package llm

import (
	"strings"
	"testing"
)

func TestBuildReconcilePromptCarriesAllSections(t *testing.T) {
	prompt := BuildReconcilePrompt(
		`{"carrier": {"name": "string"}}`,
		"printed body text",
		"handwritten note",
	)

	for _, want := range []string{
		`{"carrier": {"name": "string"}}`,
		"printed body text",
		"handwritten note",
		"initial_schema",
		"corrected_schema",
		"handwritten_extras",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Section order: schema, then computerized, then handwritten.
	si := strings.Index(prompt, "### SCHEMA:")
	ci := strings.Index(prompt, "### COMPUTERIZED TEXT:")
	hi := strings.Index(prompt, "### HANDWRITTEN TEXT:")
	if si == -1 || ci == -1 || hi == -1 || !(si < ci && ci < hi) {
		t.Errorf("section order wrong: schema=%d computerized=%d handwritten=%d", si, ci, hi)
	}
}

func TestBuildReconcilePromptIsDeterministic(t *testing.T) {
	a := BuildReconcilePrompt("{}", "p", "h")
	b := BuildReconcilePrompt("{}", "p", "h")
	if a != b {
		t.Fatal("identical inputs must render identical prompts")
	}
}
