package llm

import (
	"testing"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare json passthrough",
			raw:  `{"corrected_schema": {"carrier": null}}`,
			want: `{"corrected_schema": {"carrier": null}}`,
		},
		{
			name: "json fence",
			raw:  "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "plain fence",
			raw:  "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "uppercase fence tag",
			raw:  "```JSON\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "commentary around object",
			raw:  "Here is the extracted data:\n{\"a\": 1}\nLet me know if you need anything else.",
			want: `{"a": 1}`,
		},
		{
			name: "fence plus commentary",
			raw:  "Sure!\n```json\n{\"a\": 1}\n```\nDone.",
			want: `{"a": 1}`,
		},
		{
			name: "no braces left untouched",
			raw:  "I could not read the document.",
			want: "I could not read the document.",
		},
		{
			name: "surrounding whitespace",
			raw:  "\n\n  {\"a\": 1}  \n",
			want: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanModelJSON(tt.raw); got != tt.want {
				t.Errorf("CleanModelJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseModelJSONValid(t *testing.T) {
	out, parseErr := ParseModelJSON("```json\n{\"corrected_schema\": {\"carrier\": {\"name\": \"ACME\"}}}\n```")
	if parseErr != "" {
		t.Fatalf("unexpected parse error: %s", parseErr)
	}
	m, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("output is %T, want map", out)
	}
	if _, ok := m["corrected_schema"]; !ok {
		t.Errorf("corrected_schema missing from parsed output: %v", m)
	}
}

func TestParseModelJSONRecoversRawText(t *testing.T) {
	raw := "I'm sorry, the document was illegible."
	out, parseErr := ParseModelJSON(raw)
	if parseErr == "" {
		t.Fatal("expected a parse error for prose input")
	}
	m, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("output is %T, want map", out)
	}
	// Recovery must preserve the original response byte for byte.
	if got := m["raw"]; got != raw {
		t.Errorf("raw = %q, want %q", got, raw)
	}
}

func TestParseModelJSONTruncatedObject(t *testing.T) {
	raw := "```json\n{\"corrected_schema\": {\"carrier\"\n```"
	out, parseErr := ParseModelJSON(raw)
	if parseErr == "" {
		t.Fatal("expected a parse error for truncated JSON")
	}
	m := out.(map[string]any)
	if m["raw"] != raw {
		t.Errorf("raw envelope must carry the original response, got %q", m["raw"])
	}
}
