package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Models wrap JSON in markdown fences or add commentary around it. The two
// regexes strip fence markers at line boundaries; the brace trim then cuts
// the payload from the first '{' to the last '}'. This assumes a single
// top-level JSON object with no braces in surrounding commentary; strict
// mode exists for callers that need a validated envelope.
var (
	fenceOpenRE  = regexp.MustCompile("(?im)^```(?:json)?")
	fenceCloseRE = regexp.MustCompile("(?m)```$")
)

// CleanModelJSON removes markdown fences and trims surrounding commentary
// from a raw model response, returning the best JSON candidate substring.
func CleanModelJSON(raw string) string {
	cleaned := fenceOpenRE.ReplaceAllString(strings.TrimSpace(raw), "")
	cleaned = strings.TrimSpace(fenceCloseRE.ReplaceAllString(cleaned, ""))

	if strings.Count(cleaned, "{") > 0 && strings.Count(cleaned, "}") > 0 {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}") + 1
		cleaned = cleaned[start:end]
	}
	return cleaned
}

// ParseModelJSON recovers a JSON value from a raw model response. It never
// fails: on parse error the returned output is the envelope
// {"raw": <original text>} and parseErr carries the decoder message, so the
// record can still be persisted with full provenance.
func ParseModelJSON(raw string) (output any, parseErr string) {
	cleaned := CleanModelJSON(raw)

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return map[string]any{"raw": raw}, err.Error()
	}
	return v, ""
}
