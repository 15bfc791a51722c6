package llm

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// envelopeJSON constrains the reconciliation envelope shape only, never the
// extracted shipment content.
const envelopeJSON = `{
  "type": "object",
  "properties": {
    "initial_schema":     {"type": ["object", "null"]},
    "corrected_schema":   {"type": ["object", "null"]},
    "handwritten_extras": {"type": ["object", "array", "null"]}
  },
  "required": ["corrected_schema"]
}`

var envelopeSchema = jsonschema.MustCompileString("envelope.json", envelopeJSON)

// ValidateEnvelope checks a parsed model output against the envelope schema.
// Opt-in via config; the default pipeline accepts whatever parses as JSON.
func ValidateEnvelope(v any) error {
	if err := envelopeSchema.Validate(v); err != nil {
		return fmt.Errorf("envelope does not match schema: %w", err)
	}
	return nil
}
