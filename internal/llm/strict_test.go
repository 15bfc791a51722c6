package llm

import "testing"

func TestValidateEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantErr bool
	}{
		{
			name: "full envelope",
			input: map[string]any{
				"initial_schema":     map[string]any{"carrier": nil},
				"corrected_schema":   map[string]any{"carrier": nil},
				"handwritten_extras": map[string]any{},
			},
		},
		{
			name:  "null corrected_schema allowed",
			input: map[string]any{"corrected_schema": nil},
		},
		{
			name:  "extras as array allowed",
			input: map[string]any{"corrected_schema": map[string]any{}, "handwritten_extras": []any{"note"}},
		},
		{
			name:    "missing corrected_schema",
			input:   map[string]any{"initial_schema": map[string]any{}},
			wantErr: true,
		},
		{
			name:    "corrected_schema wrong type",
			input:   map[string]any{"corrected_schema": "not an object"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEnvelope(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEnvelope() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
