package llm

import (
	"fmt"
	"strings"
)

const reconcileTemplate = `You are an OCR document parser specialized in structured extraction and correction for shipment documents (e.g., CMR, Delivery Notes).

### TASK:
You are given two text sources:
1. **Computerized Text** — machine-printed text extracted from the document.
2. **Handwritten OCR Text** — recognized handwriting and annotations.

### OBJECTIVE:
1. From the computerized text, fill all possible fields in the schema to create **initial_schema**. Use null for any field that cannot be determined.
2. Compare with the handwritten text and override initial_schema fields only where the handwriting constitutes a clear, unambiguous correction, producing **corrected_schema**.
3. Any handwritten content that cannot be confidently mapped to a schema field goes under the top-level key "handwritten_extras".
4. If no handwritten correction applies, corrected_schema = initial_schema.

### OUTPUT FORMAT:
Return **only valid JSON** with exactly these top-level keys:
{
  "initial_schema": { ... },
  "corrected_schema": { ... },
  "handwritten_extras": { ... }
}

### RULES:
- Do not add, remove, or rename any keys in the schema.
- Preserve the same structure and field order.
- Replace "string"/"number"/"boolean" placeholders with extracted values.
- If a field is missing or cannot be determined, write null.
- Only update fields in corrected_schema when the handwritten text clearly corrects the computerized data.
- No explanations or additional text — only valid JSON output.

---

### SCHEMA:
%s

---

### COMPUTERIZED TEXT:
%s

---

### HANDWRITTEN TEXT:
%s
`

// BuildReconcilePrompt deterministically renders the reconciliation
// instruction from the schema template and the two extraction passes.
func BuildReconcilePrompt(schemaTemplate, printedText, handwrittenText string) string {
	return fmt.Sprintf(reconcileTemplate,
		strings.TrimSpace(schemaTemplate),
		printedText,
		handwrittenText,
	)
}
