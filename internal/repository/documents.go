// Package repository persists ProcessedRecords and per-dataset configuration
// as opaque JSON documents, keyed by "{dataset}/{filename}".
package repository

import (
	"encoding/json"
	"fmt"

	"github.com/argusdocs/argus/internal/entity"
)

// configurationID is the single row holding all per-dataset defaults.
const configurationID = "configuration"

func decodeRecord(data []byte) (*entity.ProcessedRecord, error) {
	var rec entity.ProcessedRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}

// decodeConfiguration parses the configuration document into a per-dataset
// map. The legacy "id" marker field is dropped.
func decodeConfiguration(data []byte) (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	delete(out, "id")
	return out, nil
}

// mergeDatasetConfig adds cfg under dataset if not already present and
// returns the re-encoded document. changed is false when the dataset already
// had defaults (existing config is never overwritten).
func mergeDatasetConfig(existing map[string]json.RawMessage, dataset string, cfg DatasetConfig) (data []byte, changed bool, err error) {
	if _, ok := existing[dataset]; ok {
		return nil, false, nil
	}
	enc, err := json.Marshal(cfg)
	if err != nil {
		return nil, false, fmt.Errorf("encode dataset config: %w", err)
	}
	existing[dataset] = enc

	doc := make(map[string]json.RawMessage, len(existing)+1)
	for k, v := range existing {
		doc[k] = v
	}
	doc["id"] = json.RawMessage(fmt.Sprintf("%q", configurationID))

	data, err = json.Marshal(doc)
	if err != nil {
		return nil, false, fmt.Errorf("encode configuration: %w", err)
	}
	return data, true, nil
}
