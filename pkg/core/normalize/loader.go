package normalize

import (
	"encoding/json"
	"fmt"
	"os"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ParseBundle decodes a raw statement bundle from JSON. Statement dumps are
// often hand-edited or produced by flaky exporters, so parsing escalates
// through three strategies:
//  1. standard JSON
//  2. automatic JSON repair (unquoted keys, trailing commas, code fences)
//  3. Hjson (most lenient: comments, optional commas)
func ParseBundle(data []byte) (*RawBundle, error) {
	var bundle RawBundle
	if err := json.Unmarshal(data, &bundle); err == nil {
		return &bundle, nil
	}

	if repaired, err := jsonrepair.RepairJSON(string(data)); err == nil {
		if err := json.Unmarshal([]byte(repaired), &bundle); err == nil {
			return &bundle, nil
		}
	}

	if err := hjson.Unmarshal(data, &bundle); err == nil {
		return &bundle, nil
	}

	return nil, &ValidationError{Reason: "input is not parseable as JSON, repaired JSON, or Hjson"}
}

// LoadBundle reads and parses a raw statement bundle from disk.
func LoadBundle(path string) (*RawBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle %s: %w", path, err)
	}
	return ParseBundle(data)
}
