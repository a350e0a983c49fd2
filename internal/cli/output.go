package cli

import (
	"encoding/json"
	"io"
)

// IsJSONOutput reports whether --json was requested.
func IsJSONOutput() bool {
	return jsonOutput
}

// IsJSONLOutput reports whether --jsonl was requested.
func IsJSONLOutput() bool {
	return jsonlOutput
}

// WriteOutput encodes v as indented JSON, or as a single line with --jsonl.
func WriteOutput(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	if !IsJSONLOutput() {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
