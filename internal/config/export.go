package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ExportYAML renders conf as a YAML document that LoadConfiguration reads
// back unchanged. Keys follow the Configuration field order: common,
// scenarios, logging, output. Empty logging and output sections are omitted.
func ExportYAML(conf Configuration) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(conf); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return buf.Bytes(), nil
}
