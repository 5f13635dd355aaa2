package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/leapstack-labs/rwspec/pkg/core"
	"gopkg.in/yaml.v3"
)

// Document encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted encodings.
var Formats = []string{FormatJSON, FormatYAML}

// JSON writes defs as an indented JSON document.
func JSON(w io.Writer, defs core.Definitions) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Build(defs)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// YAML writes defs as a YAML document.
func YAML(w io.Writer, defs core.Definitions) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Build(defs)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

// Write encodes defs in the named format.
func Write(w io.Writer, format string, defs core.Definitions) error {
	switch format {
	case FormatJSON:
		return JSON(w, defs)
	case FormatYAML, "yml":
		return YAML(w, defs)
	}
	return fmt.Errorf("unknown export format %q (want one of %v)", format, Formats)
}

// Read decodes a document in the named format.
func Read(r io.Reader, format string) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode JSON: %w", err)
		}
	case FormatYAML, "yml":
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown export format %q (want one of %v)", format, Formats)
	}
	return &doc, nil
}
