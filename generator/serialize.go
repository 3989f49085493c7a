package generator

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const headerComment = " Generated by recyforge - review before your first sync.\n Documentation: https://recyclarr.dev"

// Serialize renders the generated tree as YAML: block style, two-space
// indent, comments placed with their entries, key order exactly as
// generated. Parsing the output back (comments aside) reproduces the
// tree.
func Serialize(root *yaml.Node) ([]byte, error) {
	out := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: headerComment,
		Content:     []*yaml.Node{root},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		enc.Close()
		return nil, fmt.Errorf("failed to serialize configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to serialize configuration: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile serializes the tree fully in memory and only then writes the
// file, so a serialization failure never leaves a partial config behind.
func WriteFile(path string, root *yaml.Node) error {
	data, err := Serialize(root)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
