package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a registry artifact from the given file path.
//
// The file format is determined by extension: .yaml/.yml for YAML, anything
// else is treated as JSON (the canonical artifact is workflows/registry.json).
//
// Returns an error if:
//   - The file cannot be read (not found, permission denied, etc.)
//   - The content is not valid JSON or YAML
//   - The document is empty, an entry has an empty key, or keys collide
//
// All load errors are fatal at process start; no partial registry is served.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("registry file not found: %s", path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("permission denied reading registry: %s", path)
		}
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}
	return LoadFromBytes(data, path)
}

// LoadFromBytes parses and validates a registry document from raw bytes.
// The path parameter is used for error messages and format detection.
func LoadFromBytes(data []byte, path string) (*Registry, error) {
	if len(data) == 0 {
		return nil, errors.New("registry file is empty")
	}

	var doc document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML in registry: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON in registry: %w", err)
		}
	}

	return build(doc)
}

func build(doc document) (*Registry, error) {
	if len(doc.Workflows) == 0 {
		return nil, errors.New("registry contains no workflows")
	}

	entries := make(map[string]Entry, len(doc.Workflows))
	keys := make([]string, 0, len(doc.Workflows))
	for i, e := range doc.Workflows {
		key := e.Key
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("registry entry %d has an empty key", i)
		}
		if _, dup := entries[key]; dup {
			return nil, fmt.Errorf("duplicate workflow key %q in registry", key)
		}
		entries[key] = e
		keys = append(keys, key)
	}

	return &Registry{entries: entries, keys: keys}, nil
}
