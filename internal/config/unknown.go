package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// LoadWithWarnings parses config data and returns any unknown field
// warnings. path selects the format.
func LoadWithWarnings(path string, data []byte) (*Config, []string, error) {
	var cfg Config
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := decode(path, data, &cfg); err != nil {
			return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	raw, err := decodeRaw(path, data)
	if err != nil {
		// This should never happen since the data was already parsed successfully.
		return &cfg, []string{"internal: failed to re-parse config for unknown field detection"}, nil
	}

	return &cfg, detectUnknownFields(raw), nil
}

// detectUnknownFields compares the decoded document with known struct
// fields. Warnings are sorted for stable output.
func detectUnknownFields(raw map[string]any) []string {
	var warnings []string

	knownTopLevel := getFieldNames(reflect.TypeOf(Config{}))
	for key := range raw {
		if key == "$schema" {
			continue // $schema is explicitly allowed and ignored
		}
		if !knownTopLevel[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
		}
	}

	if section, ok := raw["schema"].(map[string]any); ok {
		known := getFieldNames(reflect.TypeOf(SchemaConfig{}))
		for key := range section {
			if !known[key] {
				warnings = append(warnings, fmt.Sprintf("unknown field %q in section \"schema\" (ignored)", key))
			}
		}
	}

	sort.Strings(warnings)
	return warnings
}

// getFieldNames returns the known field names for a struct type, taken
// from its json tags.
func getFieldNames(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			fields[name] = true
		}
	}
	return fields
}
