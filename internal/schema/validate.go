// Package schema validates projected events and configuration documents
// against the embedded JSON schemas.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/AndreyAkinshin/testrelay/internal/errors"
	"github.com/AndreyAkinshin/testrelay/internal/event"
	schemafs "github.com/AndreyAkinshin/testrelay/schema"
)

const (
	eventsResource = "events.schema.json"
	configResource = "config.schema.json"
)

var (
	envelopeSchema *jsonschema.Schema
	configSchema   *jsonschema.Schema
	eventSchemas   map[event.Kind]*jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// DefName returns the $defs key describing kind's data.
func DefName(kind event.Kind) string {
	return strings.ReplaceAll(kind.String(), ":", "-")
}

// compileSchemas compiles all embedded schemas once.
func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		for _, name := range []string{eventsResource, configResource} {
			data, err := schemafs.FS.ReadFile(name)
			if err != nil {
				compileErr = fmt.Errorf("read %s: %w", name, err)
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
			if err != nil {
				compileErr = fmt.Errorf("unmarshal %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(name, doc); err != nil {
				compileErr = fmt.Errorf("add %s resource: %w", name, err)
				return
			}
		}

		var err error
		envelopeSchema, err = compiler.Compile(eventsResource)
		if err != nil {
			compileErr = fmt.Errorf("compile envelope schema: %w", err)
			return
		}
		configSchema, err = compiler.Compile(configResource)
		if err != nil {
			compileErr = fmt.Errorf("compile config schema: %w", err)
			return
		}

		eventSchemas = make(map[event.Kind]*jsonschema.Schema)
		for _, kind := range event.Kinds() {
			s, err := compiler.Compile(eventsResource + "#/$defs/" + DefName(kind))
			if err != nil {
				compileErr = fmt.Errorf("compile %s schema: %w", kind, err)
				return
			}
			eventSchemas[kind] = s
		}
	})

	return compileErr
}

// ValidateEvent checks a projected payload against the schema for kind.
// Violations are reported as validation errors naming the event.
func ValidateEvent(kind event.Kind, p event.Payload) error {
	if err := compileSchemas(); err != nil {
		return err
	}
	s, ok := eventSchemas[kind]
	if !ok {
		return errors.Validation(kind.String(), fmt.Errorf("no schema for event kind %d", int(kind)))
	}

	data, err := json.Marshal(map[string]any(p))
	if err != nil {
		return errors.Validation(kind.String(), fmt.Errorf("payload is not JSON: %w", err))
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return errors.Validation(kind.String(), err)
	}
	if err := s.Validate(v); err != nil {
		return errors.Validation(kind.String(), err)
	}
	return nil
}

// ValidateLine checks one NDJSON envelope: the envelope shape first, then
// its data against the schema of the named event.
func ValidateLine(line []byte) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(line))
	if err != nil {
		return errors.Validation("", fmt.Errorf("invalid JSON: %w", err))
	}
	if err := envelopeSchema.Validate(v); err != nil {
		return errors.Validation("", err)
	}

	// The envelope schema guarantees an object with a known event name.
	obj := v.(map[string]any)
	name := obj["event"].(string)
	kind, _ := event.ParseKind(name)
	data, ok := obj["data"]
	if !ok {
		data = map[string]any{}
	}
	if err := eventSchemas[kind].Validate(data); err != nil {
		return errors.Validation(name, err)
	}
	return nil
}

// ValidateConfig validates a configuration document, already decoded from
// YAML, TOML or JSON into generic values, against the config schema.
func ValidateConfig(doc any) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	// Round-trip through JSON so that YAML and TOML scalars take the
	// shapes the validator expects.
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("invalid config document: %w", err)
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := configSchema.Validate(v); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
