package httpapi

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// Validator checks request bodies against the embedded JSON schemas.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles every embedded schema. Schemas are looked up by
// file name without extension.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	entries, err := schemaFiles.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}

	schemas := make(map[string]*jsonschema.Schema, len(entries))
	for _, entry := range entries {
		data, err := schemaFiles.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", entry.Name(), err)
		}
		url := "https://holdem-engine/schemas/" + entry.Name()
		if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", entry.Name(), err)
		}
		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", entry.Name(), err)
		}
		schemas[strings.TrimSuffix(entry.Name(), ".json")] = schema
	}
	return &Validator{schemas: schemas}, nil
}

// Validate checks data against the named schema.
func (v *Validator) Validate(name string, data []byte) error {
	schema, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("schema not found: %s", name)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
