package healthboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator validates card configuration payloads against their schema.
type ConfigValidator interface {
	Validate(desc CardDescriptor, config map[string]any) error
}

// JSONSchemaValidator compiles card schemas and validates configuration maps.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the provided configuration satisfies the card schema.
func (v *JSONSchemaValidator) Validate(desc CardDescriptor, config map[string]any) error {
	if len(desc.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(desc)
	if err != nil {
		return err
	}
	payload := map[string]any{}
	if config != nil {
		data, err := json.Marshal(config)
		if err != nil {
			return fmt.Errorf("healthboard: marshal config for %s: %w", desc.Type, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("healthboard: normalize config for %s: %w", desc.Type, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("healthboard: configuration for %s failed validation: %w", desc.Type, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(desc CardDescriptor) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[desc.Type]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(desc.Schema)
	if err != nil {
		return nil, fmt.Errorf("healthboard: marshal schema %s: %w", desc.Type, err)
	}
	compiler := jsonschema.NewCompiler()
	name := desc.Type + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("healthboard: load schema %s: %w", desc.Type, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("healthboard: compile schema %s: %w", desc.Type, err)
	}
	v.mu.Lock()
	v.compiled[desc.Type] = compiled
	v.mu.Unlock()
	return compiled, nil
}
