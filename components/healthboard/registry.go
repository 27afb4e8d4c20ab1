package healthboard

import (
	"fmt"
	"sync"
)

// CardHook lets packages register card descriptors during init().
type CardHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []CardHook
)

// RegisterCardHook registers a hook executed against new registries.
func RegisterCardHook(h CardHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// CardDescriptor publishes the static metadata a host configuration UI needs
// to discover a card: its type name, display name, description, and the JSON
// schema of its configuration.
type CardDescriptor struct {
	Type        string         `json:"type" yaml:"type"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string         `json:"category,omitempty" yaml:"category,omitempty"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Registry holds card descriptors. Registration happens once at bootstrap;
// lookups are concurrency-safe afterwards.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]CardDescriptor
	validator   ConfigValidator
}

// NewRegistry builds a registry seeded with the built-in metrics card and
// applies global hooks.
func NewRegistry() *Registry {
	reg := &Registry{
		descriptors: map[string]CardDescriptor{},
		validator:   NewJSONSchemaValidator(),
	}
	_ = reg.Register(DefaultCardDescriptor())
	_ = reg.ApplyHooks()
	return reg
}

// DefaultCardDescriptor describes the built-in metrics dashboard card.
func DefaultCardDescriptor() CardDescriptor {
	return CardDescriptor{
		Type:        CardType,
		Name:        "Health Bridge Dashboard",
		Description: "Displays health metrics from Health Bridge grouped by user",
		Category:    "health",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
			},
		},
	}
}

// ApplyHooks executes registered card hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// Register stores a card descriptor.
func (r *Registry) Register(desc CardDescriptor) error {
	if desc.Type == "" {
		return fmt.Errorf("healthboard: card type is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors[desc.Type] = desc
	return nil
}

// Descriptor fetches a card descriptor by type name.
func (r *Registry) Descriptor(cardType string) (CardDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.descriptors[cardType]
	return desc, ok
}

// Descriptors returns all registered descriptors.
func (r *Registry) Descriptors() []CardDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CardDescriptor, 0, len(r.descriptors))
	for _, desc := range r.descriptors {
		out = append(out, desc)
	}
	return out
}

// ValidateConfig checks a configuration payload against the descriptor's
// schema. Unknown card types validate trivially.
func (r *Registry) ValidateConfig(cardType string, config map[string]any) error {
	desc, ok := r.Descriptor(cardType)
	if !ok {
		return nil
	}
	return r.validator.Validate(desc, config)
}
