package healthboard

import "testing"

func TestNewRegistrySeedsDefaultCard(t *testing.T) {
	reg := NewRegistry()
	desc, ok := reg.Descriptor(CardType)
	if !ok {
		t.Fatal("built-in card descriptor not registered")
	}
	if desc.Name == "" || desc.Description == "" {
		t.Fatalf("descriptor missing metadata: %#v", desc)
	}
}

func TestRegistryRejectsEmptyType(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(CardDescriptor{Name: "Nameless"}); err == nil {
		t.Fatal("expected error for descriptor without type")
	}
}

func TestValidateConfig(t *testing.T) {
	reg := NewRegistry()
	if err := reg.ValidateConfig(CardType, map[string]any{"title": "Family"}); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if err := reg.ValidateConfig(CardType, map[string]any{"title": 42}); err == nil {
		t.Fatal("non-string title accepted")
	}
	// Unknown card types validate trivially.
	if err := reg.ValidateConfig("acme.card.unknown", map[string]any{"anything": true}); err != nil {
		t.Fatalf("unknown card type should not error: %v", err)
	}
}

func TestRegisterCardHookRunsOnNewRegistries(t *testing.T) {
	RegisterCardHook(func(reg *Registry) error {
		return reg.Register(CardDescriptor{Type: "test.card.hooked", Name: "Hooked"})
	})
	reg := NewRegistry()
	if _, ok := reg.Descriptor("test.card.hooked"); !ok {
		t.Fatal("hook-registered descriptor missing")
	}
}
