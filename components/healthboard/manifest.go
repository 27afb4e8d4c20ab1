package healthboard

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// CardManifestDocument models a YAML manifest describing dashboard cards so
// deployments can register custom cards without code.
type CardManifestDocument struct {
	Version string         `json:"version" yaml:"version"`
	Name    string         `json:"name,omitempty" yaml:"name,omitempty"`
	Cards   []ManifestCard `json:"cards" yaml:"cards"`
	Source  string         `json:"-" yaml:"-"`
}

// ManifestCard describes a single card entry within a manifest.
type ManifestCard struct {
	Descriptor  CardDescriptor `json:"descriptor" yaml:"descriptor"`
	Maintainers []string       `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Tags        []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// LoadManifestFile reads a manifest from disk, registers it against the
// registry, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*CardManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	for _, card := range doc.Cards {
		if err := r.Register(card.Descriptor); err != nil {
			return nil, fmt.Errorf("healthboard: register card %s from %s: %w", card.Descriptor.Type, doc.Source, err)
		}
	}
	return doc, nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*CardManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("healthboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("healthboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*CardManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc CardManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("healthboard: manifest is empty")
		}
		return nil, fmt.Errorf("healthboard: parse manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *CardManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("healthboard: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Cards))
	for idx, card := range doc.Cards {
		if card.Descriptor.Type == "" {
			return fmt.Errorf("healthboard: manifest card at index %d is missing descriptor.type", idx)
		}
		if card.Descriptor.Name == "" {
			return fmt.Errorf("healthboard: manifest card %s missing descriptor.name", card.Descriptor.Type)
		}
		if _, exists := seen[card.Descriptor.Type]; exists {
			return fmt.Errorf("healthboard: manifest duplicates card type %s", card.Descriptor.Type)
		}
		seen[card.Descriptor.Type] = struct{}{}
	}
	return nil
}
