package modifier

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk layout of a modifier catalog.
type catalogFile struct {
	// Extend keeps the built-in tables and layers the file's entries on top.
	Extend    bool          `yaml:"extend"`
	Items     []*ItemDef    `yaml:"items"`
	Abilities []*AbilityDef `yaml:"abilities"`
}

// LoadFile reads a YAML catalog from path.
//
// When the file sets extend: true, its entries replace or add to the
// built-in tables; otherwise the file is the whole catalog.
//
// Precondition: path must be a readable YAML file.
// Postcondition: Returns a non-nil Catalog, or an error if the file fails to parse or any entry is invalid.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading modifier catalog %q: %w", path, err)
	}
	var f catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing modifier catalog %q: %w", path, err)
	}

	c := NewCatalog()
	if f.Extend {
		c = Default()
		for _, d := range f.Items {
			delete(c.items, normalizeID(d.ID))
		}
		for _, d := range f.Abilities {
			delete(c.abilities, normalizeID(d.ID))
		}
	}
	for _, d := range f.Items {
		if err := c.RegisterItem(d); err != nil {
			return nil, fmt.Errorf("modifier catalog %q: %w", path, err)
		}
	}
	for _, d := range f.Abilities {
		if err := c.RegisterAbility(d); err != nil {
			return nil, fmt.Errorf("modifier catalog %q: %w", path, err)
		}
	}
	return c, nil
}
