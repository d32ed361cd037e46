// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"nagarik-sewa/internal/catalog"
	"nagarik-sewa/internal/common/validation"
)

var catalogSchema = validation.MustCompile("catalog", CatalogSchema)

// Validate checks a catalog file body against CatalogSchema.
func Validate(data []byte) *validation.ValidationResult {
	return catalogSchema.ValidateBytes(data)
}

// Parse validates data and builds a catalog from it.
func Parse(data []byte) (*catalog.Catalog, error) {
	if err := Validate(data).Err(); err != nil {
		return nil, err
	}
	var def catalog.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return catalog.New(def)
}

// LoadCatalog reads a catalog file. An empty path yields the built-in catalog.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Export renders def as an indented catalog file.
func Export(def catalog.Definition) ([]byte, error) {
	return json.MarshalIndent(def, "", "  ")
}
