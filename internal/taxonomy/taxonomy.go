package taxonomy

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/selfcheck/internal/model"
)

//go:embed data/school.yaml
var defaultTaxonomy []byte

// file is the on-disk layout of a taxonomy.
type file struct {
	Dimensions []model.Dimension `yaml:"dimensions"`
}

// Default returns the built-in taxonomy.
func Default() *model.Taxonomy {
	tax, err := Parse(defaultTaxonomy)
	if err != nil {
		// The embedded file is part of the build; a decoding error is a
		// programming error.
		panic(fmt.Sprintf("taxonomy: built-in taxonomy is invalid: %v", err))
	}
	return tax
}

// Load reads a taxonomy file. An empty path returns the built-in taxonomy.
func Load(path string) (*model.Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-provided taxonomy path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy: %w", err)
	}

	tax, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tax, nil
}

// Parse decodes a taxonomy from YAML.
func Parse(data []byte) (*model.Taxonomy, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(f.Dimensions) == 0 {
		return nil, ErrEmptyTaxonomy
	}
	return model.NewTaxonomy(f.Dimensions), nil
}

// Raw returns the YAML source of the built-in taxonomy, used as a starting
// point for custom taxonomies.
func Raw() []byte {
	out := make([]byte, len(defaultTaxonomy))
	copy(out, defaultTaxonomy)
	return out
}
