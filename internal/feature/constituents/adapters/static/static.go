// Package static provides the bundled constituent list used when the live source fails.
package static

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"marketcolor/internal/feature/constituents/domain/entity"
)

//go:embed sp500.yaml
var bundled []byte

type document struct {
	Constituents []entity.Constituent `yaml:"constituents"`
}

// Load decodes the bundled list.
func Load() ([]entity.Constituent, error) {
	return Decode(bundled)
}

// Decode parses a constituent list document.
func Decode(b []byte) ([]entity.Constituent, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode constituent list: %w", err)
	}
	return doc.Constituents, nil
}
