package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NewFileProvider reads a flat YAML mapping of parameter name to scalar value
// and serves it through a MapProvider, e.g.:
//
//	name: my_calibration
//	eye_in_hand: true
//	robot_base_frame: base_link
func NewFileProvider(path string) (*MapProvider, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file: %w", err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(b, &values); err != nil {
		return nil, fmt.Errorf("failed to parse parameter file %s: %w", path, err)
	}

	return NewMapProvider(values), nil
}
