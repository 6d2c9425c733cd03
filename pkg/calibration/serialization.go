package calibration

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToMap returns the canonical two-level mapping for a calibration: a
// "parameters" section with every Parameters field and a "transformation"
// section with the x, y, z, qx, qy, qz, qw components. Frame ids are not part
// of the mapping; they are rederived on load.
func (c *Calibration) ToMap() map[string]any {
	return map[string]any{
		"parameters": map[string]any{
			"name":                    c.Parameters.Name,
			"eye_in_hand":             c.Parameters.EyeInHand,
			"robot_base_frame":        c.Parameters.RobotBaseFrame,
			"robot_effector_frame":    c.Parameters.RobotEffectorFrame,
			"tracking_base_frame":     c.Parameters.TrackingBaseFrame,
			"tracking_marker_frame":   c.Parameters.TrackingMarkerFrame,
			"freehand_robot_movement": c.Parameters.FreehandRobotMovement,
			"move_group_namespace":    c.Parameters.MoveGroupNamespace,
			"move_group":              c.Parameters.MoveGroup,
		},
		"transformation": map[string]any{
			"x":  c.Transform.Translation.X,
			"y":  c.Transform.Translation.Y,
			"z":  c.Transform.Translation.Z,
			"qx": c.Transform.Rotation.X,
			"qy": c.Transform.Rotation.Y,
			"qz": c.Transform.Rotation.Z,
			"qw": c.Transform.Rotation.W,
		},
	}
}

// FromMap rebuilds a calibration from the mapping produced by ToMap. Missing
// or wrong-typed required keys yield ErrSchemaMismatch. The optional
// move_group keys default when absent; unknown parameter keys are rejected.
func FromMap(m map[string]any) (*Calibration, error) {
	pm, err := section(m, "parameters")
	if err != nil {
		return nil, err
	}
	tm, err := section(m, "transformation")
	if err != nil {
		return nil, err
	}

	params, err := parametersFromMap(pm)
	if err != nil {
		return nil, err
	}

	t := Transform{}
	for key, dst := range map[string]*float64{
		"x":  &t.Translation.X,
		"y":  &t.Translation.Y,
		"z":  &t.Translation.Z,
		"qx": &t.Rotation.X,
		"qy": &t.Rotation.Y,
		"qz": &t.Rotation.Z,
		"qw": &t.Rotation.W,
	} {
		v, ok := tm[key]
		if !ok {
			return nil, fmt.Errorf("%w: transformation.%s is missing", ErrSchemaMismatch, key)
		}
		f, ok := floatValue(v)
		if !ok {
			return nil, fmt.Errorf("%w: transformation.%s is not a number", ErrSchemaMismatch, key)
		}
		*dst = f
	}

	return New(params, &t), nil
}

func parametersFromMap(pm map[string]any) (Parameters, error) {
	var p Parameters

	required := map[string]any{
		"name":                    &p.Name,
		"eye_in_hand":             &p.EyeInHand,
		"robot_base_frame":        &p.RobotBaseFrame,
		"robot_effector_frame":    &p.RobotEffectorFrame,
		"tracking_base_frame":     &p.TrackingBaseFrame,
		"tracking_marker_frame":   &p.TrackingMarkerFrame,
		"freehand_robot_movement": &p.FreehandRobotMovement,
	}
	optional := map[string]*string{
		"move_group_namespace": &p.MoveGroupNamespace,
		"move_group":           &p.MoveGroup,
	}

	for key := range pm {
		if _, ok := required[key]; ok {
			continue
		}
		if _, ok := optional[key]; ok {
			continue
		}
		return p, fmt.Errorf("%w: unknown parameter %q", ErrSchemaMismatch, key)
	}

	for key, dst := range required {
		v, ok := pm[key]
		if !ok {
			return p, fmt.Errorf("%w: parameters.%s is missing", ErrSchemaMismatch, key)
		}
		switch d := dst.(type) {
		case *string:
			s, ok := v.(string)
			if !ok {
				return p, fmt.Errorf("%w: parameters.%s is not a string", ErrSchemaMismatch, key)
			}
			*d = s
		case *bool:
			b, ok := v.(bool)
			if !ok {
				return p, fmt.Errorf("%w: parameters.%s is not a bool", ErrSchemaMismatch, key)
			}
			*d = b
		}
	}

	for key, dst := range optional {
		v, ok := pm[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return p, fmt.Errorf("%w: parameters.%s is not a string", ErrSchemaMismatch, key)
		}
		*dst = s
	}

	return p, nil
}

func section(m map[string]any, key string) (map[string]any, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s section is missing", ErrSchemaMismatch, key)
	}
	s, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a mapping", ErrSchemaMismatch, key)
	}
	return s, nil
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// yamlTransform mirrors the "transformation" section with a stable key order.
type yamlTransform struct {
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
	Z  float64 `yaml:"z"`
	QX float64 `yaml:"qx"`
	QY float64 `yaml:"qy"`
	QZ float64 `yaml:"qz"`
	QW float64 `yaml:"qw"`
}

type yamlCalibration struct {
	Parameters     Parameters    `yaml:"parameters"`
	Transformation yamlTransform `yaml:"transformation"`
}

// ToYAML serializes the calibration as block-style YAML with the same shape
// as ToMap.
func (c *Calibration) ToYAML() (string, error) {
	doc := yamlCalibration{
		Parameters: c.Parameters,
		Transformation: yamlTransform{
			X:  c.Transform.Translation.X,
			Y:  c.Transform.Translation.Y,
			Z:  c.Transform.Translation.Z,
			QX: c.Transform.Rotation.X,
			QY: c.Transform.Rotation.Y,
			QZ: c.Transform.Rotation.Z,
			QW: c.Transform.Rotation.W,
		},
	}

	b, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal calibration: %w", err)
	}
	return string(b), nil
}

// FromYAML parses a YAML document and rebuilds the calibration via FromMap.
// Malformed YAML is reported as a parse failure, distinct from
// ErrSchemaMismatch.
func FromYAML(text string) (*Calibration, error) {
	var m map[string]any
	if err := yaml.Unmarshal([]byte(text), &m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return FromMap(m)
}
