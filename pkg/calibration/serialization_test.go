package calibration

import (
	"errors"
	"strings"
	"testing"
)

func testCalibration() *Calibration {
	return New(testParameters(), &Transform{
		Translation: Vector3{X: 1.0, Y: 2.0, Z: 3.0},
		Rotation:    Quaternion{X: 0, Y: 0, Z: 0, W: 1},
	})
}

func TestToMapShape(t *testing.T) {
	m := testCalibration().ToMap()

	pm, ok := m["parameters"].(map[string]any)
	if !ok {
		t.Fatalf("parameters section missing or wrong type: %#v", m["parameters"])
	}
	tm, ok := m["transformation"].(map[string]any)
	if !ok {
		t.Fatalf("transformation section missing or wrong type: %#v", m["transformation"])
	}

	if pm["name"] != "cal1" {
		t.Errorf("parameters.name = %v, want cal1", pm["name"])
	}
	if pm["eye_in_hand"] != true {
		t.Errorf("parameters.eye_in_hand = %v, want true", pm["eye_in_hand"])
	}
	if pm["move_group_namespace"] != "/" || pm["move_group"] != "manipulator" {
		t.Errorf("defaults not present in map: %v, %v", pm["move_group_namespace"], pm["move_group"])
	}

	want := map[string]float64{"x": 1.0, "y": 2.0, "z": 3.0, "qx": 0, "qy": 0, "qz": 0, "qw": 1}
	for k, v := range want {
		if tm[k] != v {
			t.Errorf("transformation.%s = %v, want %v", k, tm[k], v)
		}
	}
}

func TestMapRoundTrip(t *testing.T) {
	orig := testCalibration()

	got, err := FromMap(orig.ToMap())
	if err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}

	if got.Parameters != orig.Parameters {
		t.Errorf("parameters = %+v, want %+v", got.Parameters, orig.Parameters)
	}
	if got.Transform != orig.Transform {
		t.Errorf("transform = %+v, want %+v", got.Transform, orig.Transform)
	}
	if got.FrameID != "tool0" || got.ChildFrameID != "camera_link" {
		t.Errorf("frame ids = %q/%q, want tool0/camera_link", got.FrameID, got.ChildFrameID)
	}
}

func TestFromMapRederivesFrameIDs(t *testing.T) {
	p := testParameters()
	p.EyeInHand = false
	m := New(p, nil).ToMap()

	got, err := FromMap(m)
	if err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}
	if got.FrameID != "base_link" {
		t.Errorf("frame_id = %q, want base_link", got.FrameID)
	}
}

func TestFromMapDefaultsOptionalKeys(t *testing.T) {
	m := testCalibration().ToMap()
	pm := m["parameters"].(map[string]any)
	delete(pm, "move_group_namespace")
	delete(pm, "move_group")

	got, err := FromMap(m)
	if err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}
	if got.Parameters.MoveGroupNamespace != "/" || got.Parameters.MoveGroup != "manipulator" {
		t.Errorf("optional keys not defaulted: %+v", got.Parameters)
	}
}

func TestFromMapSchemaMismatch(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(m map[string]any)
	}{
		{"missing transformation section", func(m map[string]any) {
			delete(m, "transformation")
		}},
		{"missing parameters section", func(m map[string]any) {
			delete(m, "parameters")
		}},
		{"missing transformation key", func(m map[string]any) {
			delete(m["transformation"].(map[string]any), "qw")
		}},
		{"non-numeric transformation key", func(m map[string]any) {
			m["transformation"].(map[string]any)["x"] = "one"
		}},
		{"missing required parameter", func(m map[string]any) {
			delete(m["parameters"].(map[string]any), "robot_base_frame")
		}},
		{"wrong-typed parameter", func(m map[string]any) {
			m["parameters"].(map[string]any)["eye_in_hand"] = "yes"
		}},
		{"unknown parameter", func(m map[string]any) {
			m["parameters"].(map[string]any)["extra"] = 1
		}},
		{"parameters not a mapping", func(m map[string]any) {
			m["parameters"] = "nope"
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := testCalibration().ToMap()
			tc.mutate(m)

			_, err := FromMap(m)
			if !errors.Is(err, ErrSchemaMismatch) {
				t.Errorf("expected ErrSchemaMismatch, got %v", err)
			}
		})
	}
}

func TestFromMapAcceptsIntegerComponents(t *testing.T) {
	// YAML decodes whole numbers as ints; the transformation section must
	// still parse.
	m := testCalibration().ToMap()
	tm := m["transformation"].(map[string]any)
	tm["x"] = 1
	tm["qw"] = 1

	got, err := FromMap(m)
	if err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}
	if got.Transform.Translation.X != 1 || got.Transform.Rotation.W != 1 {
		t.Errorf("integer components not converted: %+v", got.Transform)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	orig := New(Parameters{
		Name:                  "ns/cal2",
		EyeInHand:             false,
		RobotBaseFrame:        "base",
		RobotEffectorFrame:    "flange",
		TrackingBaseFrame:     "optical",
		TrackingMarkerFrame:   "target",
		FreehandRobotMovement: false,
		MoveGroupNamespace:    "/left",
		MoveGroup:             "left_arm",
	}, &Transform{
		Translation: Vector3{X: 0.25, Y: -0.125, Z: 1.5},
		Rotation:    Quaternion{X: 0.5, Y: 0.5, Z: 0.5, W: 0.5},
	})

	text, err := orig.ToYAML()
	if err != nil {
		t.Fatalf("ToYAML failed: %v", err)
	}

	got, err := FromYAML(text)
	if err != nil {
		t.Fatalf("FromYAML failed: %v", err)
	}

	if got.Parameters != orig.Parameters {
		t.Errorf("parameters = %+v, want %+v", got.Parameters, orig.Parameters)
	}
	if got.Transform != orig.Transform {
		t.Errorf("transform = %+v, want %+v", got.Transform, orig.Transform)
	}
	if got.FrameID != "base" || got.ChildFrameID != "optical" {
		t.Errorf("frame ids = %q/%q, want base/optical", got.FrameID, got.ChildFrameID)
	}
}

func TestToYAMLIsBlockStyle(t *testing.T) {
	text, err := testCalibration().ToYAML()
	if err != nil {
		t.Fatalf("ToYAML failed: %v", err)
	}

	if strings.Contains(text, "{") || strings.Contains(text, "[") {
		t.Errorf("expected block-style YAML, got flow style:\n%s", text)
	}
	for _, key := range []string{"parameters:", "transformation:", "eye_in_hand:", "qw:"} {
		if !strings.Contains(text, key) {
			t.Errorf("expected %q in output:\n%s", key, text)
		}
	}
}

func TestFromYAMLParseError(t *testing.T) {
	_, err := FromYAML("parameters: [unclosed")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("malformed YAML reported as schema mismatch: %v", err)
	}
}
