package calibration

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func useTempDir(t *testing.T) string {
	t.Helper()
	orig := Dir
	Dir = filepath.Join(t.TempDir(), "calibrations")
	t.Cleanup(func() { Dir = orig })
	return Dir
}

func TestFilenameForName(t *testing.T) {
	dir := useTempDir(t)

	cases := []struct {
		name string
		want string
	}{
		{"cal1", filepath.Join(dir, "cal1.yaml")},
		{"/ns/cal1", filepath.Join(dir, "cal1.yaml")},
		{"/ns/cal1/", filepath.Join(dir, "cal1.yaml")},
	}

	for _, tc := range cases {
		got, err := FilenameForName(tc.name)
		if err != nil {
			t.Errorf("FilenameForName(%q) failed: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("FilenameForName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFilenameForNameEmpty(t *testing.T) {
	for _, name := range []string{"", "/", "///"} {
		if _, err := FilenameForName(name); !errors.Is(err, ErrEmptyName) {
			t.Errorf("FilenameForName(%q): expected ErrEmptyName, got %v", name, err)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := useTempDir(t)
	orig := testCalibration()

	if err := orig.SaveToFile(); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	// The directory must have been created on first save.
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("storage directory not created: %v", err)
	}

	got, err := LoadFromFile("cal1")
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if got.Parameters != orig.Parameters {
		t.Errorf("parameters = %+v, want %+v", got.Parameters, orig.Parameters)
	}
	if got.Transform != orig.Transform {
		t.Errorf("transform = %+v, want %+v", got.Transform, orig.Transform)
	}
}

func TestLoadFromPath(t *testing.T) {
	useTempDir(t)

	text := `parameters:
  name: cal1
  eye_in_hand: true
  robot_base_frame: base_link
  robot_effector_frame: tool0
  tracking_base_frame: camera_link
  tracking_marker_frame: marker
  freehand_robot_movement: false
  move_group_namespace: /
  move_group: manipulator
transformation:
  x: 1.0
  y: 2.0
  z: 3.0
  qx: 0.0
  qy: 0.0
  qz: 0.0
  qw: 1.0
`
	path := filepath.Join(t.TempDir(), "cal1.yaml")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if got.Parameters.Name != "cal1" || !got.Parameters.EyeInHand {
		t.Errorf("unexpected parameters: %+v", got.Parameters)
	}
	if got.Transform.Translation != (Vector3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("unexpected translation: %+v", got.Transform.Translation)
	}
	if got.FrameID != "tool0" {
		t.Errorf("frame_id = %q, want tool0", got.FrameID)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveToFileWithoutName(t *testing.T) {
	useTempDir(t)

	c := testCalibration()
	c.Parameters.Name = ""
	if err := c.SaveToFile(); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}
