package sampler

import (
	"errors"
	"testing"

	"github.com/robokit/handeye/pkg/calibration"
)

// fakeSource records lookups and serves canned transforms per edge.
type fakeSource struct {
	transforms map[[2]string]calibration.Transform
	lookups    [][2]string
	err        error
}

func (f *fakeSource) Lookup(parent, child string) (calibration.Transform, error) {
	f.lookups = append(f.lookups, [2]string{parent, child})
	if f.err != nil {
		return calibration.Transform{}, f.err
	}
	t, ok := f.transforms[[2]string{parent, child}]
	if !ok {
		return calibration.Transform{}, errors.New("no such edge")
	}
	return t, nil
}

func testParams(eyeInHand bool) calibration.Parameters {
	return calibration.Parameters{
		Name:                "cal1",
		EyeInHand:           eyeInHand,
		RobotBaseFrame:      "base_link",
		RobotEffectorFrame:  "tool0",
		TrackingBaseFrame:   "camera_link",
		TrackingMarkerFrame: "marker",
	}
}

func fullSource() *fakeSource {
	return &fakeSource{transforms: map[[2]string]calibration.Transform{
		{"base_link", "tool0"}:      {Translation: calibration.Vector3{X: 1}, Rotation: calibration.Quaternion{W: 1}},
		{"tool0", "base_link"}:      {Translation: calibration.Vector3{X: -1}, Rotation: calibration.Quaternion{W: 1}},
		{"camera_link", "marker"}:   {Translation: calibration.Vector3{Z: 2}, Rotation: calibration.Quaternion{W: 1}},
	}}
}

func TestTakeEyeInHand(t *testing.T) {
	source := fullSource()
	s := New(testParams(true), source)

	sample, err := s.Take()
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	if sample.Robot.Translation.X != 1 {
		t.Errorf("robot sample = %+v, want base_link -> tool0", sample.Robot)
	}
	if sample.Optical.Translation.Z != 2 {
		t.Errorf("optical sample = %+v, want camera_link -> marker", sample.Optical)
	}
	if source.lookups[0] != [2]string{"base_link", "tool0"} {
		t.Errorf("robot lookup was %v, want base_link -> tool0", source.lookups[0])
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
}

func TestTakeEyeToHandInvertsRobotLookup(t *testing.T) {
	source := fullSource()
	s := New(testParams(false), source)

	if _, err := s.Take(); err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if source.lookups[0] != [2]string{"tool0", "base_link"} {
		t.Errorf("robot lookup was %v, want tool0 -> base_link", source.lookups[0])
	}
}

func TestTakeSourceError(t *testing.T) {
	wantErr := errors.New("tracker offline")
	s := New(testParams(true), &fakeSource{err: wantErr})

	if _, err := s.Take(); !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped source error, got %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("failed Take must not store a sample, got %d", s.Count())
	}
}

func TestRemove(t *testing.T) {
	s := New(testParams(true), fullSource())
	for i := 0; i < 3; i++ {
		if _, err := s.Take(); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Remove(1); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if s.Count() != 2 {
		t.Errorf("Count = %d, want 2", s.Count())
	}

	if err := s.Remove(5); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if err := s.Remove(-1); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestRemoveLast(t *testing.T) {
	s := New(testParams(true), fullSource())
	s.RemoveLast() // no-op when empty

	if _, err := s.Take(); err != nil {
		t.Fatal(err)
	}
	s.RemoveLast()
	if s.Count() != 0 {
		t.Errorf("Count = %d, want 0", s.Count())
	}
}

func TestSamplesReturnsCopy(t *testing.T) {
	s := New(testParams(true), fullSource())
	if _, err := s.Take(); err != nil {
		t.Fatal(err)
	}

	samples := s.Samples()
	samples[0].Robot.Translation.X = 99

	if s.Samples()[0].Robot.Translation.X == 99 {
		t.Error("Samples must return a copy")
	}
}

func TestReady(t *testing.T) {
	source := fullSource()
	s := New(testParams(true), source)

	if err := s.Ready(); err != nil {
		t.Fatalf("Ready failed: %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("Ready must not store a sample, Count = %d", s.Count())
	}
}

func TestReadyMissingTracking(t *testing.T) {
	source := fullSource()
	delete(source.transforms, [2]string{"camera_link", "marker"})
	s := New(testParams(true), source)

	if err := s.Ready(); err == nil {
		t.Fatal("expected error when tracking transform is missing")
	}
}
