// Package sampler accumulates the paired robot and tracking transforms a
// hand-eye calibration is computed from.
package sampler

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/robokit/handeye/pkg/calibration"
)

// Source supplies the current transform between two named frames.
// frames.Buffer satisfies it.
type Source interface {
	Lookup(parent, child string) (calibration.Transform, error)
}

// Sample is one paired acquisition: the robot transform and the optical
// (tracking) transform taken at the same instant.
type Sample struct {
	Robot   calibration.Transform `json:"robot"`
	Optical calibration.Transform `json:"optical"`
}

// Sampler takes samples for one calibration setup. Safe for concurrent use;
// HTTP handlers and the auto-sampling scheduler share it.
type Sampler struct {
	params calibration.Parameters
	source Source

	mu      sync.Mutex
	samples []Sample
}

func New(params calibration.Parameters, source Source) *Sampler {
	return &Sampler{
		params: params.WithDefaults(),
		source: source,
	}
}

// Take samples the robot and optical transforms and appends the pair.
//
// For eye-in-hand setups the robot transform is base→effector; for
// eye-to-hand it is inverted to effector→base so that the solver sees a
// uniform AX=XB problem in both configurations.
func (s *Sampler) Take() (Sample, error) {
	var robot calibration.Transform
	var err error

	if s.params.EyeInHand {
		robot, err = s.source.Lookup(s.params.RobotBaseFrame, s.params.RobotEffectorFrame)
	} else {
		robot, err = s.source.Lookup(s.params.RobotEffectorFrame, s.params.RobotBaseFrame)
	}
	if err != nil {
		return Sample{}, fmt.Errorf("failed to sample robot transform: %w", err)
	}

	optical, err := s.source.Lookup(s.params.TrackingBaseFrame, s.params.TrackingMarkerFrame)
	if err != nil {
		return Sample{}, fmt.Errorf("failed to sample tracking transform: %w", err)
	}

	sample := Sample{Robot: robot, Optical: optical}

	s.mu.Lock()
	s.samples = append(s.samples, sample)
	count := len(s.samples)
	s.mu.Unlock()

	logrus.Debugf("took sample %d", count)

	return sample, nil
}

// Ready reports whether both transforms could be sampled right now, without
// storing anything. The auto-sampling scheduler uses it as a precheck.
func (s *Sampler) Ready() error {
	var err error
	if s.params.EyeInHand {
		_, err = s.source.Lookup(s.params.RobotBaseFrame, s.params.RobotEffectorFrame)
	} else {
		_, err = s.source.Lookup(s.params.RobotEffectorFrame, s.params.RobotBaseFrame)
	}
	if err != nil {
		return fmt.Errorf("robot transform unavailable: %w", err)
	}

	if _, err := s.source.Lookup(s.params.TrackingBaseFrame, s.params.TrackingMarkerFrame); err != nil {
		return fmt.Errorf("tracking transform unavailable: %w", err)
	}
	return nil
}

// Remove deletes the sample at the given index.
func (s *Sampler) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.samples) {
		return fmt.Errorf("sample index %d out of range [0, %d)", index, len(s.samples))
	}
	s.samples = append(s.samples[:index], s.samples[index+1:]...)
	return nil
}

// RemoveLast drops the most recent sample, if any.
func (s *Sampler) RemoveLast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.samples) > 0 {
		s.samples = s.samples[:len(s.samples)-1]
	}
}

// Samples returns a copy of the accumulated samples.
func (s *Sampler) Samples() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Count returns the number of accumulated samples.
func (s *Sampler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}
