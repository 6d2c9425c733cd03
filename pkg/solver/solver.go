// Package solver estimates the hand-eye transform from accumulated samples.
// Backends are pluggable and selected by a "backend/algorithm" qualified
// name.
package solver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robokit/handeye/pkg/calibration"
	"github.com/robokit/handeye/pkg/sampler"
)

var (
	// ErrUnknownAlgorithm is returned when a backend or algorithm name does
	// not resolve.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrNotEnoughSamples is returned when fewer samples are available than
	// the algorithm needs.
	ErrNotEnoughSamples = errors.New("not enough samples")
)

// Backend computes calibrations with one or more named algorithms.
type Backend interface {
	Name() string
	Algorithms() []string
	Compute(params calibration.Parameters, samples []sampler.Sample, algorithm string) (*calibration.Calibration, error)
}

// DefaultAlgorithm is the qualified algorithm a daemon starts with.
const DefaultAlgorithm = "Builtin/Tsai-Lenz"

// Registry holds the available backends.
type Registry struct {
	order    []string
	backends map[string]Backend
}

func NewRegistry(backends ...Backend) *Registry {
	r := &Registry{backends: map[string]Backend{}}
	for _, b := range backends {
		r.order = append(r.order, b.Name())
		r.backends[b.Name()] = b
	}
	return r
}

// Algorithms lists every available algorithm as "backend/algorithm".
func (r *Registry) Algorithms() []string {
	var out []string
	for _, name := range r.order {
		for _, alg := range r.backends[name].Algorithms() {
			out = append(out, name+"/"+alg)
		}
	}
	return out
}

// Resolve splits a qualified algorithm name and returns the backend and the
// backend-local algorithm name.
func (r *Registry) Resolve(qualified string) (Backend, string, error) {
	parts := strings.SplitN(qualified, "/", 2)
	if len(parts) != 2 {
		return nil, "", fmt.Errorf("%w: %q is not of the form backend/algorithm", ErrUnknownAlgorithm, qualified)
	}

	backend, ok := r.backends[parts[0]]
	if !ok {
		return nil, "", fmt.Errorf("%w: no backend %q", ErrUnknownAlgorithm, parts[0])
	}

	for _, alg := range backend.Algorithms() {
		if alg == parts[1] {
			return backend, parts[1], nil
		}
	}
	return nil, "", fmt.Errorf("%w: backend %q has no algorithm %q", ErrUnknownAlgorithm, parts[0], parts[1])
}

// Compute resolves the qualified algorithm and runs it.
func (r *Registry) Compute(params calibration.Parameters, samples []sampler.Sample, qualified string) (*calibration.Calibration, error) {
	backend, alg, err := r.Resolve(qualified)
	if err != nil {
		return nil, err
	}
	return backend.Compute(params, samples, alg)
}
