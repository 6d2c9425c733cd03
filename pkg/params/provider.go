// Package params supplies runtime configuration values to the calibration
// daemon. A Provider is the minimal contract the daemon depends on: declare a
// named parameter, then read it with a typed accessor. Providers are injected
// into the Reader rather than reached through any process-wide instance.
package params

import (
	"errors"
	"fmt"
)

var (
	// ErrNotDeclared is returned when a parameter is read before being
	// declared.
	ErrNotDeclared = errors.New("parameter not declared")

	// ErrNotSet is returned when a declared parameter has no value.
	ErrNotSet = errors.New("parameter has no value")
)

// Provider exposes named configuration values with typed accessors.
type Provider interface {
	// Declare registers intent to read the named parameter. Reading an
	// undeclared name fails.
	Declare(name string)

	GetString(name string) (string, error)
	GetBool(name string) (bool, error)
}

// MapProvider serves parameter values from an in-memory map. It backs flag
// wiring and tests.
type MapProvider struct {
	declared map[string]bool
	values   map[string]any
}

// NewMapProvider builds a provider over the given values. The map is not
// copied; callers should not mutate it afterwards.
func NewMapProvider(values map[string]any) *MapProvider {
	if values == nil {
		values = map[string]any{}
	}
	return &MapProvider{
		declared: map[string]bool{},
		values:   values,
	}
}

func (p *MapProvider) Declare(name string) {
	p.declared[name] = true
}

func (p *MapProvider) get(name string) (any, error) {
	if !p.declared[name] {
		return nil, fmt.Errorf("%w: %q", ErrNotDeclared, name)
	}
	v, ok := p.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotSet, name)
	}
	return v, nil
}

func (p *MapProvider) GetString(name string) (string, error) {
	v, err := p.get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q holds %T, expected string", name, v)
	}
	return s, nil
}

func (p *MapProvider) GetBool(name string) (bool, error) {
	v, err := p.get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("parameter %q holds %T, expected bool", name, v)
	}
	return b, nil
}
