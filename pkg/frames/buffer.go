// Package frames holds the most recent rigid transform for each directed
// frame pair pushed by a robot or tracking bridge. It is the stand-in for a
// live frame graph: the daemon samples calibration input from it.
package frames

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robokit/handeye/pkg/calibration"
)

var (
	// ErrUnknownEdge is returned when neither the requested frame pair nor
	// its reverse has ever been set.
	ErrUnknownEdge = errors.New("unknown frame edge")

	// ErrStale is returned when the stored transform is older than the
	// buffer's staleness window.
	ErrStale = errors.New("stale transform")
)

// Stamped is a transform between two named frames with its receive time.
type Stamped struct {
	Parent    string                `json:"parent"`
	Child     string                `json:"child"`
	Transform calibration.Transform `json:"transform"`
	At        time.Time             `json:"at"`
}

type edgeKey struct {
	parent string
	child  string
}

// Buffer keeps the latest transform per directed edge. Lookups resolve the
// reverse edge by inversion when only that direction has been pushed.
type Buffer struct {
	mu     sync.RWMutex
	window time.Duration
	edges  map[edgeKey]Stamped

	now func() time.Time // test seam
}

// NewBuffer creates a buffer whose transforms expire after window. A
// non-positive window disables staleness checks.
func NewBuffer(window time.Duration) *Buffer {
	return &Buffer{
		window: window,
		edges:  map[edgeKey]Stamped{},
		now:    time.Now,
	}
}

// Set stores the transform for the parent→child edge, stamped now.
func (b *Buffer) Set(parent, child string, t calibration.Transform) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.edges[edgeKey{parent, child}] = Stamped{
		Parent:    parent,
		Child:     child,
		Transform: t,
		At:        b.now(),
	}
}

// Lookup returns the current parent→child transform.
func (b *Buffer) Lookup(parent, child string) (calibration.Transform, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if s, ok := b.edges[edgeKey{parent, child}]; ok {
		if err := b.checkFresh(s); err != nil {
			return calibration.Transform{}, err
		}
		return s.Transform, nil
	}
	if s, ok := b.edges[edgeKey{child, parent}]; ok {
		if err := b.checkFresh(s); err != nil {
			return calibration.Transform{}, err
		}
		return s.Transform.Inverse(), nil
	}
	return calibration.Transform{}, fmt.Errorf("%w: %s -> %s", ErrUnknownEdge, parent, child)
}

// Edges returns a snapshot of every stored edge.
func (b *Buffer) Edges() []Stamped {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Stamped, 0, len(b.edges))
	for _, s := range b.edges {
		out = append(out, s)
	}
	return out
}

func (b *Buffer) checkFresh(s Stamped) error {
	if b.window <= 0 {
		return nil
	}
	if age := b.now().Sub(s.At); age > b.window {
		return fmt.Errorf("%w: %s -> %s is %s old", ErrStale, s.Parent, s.Child, age.Round(time.Millisecond))
	}
	return nil
}
