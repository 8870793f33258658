// Package markers keeps the world positions of the three static placement
// markers the operator can edit.
package markers

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vrom/vrom/internal/geometry"
	"github.com/vrom/vrom/internal/validate"
)

type ID string

const (
	Cylinders ID = "cylinders"
	Boxes     ID = "boxes"
	Spheres   ID = "spheres"
)

// IDs lists the markers in editor order.
var IDs = [3]ID{Cylinders, Boxes, Spheres}

// Axes names the three fields per marker, in editor order.
var Axes = [3]string{"x", "y", "z"}

// FieldCount is the number of text fields in a markers draft.
const FieldCount = len(IDs) * len(Axes)

var ErrUnknownMarker = errors.New("markers: unknown marker")

// ValidationError names the first draft field that failed to parse.
type ValidationError struct {
	Marker ID
	Axis   string
	Text   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("marker %s.%s: invalid number %q", e.Marker, e.Axis, e.Text)
}

// Sink receives every position written to the store, e.g. to move the
// static marker in the tracked scene.
type Sink interface {
	PlaceMarker(id ID, pos geometry.Vector3)
}

type Store struct {
	mu   sync.RWMutex
	pos  map[ID]geometry.Vector3
	sink Sink
}

func NewStore(initial map[ID]geometry.Vector3, sink Sink) *Store {
	s := &Store{pos: make(map[ID]geometry.Vector3, len(IDs)), sink: sink}
	for _, id := range IDs {
		s.pos[id] = initial[id]
	}
	return s
}

func (s *Store) Read(id ID) (geometry.Vector3, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pos[id]
	if !ok {
		return geometry.Vector3{}, fmt.Errorf("%w: %q", ErrUnknownMarker, id)
	}
	return p, nil
}

// Write replaces all three axes of a marker at once.
func (s *Store) Write(id ID, pos geometry.Vector3) error {
	s.mu.Lock()
	if _, ok := s.pos[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownMarker, id)
	}
	s.pos[id] = pos
	s.mu.Unlock()
	if s.sink != nil {
		s.sink.PlaceMarker(id, pos)
	}
	return nil
}

// Snapshot returns every marker position in editor order.
func (s *Store) Snapshot() [3]geometry.Vector3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out [3]geometry.Vector3
	for i, id := range IDs {
		out[i] = s.pos[id]
	}
	return out
}

// Fields renders the store as draft text, marker-major then x, y, z.
func (s *Store) Fields() [FieldCount]string {
	var out [FieldCount]string
	for i, p := range s.Snapshot() {
		out[i*3] = formatAxis(p.X)
		out[i*3+1] = formatAxis(p.Y)
		out[i*3+2] = formatAxis(p.Z)
	}
	return out
}

// Apply parses all nine fields and, only if every one is valid, writes the
// three markers. On error nothing is changed.
func (s *Store) Apply(fields [FieldCount]string) error {
	parsed, err := ParseFields(fields)
	if err != nil {
		return err
	}
	for i, id := range IDs {
		if err := s.Write(id, parsed[i]); err != nil {
			return err
		}
	}
	return nil
}

// ParseFields converts a draft into positions without touching any store.
func ParseFields(fields [FieldCount]string) ([3]geometry.Vector3, error) {
	var out [3]geometry.Vector3
	for i, id := range IDs {
		var v [3]float64
		for a := range Axes {
			text := fields[i*3+a]
			f, err := validate.ParseFloat(text)
			if err != nil {
				return out, &ValidationError{Marker: id, Axis: Axes[a], Text: text}
			}
			v[a] = f
		}
		out[i] = geometry.Vector3{X: v[0], Y: v[1], Z: v[2]}
	}
	return out, nil
}

// FieldsValid reports whether Apply would accept fields.
func FieldsValid(fields [FieldCount]string) bool {
	for _, f := range fields {
		if !validate.IsValidFloat(f) {
			return false
		}
	}
	return true
}

func formatAxis(f float64) string {
	return fmt.Sprintf("%g", f)
}
