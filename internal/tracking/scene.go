// Package tracking is an in-memory view of the tracked scene: the objects the
// operator can select, the reference object shown on the debug overlay and
// the static placement markers.
package tracking

import (
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/vrom/vrom/internal/geometry"
	"github.com/vrom/vrom/internal/markers"
)

// minSimilarity is how close a typed name must be to an object id for
// HitTest to accept it.
const minSimilarity = 0.6

type Object struct {
	ID   string
	Pose geometry.Pose
}

// Hit is what a pointer ray (or a typed name) resolved to.
type Hit struct {
	ObjectID string
	Position geometry.Vector3
}

type Scene struct {
	mu        sync.RWMutex
	reference string
	objects   map[string]geometry.Pose
	markers   map[markers.ID]geometry.Vector3
}

func NewScene(reference string, objects []Object) *Scene {
	s := &Scene{
		reference: reference,
		objects:   make(map[string]geometry.Pose, len(objects)),
		markers:   make(map[markers.ID]geometry.Vector3, len(markers.IDs)),
	}
	for _, o := range objects {
		s.objects[o.ID] = o.Pose
	}
	return s
}

// SetPose records a tracker update.
func (s *Scene) SetPose(id string, p geometry.Pose) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[id] = p
}

func (s *Scene) Pose(id string) (geometry.Pose, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.objects[id]
	return p, ok
}

// Reference returns the reference object's id and current pose.
func (s *Scene) Reference() (string, geometry.Pose, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.objects[s.reference]
	return s.reference, p, ok
}

func (s *Scene) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.objects))
	for id := range s.objects {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// HitTest resolves an operator's target to an object. An exact id wins;
// otherwise the closest id by edit distance is accepted when it is similar
// enough. Ties go to the lexically smaller id.
func (s *Scene) HitTest(target string) (Hit, bool) {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return Hit{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.objects[target]; ok {
		return Hit{ObjectID: target, Position: p.Position}, true
	}
	best, bestScore := "", 0.0
	for id := range s.objects {
		score := similarity(target, strings.ToLower(id))
		if score > bestScore || (score == bestScore && best != "" && id < best) {
			best, bestScore = id, score
		}
	}
	if best == "" || bestScore < minSimilarity {
		return Hit{}, false
	}
	return Hit{ObjectID: best, Position: s.objects[best].Position}, true
}

// PlaceMarker moves a static marker; it satisfies markers.Sink.
func (s *Scene) PlaceMarker(id markers.ID, pos geometry.Vector3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[id] = pos
}

func (s *Scene) Marker(id markers.ID) (geometry.Vector3, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.markers[id]
	return p, ok
}

func similarity(a, b string) float64 {
	n := max(len(a), len(b))
	if n == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(n)
}
