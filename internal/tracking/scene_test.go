package tracking

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vrom/vrom/internal/geometry"
	"github.com/vrom/vrom/internal/markers"
)

func testScene() *Scene {
	return NewScene("cylinder", []Object{
		{ID: "cylinder", Pose: geometry.Pose{Position: geometry.Vector3{X: 0.1, Y: 0.2, Z: 0.3}, Orientation: geometry.Identity}},
		{ID: "box", Pose: geometry.Pose{Position: geometry.Vector3{X: 1}, Orientation: geometry.Identity}},
		{ID: "sphere", Pose: geometry.Pose{Position: geometry.Vector3{Y: 1}, Orientation: geometry.Identity}},
	})
}

func TestHitTestExact(t *testing.T) {
	t.Parallel()

	hit, ok := testScene().HitTest(" Box ")
	require.True(t, ok)
	require.Equal(t, Hit{ObjectID: "box", Position: geometry.Vector3{X: 1}}, hit)
}

func TestHitTestFuzzy(t *testing.T) {
	t.Parallel()

	s := testScene()
	hit, ok := s.HitTest("sphre")
	require.True(t, ok)
	require.Equal(t, "sphere", hit.ObjectID)

	hit, ok = s.HitTest("cylindre")
	require.True(t, ok)
	require.Equal(t, "cylinder", hit.ObjectID)
}

func TestHitTestMiss(t *testing.T) {
	t.Parallel()

	s := testScene()
	_, ok := s.HitTest("")
	require.False(t, ok)
	_, ok = s.HitTest("robot arm")
	require.False(t, ok)
}

func TestReferenceFollowsPoseUpdates(t *testing.T) {
	t.Parallel()

	s := testScene()
	id, p, ok := s.Reference()
	require.True(t, ok)
	require.Equal(t, "cylinder", id)
	require.Equal(t, geometry.Vector3{X: 0.1, Y: 0.2, Z: 0.3}, p.Position)

	s.SetPose("cylinder", geometry.Pose{Position: geometry.Vector3{X: 2}, Orientation: geometry.Identity})
	_, p, _ = s.Reference()
	require.Equal(t, geometry.Vector3{X: 2}, p.Position)
	require.Equal(t, []string{"box", "cylinder", "sphere"}, s.IDs())
}

func TestSceneIsMarkerSink(t *testing.T) {
	t.Parallel()

	s := testScene()
	store := markers.NewStore(nil, s)
	require.NoError(t, store.Write(markers.Boxes, geometry.Vector3{X: 1, Y: 1, Z: 1}))

	p, ok := s.Marker(markers.Boxes)
	require.True(t, ok)
	require.Equal(t, geometry.Vector3{X: 1, Y: 1, Z: 1}, p)
	_, ok = s.Marker(markers.Spheres)
	require.False(t, ok)
}
