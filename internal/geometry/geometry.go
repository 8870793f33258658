// Package geometry holds the pose types shared by the console and the
// conversion into the middleware's frame.
//
// Local poses use a left-handed, Y-up convention. The middleware expects a
// right-handed, Z-up convention: forward is +X, left is +Y, up is +Z.
package geometry

import "fmt"

type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

type Quaternion struct {
	X, Y, Z, W float64
}

// Identity is the zero rotation.
var Identity = Quaternion{W: 1}

type Pose struct {
	Position    Vector3
	Orientation Quaternion
}

// ToRemote maps a local position into the middleware frame.
func (v Vector3) ToRemote() Vector3 {
	return Vector3{X: v.Z, Y: -v.X, Z: v.Y}
}

// ToRemote maps a local rotation into the middleware frame. The handedness
// flip negates the rotated axes alongside the same permutation used for
// positions; W is unchanged.
func (q Quaternion) ToRemote() Quaternion {
	return Quaternion{X: -q.Z, Y: q.X, Z: -q.Y, W: q.W}
}

func (p Pose) ToRemote() Pose {
	return Pose{Position: p.Position.ToRemote(), Orientation: p.Orientation.ToRemote()}
}
