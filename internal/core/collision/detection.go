package collision

import (
	"github.com/zeusync/arena/internal/core/models"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// Info is the immutable result of a positive pairwise test.
type Info struct {
	a, b   models.EntityID
	depth  float64
	normal physics.Vector2
}

func NewInfo(a, b models.EntityID, depth float64, normal physics.Vector2) Info {
	return Info{a: a, b: b, depth: depth, normal: normal}
}

func (i Info) A() models.EntityID { return i.a }

func (i Info) B() models.EntityID { return i.b }

// Depth is the penetration: sum of radii minus center distance, never negative.
func (i Info) Depth() float64 { return i.depth }

// Normal is the unit vector pointing from A toward B.
func (i Info) Normal() physics.Vector2 { return i.normal }

// fallbackNormal is used when both centers coincide and no direction can
// be derived.
var fallbackNormal = physics.Vec2(1, 0)

// Circles tests two circles. They collide when the center distance is
// strictly less than the radius sum.
func Circles(posA physics.Vector2, radiusA float64, posB physics.Vector2, radiusB float64) (depth float64, normal physics.Vector2, ok bool) {
	sum := radiusA + radiusB
	delta := posB.Sub(posA)
	if delta.LengthSquared() >= sum*sum {
		return 0, physics.Zero(), false
	}
	dist := delta.Length()
	if dist < physics.Epsilon {
		return sum - dist, fallbackNormal, true
	}
	return sum - dist, physics.Vec2(delta.X/dist, delta.Y/dist), true
}

// Detect runs the circle test for two collidables.
func Detect(a, b Collidable) (Info, bool) {
	depth, normal, ok := Circles(a.Position(), a.Radius(), b.Position(), b.Radius())
	if !ok {
		return Info{}, false
	}
	return NewInfo(a.ID(), b.ID(), depth, normal), true
}

// pairKey identifies an unordered pair. lo <= hi lexicographically.
type pairKey struct {
	lo, hi models.EntityID
}

func makePairKey(a, b models.EntityID) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}
