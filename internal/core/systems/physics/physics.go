package physics

import "math"

// Epsilon is the distance below which two points are treated as coincident.
const Epsilon = 1e-6

// Vector2 is an immutable 2D vector value.
type Vector2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Vec2 is shorthand for Vector2{x, y}.
func Vec2(x, y float64) Vector2 { return Vector2{X: x, Y: y} }

// Zero returns the zero vector.
func Zero() Vector2 { return Vector2{} }

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vector2) Scale(f float64) Vector2 { return Vector2{X: v.X * f, Y: v.Y * f} }

func (v Vector2) Dot(o Vector2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vector2) Length() float64 { return math.Hypot(v.X, v.Y) }

func (v Vector2) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y }

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l < Epsilon {
		return Vector2{}
	}
	return Vector2{X: v.X / l, Y: v.Y / l}
}

// Reflect mirrors v about the unit normal n: v - 2(v·n)n.
func (v Vector2) Reflect(n Vector2) Vector2 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// IsZero reports whether both components are exactly zero.
func (v Vector2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Distance computes Euclidean distance between two points.
func Distance(a, b Vector2) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }

// Integrate advances a position by velocity over dt seconds.
func Integrate(position, velocity Vector2, dt float64) Vector2 {
	return position.Add(velocity.Scale(dt))
}
