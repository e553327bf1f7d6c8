package physics

// Body exposes the kinematic state that integration and collision
// correction read and write.
type Body interface {
	Position() Vector2
	SetPosition(Vector2)
	Velocity() Vector2
	SetVelocity(Vector2)
}
