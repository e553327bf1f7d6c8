package collision

// Strategy names a resolution policy.
type Strategy uint8

const (
	StrategyBounce Strategy = iota
	StrategyDestroy
	StrategyPassThrough
	StrategyCustom
)

func (s Strategy) String() string {
	switch s {
	case StrategyBounce:
		return "bounce"
	case StrategyDestroy:
		return "destroy"
	case StrategyPassThrough:
		return "pass_through"
	case StrategyCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Response is applied once when a contact forms.
type Response interface {
	Strategy() Strategy
	Resolve(info Info, a, b Collidable)
}

// Bounce separates the pair along the normal and reflects the velocity of
// every movable participant.
type Bounce struct{}

func (Bounce) Strategy() Strategy { return StrategyBounce }

func (Bounce) Resolve(info Info, a, b Collidable) {
	n := info.Normal()
	movA, movB := a.IsMovable(), b.IsMovable()

	switch {
	case movA && movB:
		half := info.Depth() / 2
		a.SetPosition(a.Position().Sub(n.Scale(half)))
		b.SetPosition(b.Position().Add(n.Scale(half)))
	case movA:
		a.SetPosition(a.Position().Sub(n.Scale(info.Depth())))
	case movB:
		b.SetPosition(b.Position().Add(n.Scale(info.Depth())))
	}

	if movA {
		a.SetVelocity(a.Velocity().Reflect(n))
	}
	if movB {
		b.SetVelocity(b.Velocity().Reflect(n))
	}
}

// Destroy deactivates both participants.
type Destroy struct{}

func (Destroy) Strategy() Strategy { return StrategyDestroy }

func (Destroy) Resolve(_ Info, a, b Collidable) {
	a.Deactivate()
	b.Deactivate()
}

// PassThrough leaves both participants untouched.
type PassThrough struct{}

func (PassThrough) Strategy() Strategy { return StrategyPassThrough }

func (PassThrough) Resolve(Info, Collidable, Collidable) {}

// Custom wraps an arbitrary resolution closure.
type Custom struct {
	Name string
	Fn   func(info Info, a, b Collidable)
}

func (Custom) Strategy() Strategy { return StrategyCustom }

func (c Custom) Resolve(info Info, a, b Collidable) {
	if c.Fn != nil {
		c.Fn(info, a, b)
	}
}

// Select picks the effective response for a pair: PassThrough on either
// side wins, then Destroy on either side, then the first participant's own
// response, falling back to Bounce.
func Select(ra, rb Response) Response {
	if is(ra, StrategyPassThrough) {
		return ra
	}
	if is(rb, StrategyPassThrough) {
		return rb
	}
	if is(ra, StrategyDestroy) {
		return ra
	}
	if is(rb, StrategyDestroy) {
		return rb
	}
	if ra != nil {
		return ra
	}
	return Bounce{}
}

func is(r Response, s Strategy) bool {
	return r != nil && r.Strategy() == s
}
