package blueprint

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/arena/internal/core/systems/physics"
)

// Definition describes one entity declaratively. Optional sections are
// pointers; a nil section means the component is not attached.
type Definition struct {
	Name     string          `json:"name" yaml:"name"`
	Position physics.Vector2 `json:"position" yaml:"position"`
	Rotation float64         `json:"rotation,omitempty" yaml:"rotation,omitempty"`

	Physics   *PhysicsSpec   `json:"physics,omitempty" yaml:"physics,omitempty"`
	Shape     *ShapeSpec     `json:"shape,omitempty" yaml:"shape,omitempty"`
	Movement  *MovementSpec  `json:"movement,omitempty" yaml:"movement,omitempty"`
	Collision *CollisionSpec `json:"collision,omitempty" yaml:"collision,omitempty"`
}

type PhysicsSpec struct {
	Velocity physics.Vector2 `json:"velocity" yaml:"velocity"`
	Mass     float64         `json:"mass" yaml:"mass"`
}

// ShapeSpec selects a render shape: "circle" uses Radius, "rect" uses
// Width and Height. Color is "#rrggbb" or "#rrggbbaa".
type ShapeSpec struct {
	Kind   string  `json:"kind" yaml:"kind"`
	Radius float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Color  string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// MovementSpec names a registered behavior kind and its parameters. Not
// every field applies to every kind.
type MovementSpec struct {
	Kind      string          `json:"kind" yaml:"kind"`
	Direction physics.Vector2 `json:"direction,omitempty" yaml:"direction,omitempty"`
	Speed     float64         `json:"speed,omitempty" yaml:"speed,omitempty"`
	Target    string          `json:"target,omitempty" yaml:"target,omitempty"`
	Interval  float64         `json:"interval,omitempty" yaml:"interval,omitempty"`
	Seed      uint64          `json:"seed,omitempty" yaml:"seed,omitempty"`
}

type CollisionSpec struct {
	Radius   float64 `json:"radius" yaml:"radius"`
	Movable  bool    `json:"movable" yaml:"movable"`
	Response string  `json:"response,omitempty" yaml:"response,omitempty"`
}

// Validate checks the structural rules that do not depend on a registry.
func (d Definition) Validate() error {
	if s := d.Shape; s != nil {
		switch s.Kind {
		case ShapeCircle:
			if s.Radius <= 0 {
				return fmt.Errorf("%w: %q circle radius must be positive", ErrInvalidDefinition, d.Name)
			}
		case ShapeRect:
			if s.Width <= 0 || s.Height <= 0 {
				return fmt.Errorf("%w: %q rect size must be positive", ErrInvalidDefinition, d.Name)
			}
		default:
			return fmt.Errorf("%w: %q unknown shape %q", ErrInvalidDefinition, d.Name, s.Kind)
		}
		if _, err := ParseColor(s.Color); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidDefinition, d.Name, err)
		}
	}
	if c := d.Collision; c != nil && c.Radius <= 0 {
		return fmt.Errorf("%w: %q collision radius must be positive", ErrInvalidDefinition, d.Name)
	}
	if m := d.Movement; m != nil {
		if m.Kind == "" {
			return fmt.Errorf("%w: %q movement kind is empty", ErrInvalidDefinition, d.Name)
		}
		if m.Speed < 0 {
			return fmt.Errorf("%w: %q movement speed is negative", ErrInvalidDefinition, d.Name)
		}
	}
	if p := d.Physics; p != nil && p.Mass < 0 {
		return fmt.Errorf("%w: %q mass is negative", ErrInvalidDefinition, d.Name)
	}
	return nil
}

const (
	ShapeCircle = "circle"
	ShapeRect   = "rect"
)

// ParseColor parses "#rrggbb" or "#rrggbbaa". An empty string is opaque
// white.
func ParseColor(s string) (color.RGBA, error) {
	if s == "" {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// LoadYAML decodes a list of definitions. Unknown fields are rejected.
func LoadYAML(r io.Reader) ([]Definition, error) {
	var defs []Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode blueprints: %w", err)
	}
	return defs, nil
}

// LoadJSON decodes a list of definitions. Unknown fields are rejected.
func LoadJSON(r io.Reader) ([]Definition, error) {
	var defs []Definition
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&defs); err != nil {
		return nil, fmt.Errorf("decode blueprints: %w", err)
	}
	return defs, nil
}
