package engine

import (
	"github.com/zeusync/arena/internal/core/models"
)

// EntitySnapshot is a read-only copy of one entity's observable state.
type EntitySnapshot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name,omitempty"`
	Active   bool    `json:"active"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
}

// FrameSnapshot is the payload of bus.EventFrameCompleted under the
// "snapshot" param.
type FrameSnapshot struct {
	Frame uint64  `json:"frame"`
	Delta float64 `json:"dt"`
	Scene string  `json:"scene"`
	Depth int     `json:"depth"`
	// WorldPaused is set when the top scene suspended the whole world.
	WorldPaused bool `json:"world_paused"`
	// EntitiesPaused follows game.paused, which only stops entity updates.
	EntitiesPaused bool             `json:"entities_paused"`
	Entities       []EntitySnapshot `json:"entities"`
}

func snapshotOf(e *models.Entity) EntitySnapshot {
	s := EntitySnapshot{ID: string(e.ID()), Name: e.Name(), Active: e.IsActive()}
	if t := e.Transform(); t != nil {
		s.X, s.Y, s.Rotation = t.Position.X, t.Position.Y, t.Rotation
	}
	if p := e.Physics(); p != nil {
		s.VX, s.VY = p.Velocity.X, p.Velocity.Y
	}
	return s
}
