package bus

// Event kinds published by the runtime.
const (
	// EventPaused suspends entity updates.
	EventPaused = "game.paused"
	// EventResumed re-enables entity updates.
	EventResumed = "game.resumed"
	// EventStart resets world state before a scene populates it.
	EventStart = "game.start"
	// EventCollision is published once per newly resolved contact.
	// Params: "a", "b" (entity IDs), "depth" (float64), "strategy" (string).
	EventCollision = "collision.contact"
	// EventSceneChanged is published after the scene stack changes.
	// Params: "scene" (string), "transition" (string), "depth" (int).
	EventSceneChanged = "scene.changed"
	// EventFrameCompleted is published at the end of every frame when
	// subscribed. Params: "frame" (uint64), "snapshot" (engine.FrameSnapshot).
	EventFrameCompleted = "frame.completed"
)
