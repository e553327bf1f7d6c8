package scene

import "errors"

var (
	ErrNilBus     = errors.New("scene: event bus is required")
	ErrNilScene   = errors.New("scene: nil scene")
	ErrSceneInUse = errors.New("scene: scene is already on the stack")
	ErrDisposed   = errors.New("scene: scene was disposed")

	ErrScenePending = errors.New("scene: scene is already requested")
)
