package engine

import "errors"

var (
	ErrNilBus      = errors.New("engine: event bus is required")
	ErrNilInput    = errors.New("engine: input controller is required")
	ErrNilAudio    = errors.New("engine: audio controller is required")
	ErrNilFactory  = errors.New("engine: scene factory is required")
	ErrInvalidSize = errors.New("engine: viewport size must be positive")
	ErrDisposed    = errors.New("engine: disposed")
)
