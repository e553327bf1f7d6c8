package entities

import "errors"

var ErrNilBus = errors.New("entities: event bus is required")
