package collision

import "errors"

var ErrNilBus = errors.New("collision: event bus is required")
