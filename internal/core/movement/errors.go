package movement

import "errors"

var ErrNilBus = errors.New("movement: event bus is required")
