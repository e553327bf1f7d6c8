package blueprint

import "errors"

var (
	ErrNilTargets        = errors.New("blueprint: spawn targets are required")
	ErrInvalidDefinition = errors.New("blueprint: invalid definition")
	ErrUnknownBehavior   = errors.New("blueprint: unknown movement kind")
	ErrUnknownResponse   = errors.New("blueprint: unknown collision response")
	ErrUnknownTarget     = errors.New("blueprint: unknown follow target")
)
