package ebitenhost

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/observability/log"
)

// Keys reads the ebiten keyboard and cursor. Key names use ebiten's own
// spelling ("W", "Enter", "ArrowUp"); unknown names are never pressed.
type Keys struct {
	log log.Log

	mu      sync.Mutex
	known   map[string]ebiten.Key
	unknown map[string]struct{}
}

var _ devices.KeySource = (*Keys)(nil)

func NewKeys(logger log.Log) *Keys {
	return &Keys{
		log:     log.OrNop(logger).With(log.String("system", "keys")),
		known:   make(map[string]ebiten.Key),
		unknown: make(map[string]struct{}),
	}
}

func (k *Keys) IsKeyPressed(name string) bool {
	key, ok := k.lookup(name)
	return ok && ebiten.IsKeyPressed(key)
}

func (k *Keys) Cursor() (float64, float64) {
	x, y := ebiten.CursorPosition()
	return float64(x), float64(y)
}

func (k *Keys) lookup(name string) (ebiten.Key, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if key, ok := k.known[name]; ok {
		return key, true
	}
	if _, ok := k.unknown[name]; ok {
		return 0, false
	}
	key, ok := ParseKey(name)
	if !ok {
		k.unknown[name] = struct{}{}
		k.log.Warn("unknown key name", log.String("key", name))
		return 0, false
	}
	k.known[name] = key
	return key, true
}

// ParseKey resolves an ebiten key name.
func ParseKey(name string) (ebiten.Key, bool) {
	if name == "" {
		return 0, false
	}
	var key ebiten.Key
	if err := key.UnmarshalText([]byte(name)); err != nil {
		return 0, false
	}
	return key, true
}
