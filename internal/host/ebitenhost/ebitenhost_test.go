package ebitenhost

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"

	"github.com/zeusync/arena/internal/core/systems/physics"
)

func TestParseKey(t *testing.T) {
	k, ok := ParseKey("W")
	assert.True(t, ok)
	assert.Equal(t, ebiten.KeyW, k)

	k, ok = ParseKey("Enter")
	assert.True(t, ok)
	assert.Equal(t, ebiten.KeyEnter, k)

	_, ok = ParseKey("NoSuchKey")
	assert.False(t, ok)
	_, ok = ParseKey("")
	assert.False(t, ok)
}

func TestRectCorners(t *testing.T) {
	c := rectCorners(physics.Vec2(10, 10), 4, 2, 0)
	assert.Equal(t, physics.Vec2(8, 9), c[0])
	assert.Equal(t, physics.Vec2(12, 11), c[2])

	c = rectCorners(physics.Zero(), 2, 2, math.Pi/2)
	assert.InDelta(t, 1, c[0].X, 1e-9)
	assert.InDelta(t, -1, c[0].Y, 1e-9)
}

func TestPitchesAreStable(t *testing.T) {
	assert.Equal(t, pitches("hit", 4), pitches("hit", 4))
	assert.Len(t, pitches("theme", 4), 4)
}

func TestSynthesizeLength(t *testing.T) {
	pcm := synthesize([]float64{440, 220}, 0.5)
	per := int(0.5*sampleRate) / 2
	assert.Len(t, pcm, per*2*4)
	assert.Nil(t, synthesize(nil, 1))
}
