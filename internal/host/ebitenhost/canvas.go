package ebitenhost

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

// white returns a 1x1 opaque white source for DrawTriangles.
func white() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

// Canvas draws onto one ebiten frame.
type Canvas struct {
	dst *ebiten.Image
}

var _ devices.Renderer = Canvas{}

func NewCanvas(dst *ebiten.Image) Canvas { return Canvas{dst: dst} }

func (c Canvas) FillCircle(center physics.Vector2, radius float64, clr color.RGBA) {
	vector.DrawFilledCircle(c.dst, float32(center.X), float32(center.Y), float32(radius), clr, true)
}

func (c Canvas) FillRect(center physics.Vector2, width, height, rotation float64, clr color.RGBA) {
	if rotation == 0 {
		vector.DrawFilledRect(c.dst,
			float32(center.X-width/2), float32(center.Y-height/2),
			float32(width), float32(height), clr, false)
		return
	}
	corners := rectCorners(center, width, height, rotation)
	var path vector.Path
	path.MoveTo(float32(corners[0].X), float32(corners[0].Y))
	for _, p := range corners[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := float32(clr.R)/0xff, float32(clr.G)/0xff, float32(clr.B)/0xff, float32(clr.A)/0xff
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = r, g, b, a
	}
	c.dst.DrawTriangles(vs, is, white(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (c Canvas) DrawText(text string, position physics.Vector2, _ color.RGBA) {
	ebitenutil.DebugPrintAt(c.dst, text, int(position.X), int(position.Y))
}

// rectCorners returns the corners of a rectangle rotated about its center,
// in drawing order.
func rectCorners(center physics.Vector2, width, height, rotation float64) [4]physics.Vector2 {
	sin, cos := math.Sincos(rotation)
	hw, hh := width/2, height/2
	local := [4]physics.Vector2{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	var out [4]physics.Vector2
	for i, p := range local {
		out[i] = physics.Vec2(center.X+p.X*cos-p.Y*sin, center.Y+p.X*sin+p.Y*cos)
	}
	return out
}
