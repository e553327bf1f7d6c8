// Package ebitenhost runs the engine inside an ebiten window.
package ebitenhost

import (
	"context"
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/observability/log"
)

// Frame is the tick contract the host drives.
type Frame interface {
	Update(deltaTime float64) error
	Render(r devices.Renderer)
	Resize(width, height int)
	Dispose()
}

type Options struct {
	Title         string
	Width, Height int
	// Quit is the error a frame returns when the player asked to exit.
	Quit error
	Log  log.Log
}

var background = color.RGBA{R: 0x12, G: 0x14, B: 0x1c, A: 0xff}

// Game adapts a Frame to ebiten.Game.
type Game struct {
	ctx   context.Context
	frame Frame
	opts  Options
	log   log.Log

	width, height int
}

var _ ebiten.Game = (*Game)(nil)

func NewGame(ctx context.Context, frame Frame, opts Options) *Game {
	return &Game{
		ctx:    ctx,
		frame:  frame,
		opts:   opts,
		log:    log.OrNop(opts.Log).With(log.String("system", "ebitenhost")),
		width:  opts.Width,
		height: opts.Height,
	}
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	err := g.frame.Update(1 / float64(ebiten.TPS()))
	switch {
	case err == nil:
		return nil
	case g.opts.Quit != nil && errors.Is(err, g.opts.Quit):
		return ebiten.Termination
	default:
		g.log.Error("frame failed", log.Error(err))
		return err
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.frame.Render(NewCanvas(screen))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.frame.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it closes, the player quits or ctx
// is cancelled. The frame is disposed on return.
func Run(ctx context.Context, frame Frame, opts Options) error {
	defer frame.Dispose()
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(NewGame(ctx, frame, opts)); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
