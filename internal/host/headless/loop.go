// Package headless drives the engine on a fixed step without a window.
package headless

import (
	"context"
	"errors"
	"time"

	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/observability/log"
)

// Frame is the tick contract the loop drives.
type Frame interface {
	Update(deltaTime float64) error
	Render(r devices.Renderer)
	Dispose()
}

type Options struct {
	// Step is the simulated seconds per frame.
	Step float64
	// MaxFrames stops the loop after that many frames; zero runs until ctx
	// is done.
	MaxFrames uint64
	// Realtime paces frames on a wall-clock ticker. Otherwise frames run
	// back to back.
	Realtime bool
	// Quit is the error a frame returns when the player asked to exit.
	Quit error
	// Before runs ahead of every frame, e.g. to script input.
	Before func(frame uint64)
	Log    log.Log
}

var ErrInvalidStep = errors.New("headless: step must be positive")

// Run ticks frame until ctx is done, MaxFrames is reached, or a frame
// fails. Quit and context cancellation end the loop without error. The
// frame is disposed on return. It returns the number of frames run.
func Run(ctx context.Context, frame Frame, opts Options) (uint64, error) {
	if opts.Step <= 0 {
		return 0, ErrInvalidStep
	}
	defer frame.Dispose()
	logger := log.OrNop(opts.Log).With(log.String("system", "headless"))

	var tick <-chan time.Time
	if opts.Realtime {
		t := time.NewTicker(time.Duration(opts.Step * float64(time.Second)))
		defer t.Stop()
		tick = t.C
	}

	renderer := devices.NopRenderer()
	var n uint64
	for opts.MaxFrames == 0 || n < opts.MaxFrames {
		if tick != nil {
			select {
			case <-ctx.Done():
				return n, nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return n, nil
		}

		if opts.Before != nil {
			opts.Before(n)
		}
		err := frame.Update(opts.Step)
		n++
		if err != nil {
			if opts.Quit != nil && errors.Is(err, opts.Quit) {
				logger.Info("quit requested", log.Uint64("frames", n))
				return n, nil
			}
			return n, err
		}
		frame.Render(renderer)
	}
	logger.Debug("frame budget reached", log.Uint64("frames", n))
	return n, nil
}
