package headless

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/core/devices"
)

type fakeFrame struct {
	updates  int
	renders  int
	disposed bool
	failAt   int
	err      error
	dts      []float64
}

func (f *fakeFrame) Update(dt float64) error {
	f.updates++
	f.dts = append(f.dts, dt)
	if f.failAt > 0 && f.updates == f.failAt {
		return f.err
	}
	return nil
}

func (f *fakeFrame) Render(devices.Renderer) { f.renders++ }
func (f *fakeFrame) Dispose()                { f.disposed = true }

func TestRunStopsAtFrameBudget(t *testing.T) {
	f := &fakeFrame{}
	var before []uint64
	n, err := Run(context.Background(), f, Options{
		Step:      0.5,
		MaxFrames: 3,
		Before:    func(i uint64) { before = append(before, i) },
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
	assert.Equal(t, 3, f.renders)
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, f.dts)
	assert.Equal(t, []uint64{0, 1, 2}, before)
	assert.True(t, f.disposed)
}

func TestRunTreatsQuitAsCleanExit(t *testing.T) {
	quit := errors.New("quit")
	f := &fakeFrame{failAt: 2, err: quit}
	n, err := Run(context.Background(), f, Options{Step: 0.1, Quit: quit})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	assert.Equal(t, 1, f.renders)
}

func TestRunReturnsFrameErrors(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeFrame{failAt: 1, err: boom}
	_, err := Run(context.Background(), f, Options{Step: 0.1, MaxFrames: 10})
	assert.ErrorIs(t, err, boom)
	assert.True(t, f.disposed)
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &fakeFrame{}
	cancel()
	n, err := Run(ctx, f, Options{Step: 0.1})
	require.NoError(t, err)
	assert.Zero(t, n)

	ctx, cancel = context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = Run(ctx, &fakeFrame{}, Options{Step: 0.005, Realtime: true})
	require.NoError(t, err)
}

func TestRunRejectsBadStep(t *testing.T) {
	_, err := Run(context.Background(), &fakeFrame{}, Options{})
	assert.ErrorIs(t, err, ErrInvalidStep)
}
