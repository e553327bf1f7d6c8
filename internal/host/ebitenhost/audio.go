package ebitenhost

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/observability/log"
)

const (
	sampleRate    = 44100
	soundDuration = 0.12
	loopDuration  = 2.0
)

// Tones is an AudioBackend that synthesizes a short tone per sound name
// and a looping arpeggio per music track. Pitches are derived from the
// name, so every name sounds the same across runs.
type Tones struct {
	ctx *audio.Context
	log log.Log

	mu     sync.Mutex
	cache  map[string][]byte
	loop   *audio.Player
	voices []*audio.Player
}

var _ devices.AudioBackend = (*Tones)(nil)

func NewTones(logger log.Log) *Tones {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}
	return &Tones{
		ctx:   ctx,
		log:   log.OrNop(logger).With(log.String("system", "tones")),
		cache: make(map[string][]byte),
	}
}

func (t *Tones) PlayOnce(name string, volume float64) {
	pcm := t.pcm("sfx:"+name, func() []byte { return synthesize(pitches(name, 1), soundDuration) })
	p := t.ctx.NewPlayerFromBytes(pcm)
	p.SetVolume(volume)
	p.Play()

	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.voices[:0]
	for _, v := range t.voices {
		if v.IsPlaying() {
			kept = append(kept, v)
		} else {
			_ = v.Close()
		}
	}
	t.voices = append(kept, p)
}

func (t *Tones) Loop(name string, volume float64) {
	pcm := t.pcm("music:"+name, func() []byte { return synthesize(pitches(name, 4), loopDuration) })
	p, err := t.ctx.NewPlayer(audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm))))
	if err != nil {
		t.log.Error("music player", log.String("track", name), log.Error(err))
		return
	}
	p.SetVolume(volume)

	t.mu.Lock()
	old := t.loop
	t.loop = p
	t.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	p.Play()
}

func (t *Tones) StopLoop() {
	t.mu.Lock()
	old := t.loop
	t.loop = nil
	t.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
}

func (t *Tones) SetLoopVolume(volume float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loop != nil {
		t.loop.SetVolume(volume)
	}
}

func (t *Tones) pcm(key string, build func() []byte) []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	if b, ok := t.cache[key]; ok {
		return b
	}
	b := build()
	t.cache[key] = b
	return b
}

// pitches picks n notes of an A minor pentatonic scale from the hash of
// name.
func pitches(name string, n int) []float64 {
	scale := [...]float64{220, 261.63, 293.66, 329.63, 392, 440, 523.25, 587.33}
	h := xxhash.Sum64String(name)
	out := make([]float64, n)
	for i := range out {
		out[i] = scale[h%uint64(len(scale))]
		h /= uint64(len(scale))
	}
	return out
}

// synthesize renders notes back to back as 16-bit little-endian stereo
// PCM, each note fading out to avoid clicks.
func synthesize(notes []float64, seconds float64) []byte {
	if len(notes) == 0 {
		return nil
	}
	total := int(seconds * sampleRate)
	per := total / len(notes)
	buf := make([]byte, 0, per*len(notes)*4)
	for _, freq := range notes {
		for i := 0; i < per; i++ {
			env := 1 - float64(i)/float64(per)
			v := int16(math.Sin(2*math.Pi*freq*float64(i)/sampleRate) * env * 0.3 * math.MaxInt16)
			buf = binary.LittleEndian.AppendUint16(buf, uint16(v))
			buf = binary.LittleEndian.AppendUint16(buf, uint16(v))
		}
	}
	return buf
}
