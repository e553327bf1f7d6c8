package devices

import (
	"github.com/zeusync/arena/internal/core/observability/log"
)

// AudioBackend performs the actual playback for Mixer.
type AudioBackend interface {
	PlayOnce(name string, volume float64)
	Loop(name string, volume float64)
	StopLoop()
	SetLoopVolume(volume float64)
}

// Mixer implements AudioController on top of an AudioBackend, owning the
// volume state and current music track.
type Mixer struct {
	backend AudioBackend
	log     log.Log

	music       string
	musicVolume float64
	soundVolume float64
}

var _ AudioController = (*Mixer)(nil)

// NewMixer creates a mixer. A nil backend makes playback a no-op while the
// volume state keeps working.
func NewMixer(backend AudioBackend, musicVolume, soundVolume float64, logger log.Log) *Mixer {
	return &Mixer{
		backend:     backend,
		log:         log.OrNop(logger).With(log.String("system", "audio")),
		musicVolume: clamp01(musicVolume),
		soundVolume: clamp01(soundVolume),
	}
}

func (m *Mixer) SetMusic(name string) {
	if name == "" || name == m.music {
		return
	}
	m.music = name
	m.log.Debug("music changed", log.String("track", name))
	if m.backend != nil {
		m.backend.Loop(name, m.musicVolume)
	}
}

func (m *Mixer) StopMusic() {
	if m.music == "" {
		return
	}
	m.music = ""
	if m.backend != nil {
		m.backend.StopLoop()
	}
}

// Music returns the current track name, empty when silent.
func (m *Mixer) Music() string { return m.music }

func (m *Mixer) PlaySound(name string) {
	if name == "" || m.soundVolume == 0 {
		return
	}
	if m.backend != nil {
		m.backend.PlayOnce(name, m.soundVolume)
	}
}

func (m *Mixer) MusicVolume() float64 { return m.musicVolume }

func (m *Mixer) SetMusicVolume(v float64) {
	m.musicVolume = clamp01(v)
	if m.backend != nil && m.music != "" {
		m.backend.SetLoopVolume(m.musicVolume)
	}
}

func (m *Mixer) SoundVolume() float64 { return m.soundVolume }

func (m *Mixer) SetSoundVolume(v float64) { m.soundVolume = clamp01(v) }

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
