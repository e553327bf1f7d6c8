package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/core/blueprint"
	"github.com/zeusync/arena/internal/core/devices"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 800, cfg.Window.Width)
	assert.NotEmpty(t, cfg.Spawns)
	assert.Equal(t, "W", cfg.Input.Bindings[devices.ActionUp])
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	src := `
window:
  title: Test
  width: 320
  height: 240
input:
  bindings:
    up: Up
audio:
  music_volume: 0.1
log:
  level: debug
  output: [stdout]
spawns:
  - name: solo
    position: {x: 1, y: 2}
`
	cfg, err := LoadYAML(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "Test", cfg.Window.Title)
	assert.Equal(t, 320, cfg.Window.Width)
	assert.InDelta(t, 1.0/60, cfg.Loop.FixedStep, 1e-12, "untouched keys keep defaults")
	assert.Equal(t, "Up", cfg.Input.Bindings[devices.ActionUp])
	assert.Equal(t, "S", cfg.Input.Bindings[devices.ActionDown], "bindings merge")
	assert.Equal(t, 0.1, cfg.Audio.MusicVolume)
	assert.Equal(t, 0.8, cfg.Audio.SoundVolume)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"stdout"}, cfg.Log.Output)
	require.Len(t, cfg.Spawns, 1)
	assert.Equal(t, "solo", cfg.Spawns[0].Name)
}

func TestLoadYAMLEmptyIsDefault(t *testing.T) {
	cfg, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default().Window, cfg.Window)
}

func TestLoadYAMLRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":     "windw:\n  width: 1\n",
		"zero width":      "window:\n  width: 0\n",
		"negative height": "window:\n  height: -5\n",
		"zero step":       "loop:\n  fixed_step: 0\n",
		"small max delta": "loop:\n  fixed_step: 0.1\n  max_delta: 0.05\n",
		"loud":            "audio:\n  sound_volume: 1.5\n",
		"inspector":       "inspector:\n  enabled: true\n  address: \"\"\n",
		"bad spawn":       "spawns:\n  - collision: {radius: 0}\n",
		"wander":          "movement:\n  wander_interval: 0\n",
		"syntax":          "window: [\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(src))
			assert.Error(t, err)
		})
	}

	_, err := LoadYAML(strings.NewReader("window:\n  width: 0\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte("inspector:\n  enabled: true\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Inspector.Enabled)
	assert.Equal(t, "127.0.0.1:7070", cfg.Inspector.Address)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolvedSpawnsFillsWanderDefaults(t *testing.T) {
	cfg, err := LoadYAML(strings.NewReader("movement:\n  wander_interval: 2.5\n  seed: 9\n"))
	require.NoError(t, err)

	resolved := cfg.ResolvedSpawns()
	require.Len(t, resolved, len(cfg.Spawns))

	byName := map[string]blueprint.Definition{}
	for _, def := range resolved {
		byName[def.Name] = def
	}
	inherited := byName["wanderer-1"].Movement
	require.NotNil(t, inherited)
	assert.Equal(t, 2.5, inherited.Interval)
	assert.Equal(t, uint64(9), inherited.Seed)

	explicit := byName["wanderer-2"].Movement
	assert.Equal(t, 1.5, explicit.Interval)
	assert.Equal(t, uint64(2), explicit.Seed)

	// the configured definitions stay untouched
	for _, def := range cfg.Spawns {
		if def.Name == "wanderer-1" {
			assert.Zero(t, def.Movement.Interval)
		}
	}
}
