package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/orrery/engine/body"
	"github.com/Carmen-Shannon/orrery/engine/camera"
	"github.com/Carmen-Shannon/orrery/engine/config"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugPanelThrottles(t *testing.T) {
	var buf bytes.Buffer
	clock := time.Unix(0, 0)
	p := newDebugPanel(termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii)), time.Second)
	p.now = func() time.Time { return clock }

	s := camera.State{Mode: camera.ModeAnchoredOrbit, Anchored: body.Earth, FixedTarget: body.None, Fov: 60}
	p.update(s, 0.5)
	out := buf.String()
	assert.Contains(t, out, "orrery camera")
	assert.Contains(t, out, "[anchored]")
	assert.Contains(t, out, "2.0 fps")
	assert.Contains(t, out, "earth")
	assert.Contains(t, out, "60.00")

	buf.Reset()
	clock = clock.Add(500 * time.Millisecond)
	p.update(s, 0.5)
	assert.Empty(t, buf.String())

	clock = clock.Add(time.Second)
	p.update(s, 0.5)
	assert.Contains(t, buf.String(), "2.0 fps")
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	cfg, err := loadConfig(&options{width: 640, height: 480, tickRate: 30, profile: true})
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Engine.Width)
	assert.Equal(t, 480, cfg.Engine.Height)
	assert.Equal(t, 30, cfg.Engine.TickRate)
	assert.True(t, cfg.Engine.Profile)

	cfg, err = loadConfig(&options{})
	require.NoError(t, err)
	assert.Equal(t, config.Default().Engine, cfg.Engine)

	path := filepath.Join(t.TempDir(), "orrery.toml")
	require.NoError(t, os.WriteFile(path, []byte("[input.bindings]\nhyper = \"quit\"\n\n[engine]\ntick_rate = 24\n"), 0o644))
	cfg, err = loadConfig(&options{configPath: path})
	require.NoError(t, err, "unknown names are reported by the engine")
	assert.Equal(t, 24, cfg.Engine.TickRate)

	_, err = loadConfig(&options{configPath: "missing.toml"})
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing.toml"))
}
