package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/XRControllerView/internal/controls"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, []string{SourceFeed, SourceSDL}, c.Sources)
	assert.Equal(t, "info", c.Log.Level)
	assert.InDelta(t, controls.DefaultUserHeight, c.UserHeight, 1e-9)
	assert.Equal(t, []controls.Handedness{controls.HandLeft, controls.HandRight}, c.Handedness())
	assert.Equal(t, controls.SpaceTargetRay, c.PoseSpace())
	assert.True(t, c.Tray)
	assert.True(t, c.HandTracking)
	assert.Empty(t, c.File)
	assert.InDelta(t, float64(time.Second/90), float64(c.Interval()), float64(time.Microsecond))
}

func TestPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := filepath.Join(dir, "xrcontrolview.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
addr: ":9000"
tick_rate: 60
space: grip
log:
  level: debug
hands: [left]
`), 0o644))

	t.Setenv("XRCV_TICK_RATE", "72")
	t.Setenv("XRCV_LOG_FILE", "/tmp/xrcv.log")

	c, err := Load([]string{"--addr", ":7000", "--profiles", "oculus-touch,vive"})
	require.NoError(t, err)
	assert.Equal(t, "xrcontrolview.yaml", filepath.Base(c.File))
	assert.Equal(t, ":7000", c.Addr, "flag beats file")
	assert.InDelta(t, 72, c.TickRate, 1e-9, "env beats file")
	assert.Equal(t, "debug", c.Log.Level, "file beats default")
	assert.Equal(t, "/tmp/xrcv.log", c.Log.File)
	assert.Equal(t, controls.SpaceGrip, c.PoseSpace())
	assert.Equal(t, []controls.Handedness{controls.HandLeft}, c.Handedness())
	assert.Equal(t, []string{"oculus-touch", "vive"}, c.Profiles)
}

func TestExplicitConfigMissing(t *testing.T) {
	_, err := Load([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cases := []struct {
		name string
		args []string
	}{
		{"tick rate", []string{"--tick-rate", "0"}},
		{"height", []string{"--user-height", "-1"}},
		{"source", []string{"--sources", "usb"}},
		{"hand", []string{"--hands", "left,middle"}},
		{"space", []string{"--space", "world"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.args)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestUses(t *testing.T) {
	c := &Config{Sources: []string{SourceFeed}}
	assert.True(t, c.Uses(SourceFeed))
	assert.False(t, c.Uses(SourceSDL))
}
