package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"trace":   LevelTrace,
		"DEBUG":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestConsoleSplitsErrors(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	var out, errOut bytes.Buffer
	logger, closers, err := setup("debug", "", &out, &errOut)
	require.NoError(t, err)
	assert.Empty(t, closers)

	logger.With("entity", "rightHand").Info("controller connected", "profile", "oculus-touch")
	logger.Error("feed closed")
	logger.Log(t.Context(), LevelTrace, "hidden")

	assert.Contains(t, out.String(), "controller connected entity=rightHand profile=oculus-touch")
	assert.NotContains(t, out.String(), "feed closed")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, errOut.String(), "feed closed")
	assert.Contains(t, errOut.String(), "ERROR")
}

func TestTraceLevel(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	var out bytes.Buffer
	logger, _, err := setup("trace", "", &out, &out)
	require.NoError(t, err)

	logger.Log(t.Context(), LevelTrace, "pose")
	assert.Contains(t, out.String(), "TRACE")
}

func TestLogFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	path := filepath.Join(t.TempDir(), "xrcv.log")
	var stderr bytes.Buffer
	logger, closers, err := setup("info", path, &bytes.Buffer{}, &stderr)
	require.NoError(t, err)
	require.Len(t, closers, 1)

	logger.Warn("reference space unavailable", "session", "s1")
	require.NoError(t, closers[0].Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reference space unavailable")
	assert.Contains(t, stderr.String(), "session=s1")
}

func TestLogFileError(t *testing.T) {
	_, _, err := setup("info", filepath.Join(t.TempDir(), "missing", "x.log"), &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, err)
}
