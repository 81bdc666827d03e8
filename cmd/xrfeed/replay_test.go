package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lxzan/gws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/XRControllerView/internal/platform/feed"
)

const sample = `{"t":0,"immersive":true,"referenceSpace":true,"controllers":[{"id":"oculus-touch-v3","hand":"right","index":0,"buttons":[{"pressed":true,"touched":true,"value":1}],"axes":[0,0,0.5,0]}]}

{"immersive":true,"referenceSpace":true,"controllers":[]}
{"t":40,"immersive":false,"referenceSpace":false,"controllers":[]}
`

type sink struct {
	frames []feed.Frame
	at     []time.Time
}

func (s *sink) WriteMessage(op gws.Opcode, payload []byte) error {
	if op != gws.OpcodeText {
		return nil
	}
	var f feed.Frame
	if err := json.Unmarshal(payload, &f); err != nil {
		return err
	}
	s.frames = append(s.frames, f)
	s.at = append(s.at, time.Now())
	return nil
}

func TestReadRecording(t *testing.T) {
	rec, err := readRecording(strings.NewReader(sample), 50)
	require.NoError(t, err)
	require.Len(t, rec, 3)
	assert.Equal(t, time.Duration(0), rec[0].at)
	assert.Equal(t, 20*time.Millisecond, rec[1].at)
	assert.Equal(t, 40*time.Millisecond, rec[2].at)
	assert.NotContains(t, string(rec[0].data), `"t"`)
}

func TestReadRecordingErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", "\n\n"},
		{"json", "{nope\n"},
		{"backwards", `{"t":50,"controllers":[]}` + "\n" + `{"t":10,"controllers":[]}` + "\n"},
		{"bad controller", `{"controllers":[{"id":"x","hand":"middle"}]}` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readRecording(strings.NewReader(tt.in), 72)
			assert.Error(t, err)
		})
	}
}

func TestReplay(t *testing.T) {
	rec, err := readRecording(strings.NewReader(sample), 50)
	require.NoError(t, err)

	var s sink
	start := time.Now()
	require.NoError(t, replay(context.Background(), &s, rec, 2))
	require.Len(t, s.frames, 3)
	assert.True(t, s.frames[0].Immersive)
	assert.Equal(t, "oculus-touch-v3", s.frames[0].Controllers[0].ID)
	assert.False(t, s.frames[2].Immersive)
	// 40ms at double speed.
	assert.GreaterOrEqual(t, s.at[2].Sub(start), 20*time.Millisecond)
}

func TestReplayCancel(t *testing.T) {
	rec := recording{{at: 0, data: []byte(`{}`)}, {at: time.Hour, data: []byte(`{}`)}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var s sink
	err := replay(ctx, &s, rec, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, s.frames, 1)
}

func TestLoadOptions(t *testing.T) {
	t.Setenv("XRFEED_SPEED", "3")
	o, args, err := loadOptions([]string{"--url", "ws://vr:9000/feed", "--loop", "rec.jsonl"})
	require.NoError(t, err)
	assert.Equal(t, "ws://vr:9000/feed", o.URL)
	assert.True(t, o.Loop)
	assert.InDelta(t, 3, o.Speed, 1e-9)
	assert.InDelta(t, 72, o.Rate, 1e-9)
	assert.Equal(t, []string{"rec.jsonl"}, args)

	_, _, err = loadOptions([]string{"--rate", "0", "rec.jsonl"})
	assert.Error(t, err)
}
