package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/lxzan/gws"
	"github.com/pkg/errors"

	"github.com/soar/XRControllerView/internal/platform/feed"
)

const maxLine = 4 << 20

type entry struct {
	at   time.Duration
	data []byte
}

type recording []entry

func (r recording) duration() time.Duration {
	if len(r) == 0 {
		return 0
	}
	return r[len(r)-1].at
}

type line struct {
	T *float64 `json:"t,omitempty"`
	feed.Frame
}

// readRecording parses and validates a recording. Timestamps must not go
// backwards; lines without one follow the previous frame by 1/rate.
func readRecording(r io.Reader, rate float64) (recording, error) {
	step := time.Duration(float64(time.Second) / rate)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var rec recording
	n := 0
	for sc.Scan() {
		n++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var l line
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}
		for i, c := range l.Controllers {
			if _, err := c.Descriptor(); err != nil {
				return nil, errors.Wrapf(err, "line %d controller %d", n, i)
			}
		}

		var at time.Duration
		switch {
		case l.T != nil:
			at = time.Duration(*l.T * float64(time.Millisecond))
		case len(rec) > 0:
			at = rec.duration() + step
		}
		if at < rec.duration() {
			return nil, errors.Errorf("line %d: timestamp goes backwards", n)
		}

		data, err := json.Marshal(l.Frame)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}
		rec = append(rec, entry{at: at, data: data})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "scan recording")
	}
	if len(rec) == 0 {
		return nil, errors.New("empty recording")
	}
	return rec, nil
}

type frameWriter interface {
	WriteMessage(opcode gws.Opcode, payload []byte) error
}

// replay sends every frame at its offset scaled by speed.
func replay(ctx context.Context, w frameWriter, rec recording, speed float64) error {
	start := time.Now()
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for _, e := range rec {
		due := time.Duration(float64(e.at) / speed)
		if wait := due - time.Since(start); wait > 0 {
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.WriteMessage(gws.OpcodeText, e.data); err != nil {
			return errors.Wrap(err, "send frame")
		}
	}
	return nil
}
