package feed

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/XRControllerView/internal/controls"
	"github.com/soar/XRControllerView/internal/xrmath"
)

func identity16() []float64 {
	m := xrmath.Mat4Identity()
	return m[:]
}

func hinted(s *Source) bool {
	select {
	case <-s.Hints():
		return true
	default:
		return false
	}
}

func TestApplyAndEnumerate(t *testing.T) {
	s := NewSource(nil)
	id := s.Open()

	err := s.Apply(id, Frame{
		ReferenceSpace: true,
		Immersive:      true,
		Head:           &HeadPose{Position: []float64{0, 1.6, 0}, Orientation: []float64{0, 0, 0, 1}},
		Controllers: []Controller{
			{ID: "xr-left", Hand: "left", Profiles: []string{"oculus-touch"}, Grip: identity16(), TargetRay: identity16()},
			{ID: "Daydream Controller", Orientation: []float64{0, 0, 0, 1}, Buttons: []controls.ButtonState{{Pressed: true}}},
		},
	})
	require.NoError(t, err)
	assert.True(t, hinted(s))

	descs := s.Enumerate()
	require.Len(t, descs, 2)
	assert.Equal(t, controls.HandLeft, descs[0].Handedness)
	require.NotNil(t, descs[0].Pose.GripMatrix)
	assert.Nil(t, descs[1].Pose.Position, "3-DOF device")
	require.NotNil(t, descs[1].Pose.Orientation)
	assert.True(t, descs[1].Buttons[0].Pressed)

	sess := s.Session()
	assert.Equal(t, id, sess.ID, "connection id stands in for a missing session")
	assert.True(t, sess.Immersive)
	assert.True(t, sess.ReferenceSpace)
	assert.Equal(t, xrmath.Mat4Identity(), sess.Standing)

	p, q, ok := s.Head()
	require.True(t, ok)
	assert.Equal(t, xrmath.V3(0, 1.6, 0), p)
	assert.Equal(t, xrmath.QuatIdentity(), q)

	// Same controllers again: no hint.
	require.NoError(t, s.Apply(id, Frame{Controllers: []Controller{
		{ID: "xr-left", Hand: "left"}, {ID: "Daydream Controller"},
	}}))
	assert.False(t, hinted(s))

	s.Close(id)
	assert.True(t, hinted(s))
	assert.Empty(t, s.Enumerate())
	assert.Equal(t, controls.Session{}, s.Session())
}

func TestApplyRejectsBadFrames(t *testing.T) {
	tests := []struct {
		name string
		f    Frame
	}{
		{"short position", Frame{Controllers: []Controller{{ID: "a", Position: []float64{1, 2}}}}},
		{"short matrix", Frame{Controllers: []Controller{{ID: "a", Grip: []float64{1}}}}},
		{"bad hand", Frame{Controllers: []Controller{{ID: "a", Hand: "both"}}}},
		{"partial joints", Frame{Controllers: []Controller{{ID: "a", Joints: make([]float64, 16)}}}},
		{"standing", Frame{Standing: []float64{1, 0, 0}}},
		{"head", Frame{Head: &HeadPose{Orientation: []float64{1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSource(nil)
			id := s.Open()
			require.NoError(t, s.Apply(id, Frame{Controllers: []Controller{{ID: "keep"}}}))
			assert.ErrorIs(t, s.Apply(id, tt.f), ErrBadFrame)
			descs := s.Enumerate()
			require.Len(t, descs, 1, "previous snapshot survives")
			assert.Equal(t, "keep", descs[0].ID)
		})
	}

	s := NewSource(nil)
	assert.Error(t, s.Apply("nope", Frame{}))
}

func TestHandJoints(t *testing.T) {
	s := NewSource(nil)
	id := s.Open()
	require.NoError(t, s.Apply(id, Frame{Controllers: []Controller{{
		ID:       "hand",
		Hand:     "right",
		Profiles: []string{"generic-hand"},
		Joints:   make([]float64, controls.JointCount*16),
		Radii:    make([]float64, controls.JointCount),
	}}}))
	d := s.Enumerate()[0]
	require.NotNil(t, d.Hand)
	assert.Len(t, d.Hand.Poses, controls.JointCount*16)
}

func TestServeHTTP(t *testing.T) {
	s := NewSource(nil)
	srv := httptest.NewServer(s)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, conn.WriteJSON(Frame{
		Session:     "abc",
		Controllers: []Controller{{ID: "Oculus Touch (Right)", Hand: "right"}},
	}))

	assert.Eventually(t, func() bool {
		return len(s.Enumerate()) == 1 && s.Session().ID == "abc"
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return len(s.Enumerate()) == 0 }, time.Second, 5*time.Millisecond)
}
