package controls

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/XRControllerView/internal/event"
	"github.com/soar/XRControllerView/internal/scene"
	"github.com/soar/XRControllerView/internal/xrmath"
)

// handPoses places every joint at the origin except the thumb and index
// tips, which sit gap meters apart along x around (0, 1, -0.3).
func handPoses(gap float64) []float64 {
	poses := make([]float64, JointCount*jointStride)
	for j := range JointCount {
		m := xrmath.Mat4Identity()
		copy(poses[j*jointStride:], m[:])
	}
	set := func(j int, p xrmath.Vec3) {
		poses[j*jointStride+12] = p.X
		poses[j*jointStride+13] = p.Y
		poses[j*jointStride+14] = p.Z
	}
	set(jointWrist, xrmath.V3(0, 0.9, -0.2))
	set(jointThumbTip, xrmath.V3(-gap/2, 1, -0.3))
	set(jointIndexTip, xrmath.V3(gap/2, 1, -0.3))
	return poses
}

func handDescriptor(gap float64) ControllerDescriptor {
	return ControllerDescriptor{
		ID:         "hand-right",
		Handedness: HandRight,
		Profiles:   []string{"generic-hand"},
		Hand:       &HandInput{Poses: handPoses(gap), Radii: make([]float64, JointCount)},
	}
}

func handBinding(t *testing.T) *Binding {
	t.Helper()
	b, err := NewBinding(Criteria{Profile: HandProfilePrefix, HandTracking: true})
	require.NoError(t, err)
	return b
}

func TestPinchHysteresis(t *testing.T) {
	b := handBinding(t)
	h := NewHandTracker(nil)
	rec := &recorder{}
	session := Session{ID: "s1", ReferenceSpace: true}

	step := func(gap float64) []string {
		rec.reset()
		require.True(t, b.Refresh([]ControllerDescriptor{handDescriptor(gap)}))
		h.Update(b, rec, session)
		return rec.names()
	}

	assert.Empty(t, step(0.05))
	assert.Equal(t, []string{"pinchstarted", "pinchmoved"}, step(0.01))
	assert.Equal(t, []string{"pinchmoved"}, step(0.018), "between the thresholds stays pinched")
	assert.Equal(t, []string{"pinchmoved"}, step(0.012))
	assert.Equal(t, []string{"pinchended"}, step(0.025))
	assert.Empty(t, step(0.018), "between the thresholds stays released")
	assert.Equal(t, []string{"pinchstarted", "pinchmoved"}, step(0.001))

	pinched, mid := h.Pinched()
	assert.True(t, pinched)
	assert.True(t, xrmath.V3(0, 1, -0.3).NearlyEqual(mid, 1e-9))
	p := rec.events[0].(event.Pinch)
	assert.True(t, xrmath.V3(0, 1, -0.3).NearlyEqual(p.Position, 1e-9))
}

func TestHandJointLookup(t *testing.T) {
	b := handBinding(t)
	h := NewHandTracker(nil)

	_, ok := h.JointPose("wrist")
	assert.False(t, ok, "nothing tracked yet")

	d := handDescriptor(0.05)
	d.Hand.Radii[jointIndexTip] = 0.008
	require.True(t, b.Refresh([]ControllerDescriptor{d}))
	h.Update(b, &recorder{}, Session{ReferenceSpace: true})

	m, ok := h.JointPose("index-finger-tip")
	require.True(t, ok)
	assert.InDelta(t, 0.025, m.Position().X, 1e-9)

	r, ok := h.JointRadius("index-finger-tip")
	require.True(t, ok)
	assert.InDelta(t, 0.008, r, 1e-12)

	wrist, ok := h.WristPosition()
	require.True(t, ok)
	assert.Equal(t, xrmath.V3(0, 0.9, -0.2), wrist)

	_, ok = h.JointPose("sixth-finger")
	assert.False(t, ok)
	assert.Equal(t, "thumb-tip", JointNames[jointThumbTip])
	assert.Equal(t, "index-finger-tip", JointNames[jointIndexTip])
}

func TestHandTrackingNeedsReferenceSpace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	b := handBinding(t)
	h := NewHandTracker(logger)
	rec := &recorder{}
	require.True(t, b.Refresh([]ControllerDescriptor{handDescriptor(0.001)}))

	for range 3 {
		h.Update(b, rec, Session{ID: "s1"})
	}
	assert.Empty(t, rec.events)
	assert.True(t, h.Disabled())
	assert.Equal(t, 1, strings.Count(buf.String(), "reference space unavailable"), "warns once per session")

	// Still off for the same session even if the space shows up later.
	h.Update(b, rec, Session{ID: "s1", ReferenceSpace: true})
	assert.Empty(t, rec.events)

	h.Update(b, rec, Session{ID: "s2", ReferenceSpace: true})
	assert.False(t, h.Disabled())
	assert.Equal(t, []string{"pinchstarted", "pinchmoved"}, rec.names())
}

func TestHandTrackingControls(t *testing.T) {
	sc := scene.New()
	e := sc.CreateEntity("rightHandTracking")
	rec := record(e)
	h, err := NewHandTrackingControls(e, HandTrackingConfig{Hand: HandRight})
	require.NoError(t, err)

	f := &Frame{Session: Session{ID: "s1", ReferenceSpace: true}}
	step := func(descs ...ControllerDescriptor) []string {
		rec.reset()
		f.Descriptors = descs
		h.Refresh(descs)
		h.UpdatePose(f)
		h.UpdateButtons(f)
		sc.ProcessEvents()
		return rec.names()
	}

	noJoints := ControllerDescriptor{ID: "hand-right", Handedness: HandRight, Profiles: []string{"generic-hand"}}
	left := handDescriptor(0.01)
	left.Handedness = HandLeft
	assert.Empty(t, step(noJoints, left), "joints and hand are both required")
	assert.False(t, h.State().Present)

	assert.Equal(t, []string{"controllerconnected", "pinchstarted", "pinchmoved"}, step(handDescriptor(0.01)))
	st := h.State()
	assert.True(t, st.Present)
	assert.True(t, st.Pinching)
	assert.Equal(t, "hand-right", st.Controller)
	assert.Equal(t, "hand-tracking-controls", st.Component)
	_, ok := h.Hand()
	assert.True(t, ok)

	assert.Equal(t, []string{"pinchended"}, step(handDescriptor(0.05)))
	assert.Equal(t, []string{"controllerdisconnected"}, step())
	_, ok = h.Hand()
	assert.False(t, ok)
}
