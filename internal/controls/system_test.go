package controls

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/XRControllerView/internal/scene"
	"github.com/soar/XRControllerView/internal/xrmath"
)

type fixedHead struct {
	pos xrmath.Vec3
}

func (h fixedHead) Head() (xrmath.Vec3, xrmath.Quat, bool) { return h.pos, xrmath.QuatIdentity(), true }

type fixedSession Session

func (s fixedSession) Session() Session { return Session(s) }

func drain(ch <-chan Update) []Update {
	var out []Update
	for {
		select {
		case u := <-ch:
			out = append(out, u)
		default:
			return out
		}
	}
}

func newTestSystem(t *testing.T, enum Enumerator) (*System, *scene.Scene) {
	t.Helper()
	sc := scene.New()
	sc.SetCamera(sc.CreateEntity("head"))
	s := NewSystem(sc, SystemConfig{
		Enumerator: enum,
		Session:    fixedSession{ID: "s", ReferenceSpace: true},
		Head:       fixedHead{pos: xrmath.V3(0, 1.6, 0)},
	})
	return s, sc
}

func TestSystemTick(t *testing.T) {
	daydream := pad("Daydream Controller", HandRight, 3)
	daydream.Pose.Orientation = ptrQuat(xrmath.QuatIdentity())
	enum := &staticEnum{}
	s, sc := newTestSystem(t, enum)

	e := sc.CreateEntity("rightHand")
	d, err := NewDeviceControls(e, profile(t, "daydream"), DeviceConfig{Hand: HandRight})
	require.NoError(t, err)
	s.Add(d)

	s.Tick(16 * time.Millisecond)
	states := s.CurrentState()
	require.Len(t, states, 1)
	assert.False(t, states[0].Present)
	drain(s.Changes())

	enum.descs = []ControllerDescriptor{daydream}
	s.Tick(16 * time.Millisecond)

	states = s.CurrentState()
	require.True(t, states[0].Present)
	assert.Equal(t, "Daydream Controller", states[0].Controller)
	assert.True(t, xrmath.V3(0.28, 1.12, -0.328).NearlyEqual(states[0].Position, 1e-6), "arm model from the head source")

	var events []string
	var delta *StateDelta
	for _, u := range drain(s.Changes()) {
		assert.Equal(t, "rightHand", u.Entity)
		assert.Equal(t, HandRight, u.Hand)
		if u.Event != "" {
			events = append(events, u.Event)
		}
		if u.Delta != nil {
			delta = u.Delta
		}
	}
	assert.Equal(t, []string{"controllerconnected"}, events)
	require.NotNil(t, delta)
	require.NotNil(t, delta.Present)
	assert.True(t, *delta.Present)

	s.Tick(16 * time.Millisecond)
	assert.Empty(t, drain(s.Changes()), "nothing changed")
}

type turningHead struct {
	pos xrmath.Vec3
	rot xrmath.Quat
}

func (h *turningHead) Head() (xrmath.Vec3, xrmath.Quat, bool) { return h.pos, h.rot, true }

func TestSystemArmModelIgnoresHeadPitch(t *testing.T) {
	daydream := pad("Daydream Controller", HandRight, 3)
	daydream.Pose.Orientation = ptrQuat(xrmath.QuatIdentity())

	yaw := xrmath.QuatFromAxisAngle(xrmath.Up, xrmath.DegToRad(45))
	head := &turningHead{pos: xrmath.V3(0, 1.6, 0), rot: yaw}

	sc := scene.New()
	sc.SetCamera(sc.CreateEntity("head"))
	s := NewSystem(sc, SystemConfig{
		Enumerator: &staticEnum{descs: []ControllerDescriptor{daydream}},
		Session:    fixedSession{ID: "s", ReferenceSpace: true},
		Head:       head,
	})
	d, err := NewDeviceControls(sc.CreateEntity("rightHand"), profile(t, "daydream"), DeviceConfig{Hand: HandRight})
	require.NoError(t, err)
	s.Add(d)

	s.Tick(16 * time.Millisecond)
	turned := s.CurrentState()[0].Position
	elbow := xrmath.V3(0.28, -0.48, -0.048).ApplyAxisAngle(xrmath.Up, xrmath.DegToRad(45))
	want := xrmath.V3(0, 1.6, 0).Add(elbow).Add(xrmath.V3(0, 0, -0.28))
	assertVec(t, want, turned, "elbow follows the head yaw")

	head.rot = yaw.Mul(xrmath.QuatFromAxisAngle(xrmath.V3(1, 0, 0), xrmath.DegToRad(30)))
	s.Tick(16 * time.Millisecond)
	assertVec(t, turned, s.CurrentState()[0].Position, "looking up leaves the hand in place")
}

func TestSystemHintRefreshes(t *testing.T) {
	enum := &staticEnum{descs: []ControllerDescriptor{pad("Gear VR", HandRight, 2)}}
	s, sc := newTestSystem(t, enum)
	d, err := NewDeviceControls(sc.CreateEntity("rightHand"), profile(t, "gearvr"), DeviceConfig{Hand: HandRight})
	require.NoError(t, err)
	s.Add(d)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Hour)
		close(done)
	}()

	s.ControllersUpdated()
	assert.Eventually(t, func() bool {
		for {
			select {
			case u := <-s.Changes():
				if u.Event == "controllerconnected" {
					return true
				}
			default:
				return false
			}
		}
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.True(t, d.Present())
}

func TestMultiEnumerator(t *testing.T) {
	a := &staticEnum{descs: []ControllerDescriptor{pad("a", HandLeft, 0)}}
	b := &staticEnum{descs: []ControllerDescriptor{pad("b", HandRight, 0), pad("c", HandNone, 0)}}
	got := Multi{a, b}.Enumerate()
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[2].ID)
	assert.Empty(t, Multi{}.Enumerate())
}

func TestComputeDelta(t *testing.T) {
	old := ComponentState{Entity: "rightHand", Present: true, Position: xrmath.V3(0, 1, 0)}
	same := old
	same.Position.X += positionThreshold / 2
	assert.True(t, ComputeDelta(old, same).IsEmpty())

	next := old
	next.Position = xrmath.V3(0, 1.1, 0)
	next.Buttons = []ButtonState{{Pressed: true}}
	d := ComputeDelta(old, next)
	require.False(t, d.IsEmpty())
	assert.Nil(t, d.Present)
	require.NotNil(t, d.Position)
	assert.Equal(t, 1.1, d.Position.Y)
	require.NotNil(t, d.Buttons)
	assert.Len(t, *d.Buttons, 1)
}
