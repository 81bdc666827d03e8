package controls

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/XRControllerView/internal/scene"
	"github.com/soar/XRControllerView/internal/xrmath"
)

const poseEps = 1e-6

func assertVec(t *testing.T, want, got xrmath.Vec3, msgAndArgs ...any) {
	t.Helper()
	if !want.NearlyEqual(got, poseEps) {
		assert.Fail(t, fmt.Sprintf("want %+v, got %+v", want, got), msgAndArgs...)
	}
}

func TestPoseArmModel(t *testing.T) {
	sc := scene.New()
	head := sc.CreateEntity("head")
	ht := head.Transform()
	ht.Position = xrmath.V3(0, 1.6, 0)
	head.SetTransform(ht)

	tests := []struct {
		name string
		hand Handedness
		want xrmath.Vec3
	}{
		{"right", HandRight, xrmath.V3(0.28, 1.12, -0.328)},
		{"left", HandLeft, xrmath.V3(-0.28, 1.12, -0.328)},
		{"none", HandNone, xrmath.V3(0, 1.12, -0.328)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := pad("Daydream Controller", tt.hand, 1)
			d.Pose.Orientation = ptrQuat(xrmath.QuatIdentity())
			b := boundTo(t, d)

			e := sc.CreateEntity("hand")
			NewPoseResolver(PoseConfig{ArmModel: true}).Update(b, e, head, Session{})
			assertVec(t, tt.want, e.Transform().Position)
		})
	}
}

func TestPoseArmModelUnhandedUsesRequestedHand(t *testing.T) {
	sc := scene.New()
	d := pad("Gear VR", HandUnknown, 1)

	b, err := NewBinding(Criteria{IDPrefix: "Gear VR", Handedness: HandLeft})
	require.NoError(t, err)
	require.True(t, b.Refresh([]ControllerDescriptor{d}))
	e := sc.CreateEntity("hand")
	NewPoseResolver(PoseConfig{ArmModel: true}).Update(b, e, nil, Session{})
	assert.InDelta(t, -0.28, e.Transform().Position.X, poseEps)

	b, err = NewBinding(Criteria{IDPrefix: "Gear VR"})
	require.NoError(t, err)
	require.True(t, b.Refresh([]ControllerDescriptor{d}))
	NewPoseResolver(PoseConfig{ArmModel: true}).Update(b, e, nil, Session{})
	assert.InDelta(t, 0.28, e.Transform().Position.X, poseEps, "defaults to the right side")
}

func TestPoseArmModelFollowsHeadYaw(t *testing.T) {
	sc := scene.New()
	head := sc.CreateEntity("head")
	ht := head.Transform()
	ht.Rotation = xrmath.Euler{Y: math.Pi / 2}
	head.SetTransform(ht)

	d := pad("Daydream Controller", HandRight, 1)
	b := boundTo(t, d)
	e := sc.CreateEntity("hand")
	NewPoseResolver(PoseConfig{ArmModel: true, UserHeight: 1}).Update(b, e, head, Session{})

	// Elbow (0.175, -0.3, -0.03) turned 90 degrees left is (-0.03, -0.3,
	// -0.175); the device reported no orientation so the forearm stays
	// straight ahead at (0, 0, -0.175).
	assertVec(t, xrmath.V3(-0.03, -0.3, -0.35), e.Transform().Position)
	assert.Equal(t, xrmath.Euler{}, e.Transform().Rotation, "no orientation, rotation untouched")
}

func TestPoseSixDOF(t *testing.T) {
	sc := scene.New()
	d := pad("Oculus Touch (Right)", HandRight, 1)
	d.Pose.Position = ptrVec(xrmath.V3(0.1, 1.2, -0.3))
	d.Pose.Orientation = ptrQuat(xrmath.QuatFromEuler(xrmath.EulerDeg(0, 30, 0)))
	b := boundTo(t, d)

	e := sc.CreateEntity("hand")
	r := NewPoseResolver(PoseConfig{ArmModel: true})
	r.Update(b, e, nil, Session{})
	assertVec(t, xrmath.V3(0.1, 1.2, -0.3), e.Transform().Position)
	assert.InDelta(t, 30, e.Transform().RotationDegrees().Y, 1e-4)

	standing := xrmath.ComposeMat4(xrmath.V3(0, 1.5, 0), xrmath.QuatIdentity(), xrmath.V3(1, 1, 1))
	r.Update(b, e, nil, Session{Immersive: true, Standing: standing})
	assertVec(t, xrmath.V3(0.1, 2.7, -0.3), e.Transform().Position)

	r.Update(b, e, nil, Session{Standing: standing})
	assertVec(t, xrmath.V3(0.1, 1.2, -0.3), e.Transform().Position, "standing only applies while immersive")
}

func TestPoseOrientationOffset(t *testing.T) {
	sc := scene.New()
	d := pad("Oculus Touch (Left)", HandLeft, 1)
	d.Pose.Position = ptrVec(xrmath.V3(0, 1, 0))
	d.Pose.Orientation = ptrQuat(xrmath.QuatIdentity())
	b := boundTo(t, d)

	e := sc.CreateEntity("hand")
	r := NewPoseResolver(PoseConfig{OrientationOffset: xrmath.V3(43, 0, 0)})
	for range 3 {
		r.Update(b, e, nil, Session{})
	}
	assert.InDelta(t, 43, e.Transform().RotationDegrees().X, 1e-4, "offset applies once per resolve, not cumulatively")
}

func TestPoseWebXRSpaces(t *testing.T) {
	sc := scene.New()
	grip := xrmath.ComposeMat4(xrmath.V3(0.2, 1, -0.1), xrmath.QuatIdentity(), xrmath.V3(1, 1, 1))
	ray := xrmath.ComposeMat4(xrmath.V3(0.2, 1.05, -0.15), xrmath.QuatFromEuler(xrmath.EulerDeg(-30, 0, 0)), xrmath.V3(1, 1, 1))

	d := ControllerDescriptor{ID: "xr-right", Handedness: HandRight, Profiles: []string{"oculus-touch"}}
	d.Pose.GripMatrix = ptrMat(grip)
	d.Pose.TargetRayMatrix = ptrMat(ray)
	b := boundTo(t, d)

	e := sc.CreateEntity("hand")
	NewPoseResolver(PoseConfig{}).Update(b, e, nil, Session{})
	assertVec(t, xrmath.V3(0.2, 1.05, -0.15), e.Transform().Position)
	assert.InDelta(t, -30, e.Transform().RotationDegrees().X, 1e-4)

	NewPoseResolver(PoseConfig{Space: SpaceGrip}).Update(b, e, nil, Session{})
	assertVec(t, xrmath.V3(0.2, 1, -0.1), e.Transform().Position)
}

func TestPoseMissingIsNoop(t *testing.T) {
	sc := scene.New()
	e := sc.CreateEntity("hand")
	before := e.Transform()
	before.Position = xrmath.V3(1, 2, 3)
	e.SetTransform(before)

	b := boundTo(t, pad("Gamepad", HandUnknown, 1))
	NewPoseResolver(PoseConfig{}).Update(b, e, nil, Session{})
	assert.Equal(t, before, e.Transform(), "button-only device")

	absent, err := NewBinding(Criteria{IDPrefix: "Nothing"})
	require.NoError(t, err)
	NewPoseResolver(PoseConfig{ArmModel: true}).Update(absent, e, nil, Session{})
	assert.Equal(t, before, e.Transform())
}
