// Package controls is the tracked-controls engine: it matches enumerated
// controllers to components, tracks their presence, resolves poses, diffs
// buttons and axes into events and derives hand-tracking gestures.
//
// Everything here runs on the tick goroutine. Descriptors are read-only
// snapshots; every Binding owns its own button and axis history.
package controls

import (
	"github.com/soar/XRControllerView/internal/event"
	"github.com/soar/XRControllerView/internal/xrmath"
)

// Handedness is the hand a controller reports or a component asks for.
type Handedness string

const (
	HandUnknown Handedness = ""
	HandLeft    Handedness = "left"
	HandRight   Handedness = "right"
	HandNone    Handedness = "none"
)

func (h Handedness) valid() bool {
	switch h {
	case HandUnknown, HandLeft, HandRight, HandNone:
		return true
	}
	return false
}

// ButtonState is one button's observed state.
type ButtonState = event.ButtonState

// Space selects which WebXR pose drives the entity.
type Space string

const (
	SpaceTargetRay Space = "targetRaySpace"
	SpaceGrip      Space = "gripSpace"
)

// Pose is whatever pose data the platform produced this tick. Legacy
// gamepad-pose devices fill Position/Orientation (3-DOF devices leave
// Position nil); WebXR sources fill the space matrices instead.
type Pose struct {
	Position        *xrmath.Vec3
	Orientation     *xrmath.Quat
	GripMatrix      *xrmath.Mat4
	TargetRayMatrix *xrmath.Mat4
}

// Matrix returns the WebXR pose for space.
func (p Pose) Matrix(space Space) (xrmath.Mat4, bool) {
	m := p.TargetRayMatrix
	if space == SpaceGrip {
		m = p.GripMatrix
	}
	if m == nil {
		return xrmath.Mat4{}, false
	}
	return *m, true
}

// Empty reports whether no pose data is present at all.
func (p Pose) Empty() bool {
	return p.Position == nil && p.Orientation == nil && p.GripMatrix == nil && p.TargetRayMatrix == nil
}

// HandInput is the joint data of a WebXR hand-tracking source, already
// filled against the session reference space: JointCount 16-float
// column-major blocks and JointCount radii.
type HandInput struct {
	Poses []float64
	Radii []float64
}

// ControllerDescriptor is one device as seen this tick. Descriptors are
// rebuilt on every enumeration; identity across ticks is not stable.
type ControllerDescriptor struct {
	ID         string
	Handedness Handedness
	Index      int
	Buttons    []ButtonState
	Axes       []float64
	Pose       Pose
	Profiles   []string
	Hand       *HandInput
}

// Session describes the platform session the descriptors came from.
type Session struct {
	// ID changes whenever the platform starts a new session.
	ID string
	// Immersive is true while presenting to a headset.
	Immersive bool
	// Standing maps legacy 6-DOF poses into the scene while immersive.
	// The zero matrix is treated as identity.
	Standing xrmath.Mat4
	// ReferenceSpace reports whether the WebXR reference space request
	// succeeded. Hand tracking needs it.
	ReferenceSpace bool
}

func (s Session) standing() xrmath.Mat4 {
	if s.Standing == (xrmath.Mat4{}) {
		return xrmath.Mat4Identity()
	}
	return s.Standing
}
