// Package feed is a controller source fed over a websocket. A WebXR page
// (or the xrfeed replay tool) pushes one JSON Frame per animation frame;
// the source turns it into controller descriptors for the tick.
package feed

import (
	"github.com/pkg/errors"

	"github.com/soar/XRControllerView/internal/controls"
	"github.com/soar/XRControllerView/internal/xrmath"
)

// ErrBadFrame wraps every frame validation failure.
var ErrBadFrame = errors.New("feed: bad frame")

// Frame is one snapshot pushed by a feed client.
type Frame struct {
	// Session identifies the client's XR session. Empty frames inherit the
	// connection's session id.
	Session        string       `json:"session,omitempty"`
	Immersive      bool         `json:"immersive"`
	ReferenceSpace bool         `json:"referenceSpace"`
	Standing       []float64    `json:"standing,omitempty"`
	Head           *HeadPose    `json:"head,omitempty"`
	Controllers    []Controller `json:"controllers"`
}

// HeadPose is the viewer pose.
type HeadPose struct {
	Position    []float64 `json:"position"`
	Orientation []float64 `json:"orientation"`
}

// Controller is one input source as the page saw it.
type Controller struct {
	ID       string                 `json:"id"`
	Hand     string                 `json:"hand,omitempty"`
	Index    int                    `json:"index"`
	Buttons  []controls.ButtonState `json:"buttons,omitempty"`
	Axes     []float64              `json:"axes,omitempty"`
	Profiles []string               `json:"profiles,omitempty"`

	// Legacy gamepad pose; either may be absent.
	Position    []float64 `json:"position,omitempty"`
	Orientation []float64 `json:"orientation,omitempty"`
	// WebXR space poses, 16 floats column-major.
	Grip      []float64 `json:"grip,omitempty"`
	TargetRay []float64 `json:"targetRay,omitempty"`

	// Hand-tracking joints: 25 matrices and 25 radii.
	Joints []float64 `json:"joints,omitempty"`
	Radii  []float64 `json:"radii,omitempty"`
}

func vec3(s []float64, field string) (*xrmath.Vec3, error) {
	if s == nil {
		return nil, nil
	}
	if len(s) != 3 {
		return nil, errors.Wrapf(ErrBadFrame, "%s: want 3 floats, got %d", field, len(s))
	}
	v := xrmath.V3FromSlice(s, 0)
	return &v, nil
}

func quat(s []float64, field string) (*xrmath.Quat, error) {
	if s == nil {
		return nil, nil
	}
	if len(s) != 4 {
		return nil, errors.Wrapf(ErrBadFrame, "%s: want 4 floats, got %d", field, len(s))
	}
	q := xrmath.QuatFromSlice(s, 0)
	return &q, nil
}

func mat4(s []float64, field string) (*xrmath.Mat4, error) {
	if s == nil {
		return nil, nil
	}
	m, ok := xrmath.Mat4FromSlice(s, 0)
	if !ok || len(s) != 16 {
		return nil, errors.Wrapf(ErrBadFrame, "%s: want 16 floats, got %d", field, len(s))
	}
	return &m, nil
}

// Descriptor converts c.
func (c Controller) Descriptor() (controls.ControllerDescriptor, error) {
	d := controls.ControllerDescriptor{
		ID:         c.ID,
		Handedness: controls.Handedness(c.Hand),
		Index:      c.Index,
		Buttons:    c.Buttons,
		Axes:       c.Axes,
		Profiles:   c.Profiles,
	}
	switch d.Handedness {
	case controls.HandUnknown, controls.HandLeft, controls.HandRight, controls.HandNone:
	default:
		return d, errors.Wrapf(ErrBadFrame, "controller %q: handedness %q", c.ID, c.Hand)
	}

	var err error
	if d.Pose.Position, err = vec3(c.Position, "position"); err != nil {
		return d, err
	}
	if d.Pose.Orientation, err = quat(c.Orientation, "orientation"); err != nil {
		return d, err
	}
	if d.Pose.GripMatrix, err = mat4(c.Grip, "grip"); err != nil {
		return d, err
	}
	if d.Pose.TargetRayMatrix, err = mat4(c.TargetRay, "targetRay"); err != nil {
		return d, err
	}

	if c.Joints != nil {
		if len(c.Joints) != controls.JointCount*16 || len(c.Radii) != controls.JointCount {
			return d, errors.Wrapf(ErrBadFrame, "controller %q: want %d joints", c.ID, controls.JointCount)
		}
		d.Hand = &controls.HandInput{Poses: c.Joints, Radii: c.Radii}
	}
	return d, nil
}
