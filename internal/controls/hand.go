package controls

import (
	"log/slog"

	"github.com/soar/XRControllerView/internal/event"
	"github.com/soar/XRControllerView/internal/xrmath"
)

// JointCount is the number of joints a WebXR hand reports.
const JointCount = 25

const jointStride = 16

// Pinch hysteresis, in meters between thumb tip and index tip.
const (
	PinchStartDistance = 0.015
	PinchEndDistance   = 0.02
)

// JointNames lists the WebXR joints in pose-array order.
var JointNames = [JointCount]string{
	"wrist",
	"thumb-metacarpal",
	"thumb-phalanx-proximal",
	"thumb-phalanx-distal",
	"thumb-tip",
	"index-finger-metacarpal",
	"index-finger-phalanx-proximal",
	"index-finger-phalanx-intermediate",
	"index-finger-phalanx-distal",
	"index-finger-tip",
	"middle-finger-metacarpal",
	"middle-finger-phalanx-proximal",
	"middle-finger-phalanx-intermediate",
	"middle-finger-phalanx-distal",
	"middle-finger-tip",
	"ring-finger-metacarpal",
	"ring-finger-phalanx-proximal",
	"ring-finger-phalanx-intermediate",
	"ring-finger-phalanx-distal",
	"ring-finger-tip",
	"pinky-finger-metacarpal",
	"pinky-finger-phalanx-proximal",
	"pinky-finger-phalanx-intermediate",
	"pinky-finger-phalanx-distal",
	"pinky-finger-tip",
}

const (
	jointWrist    = 0
	jointThumbTip = 4
	jointIndexTip = 9
)

var jointIndex = func() map[string]int {
	m := make(map[string]int, JointCount)
	for i, n := range JointNames {
		m[n] = i
	}
	return m
}()

// HandTracker holds the joint poses of one hand-tracking source and runs
// the pinch state machine over them.
type HandTracker struct {
	logger *slog.Logger

	poses [JointCount * jointStride]float64
	radii [JointCount]float64
	valid bool

	pinched  bool
	midpoint xrmath.Vec3

	// disabledSession is the session for which the reference space failed.
	disabledSession string
	disabled        bool
}

func NewHandTracker(logger *slog.Logger) *HandTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &HandTracker{logger: logger}
}

// Update copies the matched source's joints and emits pinch events to
// target. It does nothing for non-hand sources. Without a reference space
// it warns once and stays off until the session changes.
func (h *HandTracker) Update(b *Binding, target Emitter, session Session) {
	d, ok := b.Controller()
	if !ok || d.Hand == nil {
		return
	}
	if h.disabled && h.disabledSession == session.ID {
		return
	}
	if !session.ReferenceSpace {
		h.logger.Warn("hand tracking disabled, reference space unavailable",
			"session", session.ID, "controller", d.ID)
		h.disabled = true
		h.disabledSession = session.ID
		h.valid = false
		return
	}
	h.disabled = false

	n := copy(h.poses[:], d.Hand.Poses)
	copy(h.radii[:], d.Hand.Radii)
	h.valid = n == len(h.poses)
	if !h.valid {
		return
	}
	h.detectPinch(target)
}

func (h *HandTracker) detectPinch(target Emitter) {
	thumb := h.jointPosition(jointThumbTip)
	index := h.jointPosition(jointIndexTip)
	distance := thumb.Distance(index)
	h.midpoint = thumb.Lerp(index, 0.5)

	if distance < PinchStartDistance && !h.pinched {
		h.pinched = true
		target.Emit(event.Pinch{Phase: event.PinchStart, Position: h.midpoint})
	}
	if distance > PinchEndDistance && h.pinched {
		h.pinched = false
		target.Emit(event.Pinch{Phase: event.PinchEnd, Position: h.midpoint})
	}
	if h.pinched {
		target.Emit(event.Pinch{Phase: event.PinchMove, Position: h.midpoint})
	}
}

// Reset forgets the joints and the pinch state.
func (h *HandTracker) Reset() {
	h.valid = false
	h.pinched = false
	h.midpoint = xrmath.Vec3{}
}

// Pinched reports the pinch state and the last thumb/index midpoint.
func (h *HandTracker) Pinched() (bool, xrmath.Vec3) { return h.pinched, h.midpoint }

// Disabled reports whether tracking is off for the current session.
func (h *HandTracker) Disabled() bool { return h.disabled }

// JointPose returns the named joint's transform.
func (h *HandTracker) JointPose(name string) (xrmath.Mat4, bool) {
	i, ok := jointIndex[name]
	if !ok || !h.valid {
		return xrmath.Mat4{}, false
	}
	return xrmath.Mat4FromSlice(h.poses[:], i*jointStride)
}

// JointRadius returns the named joint's radius.
func (h *HandTracker) JointRadius(name string) (float64, bool) {
	i, ok := jointIndex[name]
	if !ok || !h.valid {
		return 0, false
	}
	return h.radii[i], true
}

// WristPosition is the pointing origin of a tracked hand.
func (h *HandTracker) WristPosition() (xrmath.Vec3, bool) {
	if !h.valid {
		return xrmath.Vec3{}, false
	}
	return h.jointPosition(jointWrist), true
}

func (h *HandTracker) jointPosition(i int) xrmath.Vec3 {
	return xrmath.V3FromSlice(h.poses[:], i*jointStride+12)
}
