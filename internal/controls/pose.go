package controls

import (
	"github.com/soar/XRControllerView/internal/scene"
	"github.com/soar/XRControllerView/internal/xrmath"
)

// Arm model constants, in meters for a 1 m tall user.
var (
	eyesToElbow = xrmath.Vec3{X: 0.175, Y: -0.3, Z: -0.03}
	forearm     = xrmath.Vec3{X: 0, Y: 0, Z: -0.175}
)

// DefaultUserHeight scales the arm model when none is configured.
const DefaultUserHeight = 1.6

// PoseConfig tunes a PoseResolver.
type PoseConfig struct {
	// ArmModel synthesizes a position for orientation-only devices.
	ArmModel bool
	// Space picks the WebXR pose. Defaults to SpaceTargetRay.
	Space Space
	// OrientationOffset is added to the resolved rotation, in degrees.
	OrientationOffset xrmath.Vec3
	// UserHeight scales the arm model. Zero means DefaultUserHeight.
	UserHeight float64
}

// PoseResolver writes a matched controller's pose onto an entity.
//
// The scratch fields are reused every tick; a resolver must not be shared
// between goroutines.
type PoseResolver struct {
	cfg    PoseConfig
	offset xrmath.Euler

	position xrmath.Vec3
	delta    xrmath.Vec3
	euler    xrmath.Euler
}

func NewPoseResolver(cfg PoseConfig) *PoseResolver {
	if cfg.Space == "" {
		cfg.Space = SpaceTargetRay
	}
	if cfg.UserHeight <= 0 {
		cfg.UserHeight = DefaultUserHeight
	}
	o := cfg.OrientationOffset
	return &PoseResolver{cfg: cfg, offset: xrmath.EulerDeg(o.X, o.Y, o.Z)}
}

// Config returns the effective configuration.
func (r *PoseResolver) Config() PoseConfig { return r.cfg }

// Update resolves b's pose into e's transform. It is a no-op when b is
// absent or the device reported no usable pose this tick. head may be nil;
// the arm model then anchors at the origin.
func (r *PoseResolver) Update(b *Binding, e Entity, head Entity, session Session) {
	d, ok := b.Controller()
	if !ok {
		return
	}
	pose := d.Pose
	t := e.Transform()

	if m, ok := pose.Matrix(r.cfg.Space); ok {
		p, q, s := m.Decompose()
		t.Position, t.Rotation, t.Scale = p, xrmath.EulerFromQuat(q), s
		t.Rotation = t.Rotation.Add(r.offset)
		e.SetTransform(t)
		return
	}
	if pose.Position == nil && pose.Orientation == nil {
		// WebXR sources without a pose are button-only; legacy devices
		// still get an arm-model position from the head.
		if !r.cfg.ArmModel || len(d.Profiles) > 0 {
			return
		}
	}

	var q xrmath.Quat
	if pose.Orientation != nil {
		q = pose.Orientation.Normalize()
	}

	switch {
	case pose.Position != nil && pose.Orientation != nil:
		m := xrmath.ComposeMat4(*pose.Position, q, xrmath.Vec3{X: 1, Y: 1, Z: 1})
		if session.Immersive {
			m = session.standing().Mul(m)
		}
		t.Position, q, _ = m.Decompose()
	case pose.Position != nil:
		t.Position = *pose.Position
	case r.cfg.ArmModel:
		headTransform := scene.IdentityTransform
		if head != nil {
			headTransform = head.Transform()
		}
		t.Position = r.applyArmModel(r.handFor(b, d), pose.Orientation, headTransform)
	}

	if pose.Orientation != nil {
		t.Rotation = xrmath.EulerFromQuat(q).Add(r.offset)
	}
	e.SetTransform(t)
}

// handFor picks the side the elbow sits on. Unhanded devices use the hand
// the binding asked for, and right when neither names a hand.
func (r *PoseResolver) handFor(b *Binding, d ControllerDescriptor) Handedness {
	if d.Handedness != HandUnknown {
		return d.Handedness
	}
	if b.Criteria.Handedness != HandUnknown {
		return b.Criteria.Handedness
	}
	return HandRight
}

// applyArmModel approximates a hand position from the head pose: an elbow
// anchor offset from the eyes, turned with the head's yaw only, plus a
// forearm offset turned by the controller's pitch and yaw. A controller
// without orientation keeps the forearm pointing straight ahead.
func (r *PoseResolver) applyArmModel(hand Handedness, orientation *xrmath.Quat, head scene.Transform) xrmath.Vec3 {
	h := r.cfg.UserHeight

	r.position = head.Position

	side := 0.0
	switch hand {
	case HandLeft:
		side = -1
	case HandRight:
		side = 1
	}
	r.delta = xrmath.Vec3{X: eyesToElbow.X * side, Y: eyesToElbow.Y, Z: eyesToElbow.Z}.Scale(h)
	r.delta = r.delta.ApplyAxisAngle(xrmath.Up, head.Quaternion().Yaw())
	r.position = r.position.Add(r.delta)

	r.delta = forearm.Scale(h)
	q := xrmath.QuatIdentity()
	if orientation != nil {
		q = orientation.Normalize()
	}
	r.euler = xrmath.EulerFromQuat(q)
	r.euler.Z = 0
	r.delta = r.delta.ApplyEuler(r.euler)
	r.position = r.position.Add(r.delta)

	return r.position
}
