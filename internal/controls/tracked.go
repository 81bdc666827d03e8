package controls

import (
	"context"
	"log/slog"

	xlog "github.com/soar/XRControllerView/internal/log"
)

// Tracked drives one entity from one controller: pose every tick, the
// button/axis engine, and joint data for hand-tracking sources. It keeps
// its own binding so its history is independent of whoever created it.
type Tracked struct {
	entity  Entity
	binding *Binding
	pose    *PoseResolver
	hand    *HandTracker
	logger  *slog.Logger
}

// NewTracked binds e to the controller c selects. Hand-tracking criteria
// get a HandTracker.
func NewTracked(e Entity, c Criteria, pc PoseConfig, logger *slog.Logger) (*Tracked, error) {
	b, err := NewBinding(c)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tracked{entity: e, binding: b, pose: NewPoseResolver(pc), logger: logger}
	if c.HandTracking {
		t.hand = NewHandTracker(logger)
	}
	return t, nil
}

// Binding exposes the tracked binding.
func (t *Tracked) Binding() *Binding { return t.binding }

// Hand returns the joint tracker, nil for non-hand criteria.
func (t *Tracked) Hand() *HandTracker { return t.hand }

// Refresh rebinds against this tick's descriptors. Losing the controller
// clears the history so a later reconnect reports fresh transitions.
func (t *Tracked) Refresh(descs []ControllerDescriptor) bool {
	if t.binding.Refresh(descs) {
		return true
	}
	t.binding.reset()
	if t.hand != nil {
		t.hand.Reset()
	}
	return false
}

// UpdatePose writes the controller pose into the entity transform.
func (t *Tracked) UpdatePose(head Entity, session Session) {
	t.pose.Update(t.binding, t.entity, head, session)
	if t.binding.Present() && t.logger.Enabled(context.Background(), xlog.LevelTrace) {
		tr := t.entity.Transform()
		t.logger.Log(context.Background(), xlog.LevelTrace, "pose",
			"entity", t.entity.Name(), "position", tr.Position, "rotation", tr.RotationDegrees())
	}
}

// UpdateButtons runs the button and axis diff, then hand joints.
func (t *Tracked) UpdateButtons(session Session) {
	UpdateButtons(t.binding, t.entity)
	if t.binding.Present() && t.logger.Enabled(context.Background(), xlog.LevelTrace) {
		t.logger.Log(context.Background(), xlog.LevelTrace, "buttons",
			"entity", t.entity.Name(), "buttons", t.binding.ButtonStates(), "axes", t.binding.AxisState())
	}
	if t.hand != nil {
		t.hand.Update(t.binding, t.entity, session)
	}
}
