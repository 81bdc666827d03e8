package controls

import (
	"log/slog"
	"time"
)

// HandProfilePrefix matches the WebXR profiles hand-tracking sources report.
const HandProfilePrefix = "generic-hand"

// HandTrackingConfig configures a HandTrackingControls component.
type HandTrackingConfig struct {
	Hand   Handedness
	Space  Space
	Logger *slog.Logger
}

// HandTrackingControls binds a tracked hand to an entity and emits pinch
// events on it.
type HandTrackingControls struct {
	entity   Entity
	cfg      HandTrackingConfig
	logger   *slog.Logger
	presence *Presence
	tracked  *Tracked
}

func NewHandTrackingControls(e Entity, cfg HandTrackingConfig) (*HandTrackingControls, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	h := &HandTrackingControls{
		entity: e,
		cfg:    cfg,
		logger: cfg.Logger.With("component", handTrackingComponent, "hand", string(cfg.Hand)),
	}
	p, err := NewPresence(handTrackingComponent, h, e, h.criteria(), Hooks{
		Inject: h.inject,
		Eject:  func() { h.tracked = nil },
	})
	if err != nil {
		return nil, err
	}
	h.presence = p
	return h, nil
}

const handTrackingComponent = "hand-tracking-controls"

func (h *HandTrackingControls) criteria() Criteria {
	return Criteria{Profile: HandProfilePrefix, Handedness: h.cfg.Hand, HandTracking: true}
}

func (h *HandTrackingControls) inject(ControllerDescriptor) {
	t, err := NewTracked(h.entity, h.criteria(), PoseConfig{Space: h.cfg.Space}, h.logger)
	if err != nil {
		h.logger.Error("inject tracked controls", "error", err)
		return
	}
	h.tracked = t
}

// Hand returns the joint tracker while a hand is bound.
func (h *HandTrackingControls) Hand() (*HandTracker, bool) {
	if h.tracked == nil {
		return nil, false
	}
	return h.tracked.Hand(), true
}

func (h *HandTrackingControls) Name() string { return handTrackingComponent }

func (h *HandTrackingControls) Refresh(descs []ControllerDescriptor) bool {
	changed := h.presence.Refresh(descs)
	if h.tracked != nil {
		h.tracked.Refresh(descs)
	}
	return changed
}

func (h *HandTrackingControls) UpdatePose(f *Frame) {
	if h.tracked != nil {
		h.tracked.UpdatePose(f.Head, f.Session)
	}
}

func (h *HandTrackingControls) UpdateButtons(f *Frame) {
	if h.tracked != nil && h.presence.Listening() {
		h.tracked.UpdateButtons(f.Session)
	}
}

func (h *HandTrackingControls) UpdateGestures(*Frame)       {}
func (h *HandTrackingControls) UpdateDisplay(time.Duration) {}
func (h *HandTrackingControls) Pause()                      { h.presence.Pause() }

func (h *HandTrackingControls) State() ComponentState {
	s := ComponentState{
		Component: handTrackingComponent,
		Entity:    h.entity.Name(),
		Hand:      h.cfg.Hand,
		Present:   h.presence.Present(),
	}
	s.setTransform(h.entity)
	if h.tracked != nil {
		if d, ok := h.tracked.binding.Controller(); ok {
			s.Controller = d.ID
		}
		s.Buttons = h.tracked.binding.ButtonStates()
		s.Pinching, _ = h.tracked.hand.Pinched()
	}
	return s
}
