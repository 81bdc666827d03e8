package controls

import (
	"context"
	"log/slog"
	"time"

	"github.com/soar/XRControllerView/internal/event"
	"github.com/soar/XRControllerView/internal/xrmath"
)

// DeviceConfig configures a DeviceControls component.
type DeviceConfig struct {
	Hand  Handedness
	Index int
	// Space picks the WebXR pose driving the entity.
	Space Space
	// UserHeight scales the arm model; zero uses DefaultUserHeight.
	UserHeight float64
	// ArmModel overrides the profile default when set.
	ArmModel *bool
	// OrientationOffset overrides the profile offset when set, degrees.
	OrientationOffset *xrmath.Vec3
	// Model turns on model loading and button highlights.
	Model bool
	// Gestures derives hand poses from the mapped buttons.
	Gestures bool

	Loader ModelLoader
	Logger *slog.Logger
	// Ctx bounds model loads. Defaults to context.Background.
	Ctx context.Context
}

// DeviceControls binds one hand of one device profile to an entity. On
// connect it injects a Tracked for the same controller, starts the model
// load and maps raw events to semantic ones.
type DeviceControls struct {
	entity  Entity
	profile *Profile
	cfg     DeviceConfig
	logger  *slog.Logger

	presence *Presence
	tracked  *Tracked
	semantic *SemanticLayer
	gestures *GestureTracker
	feedback *Feedback

	controller string
}

// NewDeviceControls binds e to profile for cfg.Hand.
func NewDeviceControls(e Entity, profile *Profile, cfg DeviceConfig) (*DeviceControls, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Ctx == nil {
		cfg.Ctx = context.Background()
	}
	d := &DeviceControls{
		entity:   e,
		profile:  profile,
		cfg:      cfg,
		logger:   cfg.Logger.With("component", profile.Component, "hand", string(cfg.Hand)),
		feedback: NewFeedback(),
	}
	p, err := NewPresence(profile.Component, d, e, d.criteria(), Hooks{
		Inject:          d.inject,
		Eject:           d.eject,
		AddListeners:    d.addListeners,
		RemoveListeners: d.removeListeners,
	})
	if err != nil {
		return nil, err
	}
	d.presence = p
	return d, nil
}

func (d *DeviceControls) criteria() Criteria {
	return Criteria{
		IDPrefix:   d.profile.IDPrefix,
		Profile:    d.profile.WebXRProfile,
		Handedness: d.cfg.Hand,
		Index:      d.cfg.Index,
	}
}

func (d *DeviceControls) poseConfig() PoseConfig {
	pc := PoseConfig{
		ArmModel:          d.profile.ArmModel,
		Space:             d.cfg.Space,
		OrientationOffset: d.profile.OrientationOffset,
		UserHeight:        d.cfg.UserHeight,
	}
	if d.cfg.ArmModel != nil {
		pc.ArmModel = *d.cfg.ArmModel
	}
	if d.cfg.OrientationOffset != nil {
		pc.OrientationOffset = *d.cfg.OrientationOffset
	}
	return pc
}

func (d *DeviceControls) Name() string        { return d.profile.Component }
func (d *DeviceControls) Profile() *Profile   { return d.profile }
func (d *DeviceControls) Entity() Entity      { return d.entity }
func (d *DeviceControls) Present() bool       { return d.presence.Present() }
func (d *DeviceControls) Tracked() *Tracked   { return d.tracked }
func (d *DeviceControls) Feedback() *Feedback { return d.feedback }

func (d *DeviceControls) inject(desc ControllerDescriptor) {
	t, err := NewTracked(d.entity, d.criteria(), d.poseConfig(), d.logger)
	if err != nil {
		// The same criteria already passed validation in NewPresence.
		d.logger.Error("inject tracked controls", "error", err)
		return
	}
	d.tracked = t
	d.controller = desc.ID

	hand := d.cfg.Hand
	if hand == HandUnknown {
		hand = desc.Handedness
	}
	d.semantic = NewSemanticLayer(d.entity, d.profile.Mapping(hand, len(desc.Profiles) > 0))
	if d.cfg.Model {
		d.semantic.onButton = d.highlight
		d.feedback.Load(d.cfg.Ctx, d.cfg.Loader, d.profile.Model(hand), d.logger)
	}
	if d.cfg.Gestures {
		d.gestures = NewGestureTracker(d.entity, d.profile.Name == "vive")
	}
	d.logger.Info("controller connected", "id", desc.ID)
}

func (d *DeviceControls) eject() {
	d.logger.Info("controller disconnected", "id", d.controller)
	d.tracked = nil
	d.semantic = nil
	d.gestures = nil
	d.controller = ""
	d.feedback.Reset()
}

func (d *DeviceControls) addListeners() {
	if d.semantic != nil {
		d.semantic.Attach()
	}
	if d.gestures != nil {
		d.gestures.Attach()
	}
}

func (d *DeviceControls) removeListeners() {
	if d.semantic != nil {
		d.semantic.Detach()
	}
	if d.gestures != nil {
		d.gestures.Detach()
	}
}

func (d *DeviceControls) highlight(s event.Semantic) {
	switch s.Phase {
	case event.PhaseDown:
		d.feedback.Press(s.Button, true)
	case event.PhaseUp:
		d.feedback.Press(s.Button, false)
	}
}

// Refresh runs presence and then rebinds the injected Tracked.
func (d *DeviceControls) Refresh(descs []ControllerDescriptor) bool {
	changed := d.presence.Refresh(descs)
	if d.tracked != nil {
		d.tracked.Refresh(descs)
	}
	return changed
}

func (d *DeviceControls) UpdatePose(f *Frame) {
	if d.tracked != nil {
		d.tracked.UpdatePose(f.Head, f.Session)
	}
}

func (d *DeviceControls) UpdateButtons(f *Frame) {
	if d.tracked != nil && d.presence.Listening() {
		d.tracked.UpdateButtons(f.Session)
	}
}

func (d *DeviceControls) UpdateGestures(*Frame) {
	if d.gestures != nil && d.presence.Listening() {
		d.gestures.Update()
	}
}

func (d *DeviceControls) UpdateDisplay(dt time.Duration) {
	d.feedback.Update(dt)
}

func (d *DeviceControls) Pause() { d.presence.Pause() }

func (d *DeviceControls) State() ComponentState {
	s := ComponentState{
		Component:  d.profile.Component,
		Profile:    d.profile.Name,
		Entity:     d.entity.Name(),
		Hand:       d.cfg.Hand,
		Present:    d.presence.Present(),
		Controller: d.controller,
		Model:      d.feedback.Model(),
		Highlights: d.feedback.Highlights(),
	}
	s.setTransform(d.entity)
	if d.tracked != nil {
		s.Buttons = d.tracked.binding.ButtonStates()
		s.Axes = d.tracked.binding.AxisState()
	}
	if d.gestures != nil {
		s.Gesture = d.gestures.Gesture()
	}
	return s
}
