package controls

import (
	"maps"
	"math"
	"slices"

	"github.com/soar/XRControllerView/internal/xrmath"
)

// ComponentState is the viewer-facing snapshot of one component.
type ComponentState struct {
	Component  string      `json:"component"`
	Profile    string      `json:"profile,omitempty"`
	Entity     string      `json:"entity"`
	Hand       Handedness  `json:"hand,omitempty"`
	Present    bool        `json:"present"`
	Controller string      `json:"controller,omitempty"`
	Position   xrmath.Vec3 `json:"position"`
	// Rotation is in degrees.
	Rotation   xrmath.Vec3        `json:"rotation"`
	Buttons    []ButtonState      `json:"buttons,omitempty"`
	Axes       []float64          `json:"axes,omitempty"`
	Gesture    string             `json:"gesture,omitempty"`
	Pinching   bool               `json:"pinching,omitempty"`
	Model      string             `json:"model,omitempty"`
	Highlights map[string]float64 `json:"highlights,omitempty"`
}

func (s *ComponentState) setTransform(e Entity) {
	t := e.Transform()
	s.Position = t.Position
	s.Rotation = t.RotationDegrees()
}

// StateDelta carries the fields of a ComponentState that changed. Nil
// fields are unchanged.
type StateDelta struct {
	Entity     string              `json:"entity"`
	Component  *string             `json:"component,omitempty"`
	Profile    *string             `json:"profile,omitempty"`
	Present    *bool               `json:"present,omitempty"`
	Controller *string             `json:"controller,omitempty"`
	Position   *xrmath.Vec3        `json:"position,omitempty"`
	Rotation   *xrmath.Vec3        `json:"rotation,omitempty"`
	Buttons    *[]ButtonState      `json:"buttons,omitempty"`
	Axes       *[]float64          `json:"axes,omitempty"`
	Gesture    *string             `json:"gesture,omitempty"`
	Pinching   *bool               `json:"pinching,omitempty"`
	Model      *string             `json:"model,omitempty"`
	Highlights *map[string]float64 `json:"highlights,omitempty"`
}

func (d *StateDelta) IsEmpty() bool {
	return d.Component == nil &&
		d.Profile == nil &&
		d.Present == nil &&
		d.Controller == nil &&
		d.Position == nil &&
		d.Rotation == nil &&
		d.Buttons == nil &&
		d.Axes == nil &&
		d.Gesture == nil &&
		d.Pinching == nil &&
		d.Model == nil &&
		d.Highlights == nil
}

// Change thresholds for the continuous fields.
const (
	positionThreshold = 1e-4 // meters
	rotationThreshold = 0.05 // degrees
	analogThreshold   = 0.01
)

func vecEqual(a, b xrmath.Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func highlightsEqual(a, b map[string]float64) bool {
	return maps.EqualFunc(a, b, func(x, y float64) bool { return math.Abs(x-y) < analogThreshold })
}

// ComputeDelta returns the fields of new_ that differ from old.
func ComputeDelta(old, new_ ComponentState) *StateDelta {
	d := &StateDelta{Entity: new_.Entity}

	if old.Component != new_.Component {
		d.Component = &new_.Component
	}
	if old.Profile != new_.Profile {
		d.Profile = &new_.Profile
	}
	if old.Present != new_.Present {
		d.Present = &new_.Present
	}
	if old.Controller != new_.Controller {
		d.Controller = &new_.Controller
	}
	if !vecEqual(old.Position, new_.Position, positionThreshold) {
		d.Position = &new_.Position
	}
	if !vecEqual(old.Rotation, new_.Rotation, rotationThreshold) {
		d.Rotation = &new_.Rotation
	}
	if !slices.Equal(old.Buttons, new_.Buttons) {
		d.Buttons = &new_.Buttons
	}
	if !slices.Equal(old.Axes, new_.Axes) {
		d.Axes = &new_.Axes
	}
	if old.Gesture != new_.Gesture {
		d.Gesture = &new_.Gesture
	}
	if old.Pinching != new_.Pinching {
		d.Pinching = &new_.Pinching
	}
	if old.Model != new_.Model {
		d.Model = &new_.Model
	}
	if !highlightsEqual(old.Highlights, new_.Highlights) {
		d.Highlights = &new_.Highlights
	}

	return d
}
