// Package event defines the tracked-controls event contract.
//
// Events are a closed set of payload types behind the Event interface; Kind
// identifies the type for switch-free dispatch and Name gives the stable
// wire name viewers and listeners key on ("buttondown", "triggerdown",
// "thumbstickmoved", ...).
package event

import "github.com/soar/XRControllerView/internal/xrmath"

// Kind identifies an event payload type.
type Kind int

const (
	ControllerConnected Kind = iota
	ControllerDisconnected
	ButtonDown
	ButtonUp
	TouchStart
	TouchEnd
	ButtonChanged
	AxisMove
	SemanticButton
	SemanticMoved
	PinchStarted
	PinchMoved
	PinchEnded
	Gesture

	kindCount
)

var kindNames = [kindCount]string{
	ControllerConnected:    "controllerconnected",
	ControllerDisconnected: "controllerdisconnected",
	ButtonDown:             "buttondown",
	ButtonUp:               "buttonup",
	TouchStart:             "touchstart",
	TouchEnd:               "touchend",
	ButtonChanged:          "buttonchanged",
	AxisMove:               "axismove",
	SemanticButton:         "semanticbutton",
	SemanticMoved:          "semanticmoved",
	PinchStarted:           "pinchstarted",
	PinchMoved:             "pinchmoved",
	PinchEnded:             "pinchended",
	Gesture:                "gesture",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Event is implemented only by the payload types in this package.
type Event interface {
	Kind() Kind
	// Name is the framework-wide event name. For semantic events it includes
	// the mapped control name, e.g. "triggerdown".
	Name() string
	sealed()
}

// ButtonState is one button's observed state for a tick.
type ButtonState struct {
	Pressed bool    `json:"pressed"`
	Touched bool    `json:"touched"`
	Value   float64 `json:"value"`
}

// Phase is the transition a button event reports.
type Phase int

const (
	PhaseDown Phase = iota
	PhaseUp
	PhaseTouchStart
	PhaseTouchEnd
	PhaseChanged
)

var phaseSuffix = [...]string{"down", "up", "touchstart", "touchend", "changed"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseSuffix) {
		return "unknown"
	}
	return phaseSuffix[p]
}

// Kind maps a phase to the raw button event kind.
func (p Phase) Kind() Kind {
	switch p {
	case PhaseDown:
		return ButtonDown
	case PhaseUp:
		return ButtonUp
	case PhaseTouchStart:
		return TouchStart
	case PhaseTouchEnd:
		return TouchEnd
	default:
		return ButtonChanged
	}
}

// Connection is emitted when a controller component gains or loses its device.
type Connection struct {
	Connected bool `json:"connected"`
	// Component is the name of the component that owns the binding, e.g.
	// "oculus-touch-controls".
	Component string `json:"component"`
	// Ref points back to the component itself.
	Ref any `json:"-"`
}

func (e Connection) Kind() Kind {
	if e.Connected {
		return ControllerConnected
	}
	return ControllerDisconnected
}
func (e Connection) Name() string { return e.Kind().String() }
func (Connection) sealed()        {}

// Button is a raw, index-addressed button transition.
type Button struct {
	Phase Phase       `json:"-"`
	ID    int         `json:"id"`
	State ButtonState `json:"state"`
}

func (e Button) Kind() Kind   { return e.Phase.Kind() }
func (e Button) Name() string { return e.Kind().String() }
func (Button) sealed()        {}

// Axis is the raw axismove payload. Changed is parallel to Axis.
type Axis struct {
	Axis    []float64 `json:"axis"`
	Changed []bool    `json:"changed"`
}

func (Axis) Kind() Kind   { return AxisMove }
func (Axis) Name() string { return AxisMove.String() }
func (Axis) sealed()      {}

// Semantic is a button transition re-labelled through a device mapping.
type Semantic struct {
	Button string      `json:"button"`
	Phase  Phase       `json:"-"`
	ID     int         `json:"id"`
	State  ButtonState `json:"state"`
}

func (Semantic) Kind() Kind     { return SemanticButton }
func (e Semantic) Name() string { return e.Button + e.Phase.String() }
func (Semantic) sealed()        {}

// Moved is an axis group re-labelled through a device mapping.
type Moved struct {
	Axis string  `json:"axis"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (Moved) Kind() Kind     { return SemanticMoved }
func (e Moved) Name() string { return e.Axis + "moved" }
func (Moved) sealed()        {}

// PinchPhase is the pinch gesture transition.
type PinchPhase int

const (
	PinchStart PinchPhase = iota
	PinchMove
	PinchEnd
)

// Pinch carries the midpoint between the thumb and index finger tips.
type Pinch struct {
	Phase    PinchPhase  `json:"-"`
	Position xrmath.Vec3 `json:"position"`
}

func (e Pinch) Kind() Kind {
	switch e.Phase {
	case PinchStart:
		return PinchStarted
	case PinchEnd:
		return PinchEnded
	default:
		return PinchMoved
	}
}
func (e Pinch) Name() string { return e.Kind().String() }
func (Pinch) sealed()        {}

// HandGesture reports a derived hand pose change. Only gestures listed in
// gestureNames produce events; the others are silent poses.
type HandGesture struct {
	Gesture string `json:"gesture"`
	Started bool   `json:"started"`
}

var gestureNames = map[string][2]string{
	"fist":    {"gripclose", "gripopen"},
	"point":   {"pointingstart", "pointingend"},
	"thumbUp": {"pistolstart", "pistolend"},
}

// HasGestureEvent reports whether gesture emits start/end events.
func HasGestureEvent(gesture string) bool {
	_, ok := gestureNames[gesture]
	return ok
}

func (HandGesture) Kind() Kind { return Gesture }
func (e HandGesture) Name() string {
	names, ok := gestureNames[e.Gesture]
	if !ok {
		return Gesture.String()
	}
	if e.Started {
		return names[0]
	}
	return names[1]
}
func (HandGesture) sealed() {}
