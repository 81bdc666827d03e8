package controls

import (
	"github.com/soar/XRControllerView/internal/event"
	"github.com/soar/XRControllerView/internal/scene"
)

// Hand poses derived from the controller's buttons.
const (
	GestureOpen       = "open"
	GestureFist       = "fist"
	GesturePoint      = "point"
	GestureThumbUp    = "thumbUp"
	GesturePointThumb = "pointThumb"
	GestureHold       = "hold"
)

// GestureTracker derives a hand pose from semantic button events. Listening
// only records button state; Update compares and emits, so gesture events
// follow the button events of the same tick.
type GestureTracker struct {
	entity Entity
	// thumbOnly makes grip or trigger a fist and the trackpad a point;
	// controllers without capacitive buttons need it.
	thumbOnly bool

	pressed map[string]bool
	touched map[string]bool
	gesture string
	handle  scene.ListenerHandle
	on      bool
}

func NewGestureTracker(e Entity, thumbOnly bool) *GestureTracker {
	return &GestureTracker{
		entity:    e,
		thumbOnly: thumbOnly,
		pressed:   make(map[string]bool),
		touched:   make(map[string]bool),
		gesture:   GestureOpen,
	}
}

// Attach starts recording semantic button events.
func (g *GestureTracker) Attach() {
	if g.on {
		return
	}
	g.handle = g.entity.Listen(event.SemanticButton, g.record)
	g.on = true
}

// Detach stops recording and forgets held buttons.
func (g *GestureTracker) Detach() {
	if !g.on {
		return
	}
	g.handle.Remove()
	g.on = false
	clear(g.pressed)
	clear(g.touched)
}

// Gesture returns the current pose.
func (g *GestureTracker) Gesture() string { return g.gesture }

func (g *GestureTracker) record(ev event.Event) {
	s, ok := ev.(event.Semantic)
	if !ok {
		return
	}
	switch s.Phase {
	case event.PhaseDown:
		g.pressed[s.Button] = true
	case event.PhaseUp:
		g.pressed[s.Button] = false
	case event.PhaseTouchStart:
		g.touched[s.Button] = true
	case event.PhaseTouchEnd:
		g.touched[s.Button] = false
	}
}

// Update emits gesture events when the derived pose changed: the new
// gesture's start first, then the old one's end.
func (g *GestureTracker) Update() {
	next := g.determine()
	if next == g.gesture {
		return
	}
	last := g.gesture
	g.gesture = next
	if event.HasGestureEvent(next) {
		g.entity.Emit(event.HandGesture{Gesture: next, Started: true})
	}
	if event.HasGestureEvent(last) {
		g.entity.Emit(event.HandGesture{Gesture: last, Started: false})
	}
}

func (g *GestureTracker) active(button string) bool {
	return g.pressed[button] || g.touched[button]
}

func (g *GestureTracker) determine() string {
	grip := g.pressed["grip"] || g.pressed["squeeze"]
	surface := g.active("surface")
	trackpad := g.active("trackpad") || g.active("touchpad")
	trigger := g.active("trigger")
	faceButtons := g.touched["abutton"] || g.touched["xbutton"] ||
		g.touched["bbutton"] || g.touched["ybutton"]

	if g.thumbOnly {
		switch {
		case grip || trigger:
			return GestureFist
		case trackpad:
			return GesturePoint
		}
		return GestureOpen
	}

	switch {
	case grip && (surface || faceButtons || trackpad):
		if trigger {
			return GestureFist
		}
		return GesturePoint
	case grip:
		if trigger {
			return GestureThumbUp
		}
		return GesturePointThumb
	case trigger:
		return GestureHold
	}
	return GestureOpen
}
