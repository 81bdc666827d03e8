package controls

import "github.com/soar/XRControllerView/internal/event"

// UpdateButtons diffs the matched controller's buttons against b's history
// and emits transition events to target. Per button the order is press,
// touch, value; a button that changed in any way gets exactly one
// buttonchanged after its other events. History is updated before each
// event is emitted.
func UpdateButtons(b *Binding, target Emitter) {
	if b.matched == nil {
		return
	}
	for id, cur := range b.matched.Buttons {
		if id >= len(b.buttons) {
			b.buttons = append(b.buttons, ButtonState{})
		}
		handleButton(b, id, cur, target)
	}
	HandleAxes(b, target)
}

func handleButton(b *Binding, id int, cur ButtonState, target Emitter) bool {
	pressed := handlePress(b, id, cur, target)
	touched := handleTouch(b, id, cur, target)
	valued := handleValue(b, id, cur)
	if !pressed && !touched && !valued {
		return false
	}
	target.Emit(event.Button{Phase: event.PhaseChanged, ID: id, State: b.buttons[id]})
	return true
}

func handlePress(b *Binding, id int, cur ButtonState, target Emitter) bool {
	prev := &b.buttons[id]
	if prev.Pressed == cur.Pressed {
		return false
	}
	prev.Pressed = cur.Pressed
	phase := event.PhaseUp
	if cur.Pressed {
		phase = event.PhaseDown
	}
	target.Emit(event.Button{Phase: phase, ID: id, State: *prev})
	return true
}

func handleTouch(b *Binding, id int, cur ButtonState, target Emitter) bool {
	prev := &b.buttons[id]
	if prev.Touched == cur.Touched {
		return false
	}
	prev.Touched = cur.Touched
	phase := event.PhaseTouchEnd
	if cur.Touched {
		phase = event.PhaseTouchStart
	}
	target.Emit(event.Button{Phase: phase, ID: id, State: *prev})
	return true
}

func handleValue(b *Binding, id int, cur ButtonState) bool {
	prev := &b.buttons[id]
	if prev.Value == cur.Value {
		return false
	}
	prev.Value = cur.Value
	return true
}

// HandleAxes emits one axismove when any axis differs from b's history.
// Axes with no history yet count as changed. The event carries copies of
// the new values and of the changed mask.
func HandleAxes(b *Binding, target Emitter) bool {
	if b.matched == nil {
		return false
	}
	axes := b.matched.Axes

	b.changed = b.changed[:0]
	changed := false
	for i, v := range axes {
		c := i >= len(b.axes) || b.axes[i] != v
		b.changed = append(b.changed, c)
		changed = changed || c
	}
	if !changed {
		return false
	}

	b.axes = append(b.axes[:0], axes...)
	target.Emit(event.Axis{
		Axis:    append([]float64(nil), b.axes...),
		Changed: append([]bool(nil), b.changed...),
	})
	return true
}
