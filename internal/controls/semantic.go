package controls

import (
	"github.com/soar/XRControllerView/internal/event"
	"github.com/soar/XRControllerView/internal/scene"
)

// SemanticLayer re-emits raw button and axis events on an entity under the
// names a SemanticMapping gives them.
type SemanticLayer struct {
	entity  Entity
	mapping SemanticMapping
	// onButton, if set, sees every semantic button event after it is emitted.
	onButton func(event.Semantic)

	handles []scene.ListenerHandle
}

func NewSemanticLayer(e Entity, m SemanticMapping) *SemanticLayer {
	return &SemanticLayer{entity: e, mapping: m}
}

// Attach starts listening. Attaching twice is a no-op.
func (l *SemanticLayer) Attach() {
	if l.handles != nil {
		return
	}
	for _, k := range []event.Kind{event.ButtonDown, event.ButtonUp, event.TouchStart, event.TouchEnd, event.ButtonChanged} {
		l.handles = append(l.handles, l.entity.Listen(k, l.handleButton))
	}
	l.handles = append(l.handles, l.entity.Listen(event.AxisMove, l.handleAxis))
}

// Detach stops listening.
func (l *SemanticLayer) Detach() {
	for _, h := range l.handles {
		h.Remove()
	}
	l.handles = nil
}

func (l *SemanticLayer) handleButton(ev event.Event) {
	b, ok := ev.(event.Button)
	if !ok {
		return
	}
	name := l.mapping.ButtonName(b.ID)
	if name == "" {
		return
	}
	s := event.Semantic{Button: name, Phase: b.Phase, ID: b.ID, State: b.State}
	l.entity.Emit(s)
	if l.onButton != nil {
		l.onButton(s)
	}
}

func (l *SemanticLayer) handleAxis(ev event.Event) {
	a, ok := ev.(event.Axis)
	if !ok {
		return
	}
	EmitIfAxesChanged(l.entity, l.mapping, a)
}

// EmitIfAxesChanged emits "<name>moved" for every mapped axis group with at
// least one changed index, labelling the group's first and second axis x
// and y.
func EmitIfAxesChanged(target Emitter, m SemanticMapping, a event.Axis) {
	for _, g := range m.Axes {
		if !g.changed(a.Changed) {
			continue
		}
		target.Emit(event.Moved{
			Axis: g.Name,
			X:    axisValue(a.Axis, g.Indices[0]),
			Y:    axisValue(a.Axis, g.Indices[1]),
		})
	}
}

func axisValue(axes []float64, i int) float64 {
	if i < 0 || i >= len(axes) {
		return 0
	}
	return axes[i]
}
