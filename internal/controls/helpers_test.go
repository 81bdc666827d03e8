package controls

import (
	"github.com/soar/XRControllerView/internal/event"
	"github.com/soar/XRControllerView/internal/scene"
	"github.com/soar/XRControllerView/internal/xrmath"
)

// recorder collects emitted events.
type recorder struct {
	events []event.Event
}

func (r *recorder) Emit(ev event.Event) { r.events = append(r.events, ev) }

func (r *recorder) names() []string {
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Name())
	}
	return out
}

func (r *recorder) reset() { r.events = nil }

// record attaches a recorder to every event emitted on e.
func record(e *scene.Entity) *recorder {
	r := &recorder{}
	e.ListenAll(r.Emit)
	return r
}

type staticEnum struct {
	descs []ControllerDescriptor
}

func (s *staticEnum) Enumerate() []ControllerDescriptor {
	return append([]ControllerDescriptor(nil), s.descs...)
}

func pad(id string, hand Handedness, buttons int) ControllerDescriptor {
	return ControllerDescriptor{ID: id, Handedness: hand, Buttons: make([]ButtonState, buttons)}
}

func ptrVec(v xrmath.Vec3) *xrmath.Vec3  { return &v }
func ptrQuat(q xrmath.Quat) *xrmath.Quat { return &q }
func ptrMat(m xrmath.Mat4) *xrmath.Mat4  { return &m }
