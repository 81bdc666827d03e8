package scene

import (
	"github.com/soar/XRControllerView/internal/event"

	"github.com/yohamta/donburi"
)

// anyKind registers a listener for every event kind.
const anyKind event.Kind = -1

type listener struct {
	id uint32
	fn func(event.Event)
}

type handlerRegistry struct {
	byKind map[event.Kind][]listener
	nextID uint32
}

// ListenerHandle removes a listener registered with Listen or ListenAll.
type ListenerHandle struct {
	id   uint32
	kind event.Kind
	reg  *handlerRegistry
}

// Remove unregisters the listener. Removing twice, or removing the zero
// handle, is a no-op.
func (h ListenerHandle) Remove() {
	if h.reg == nil || h.reg.byKind == nil {
		return
	}
	s := h.reg.byKind[h.kind]
	for i := range s {
		if s[i].id == h.id {
			// Copy instead of shifting in place so an Emit that is iterating
			// the old slice keeps a stable view.
			out := make([]listener, 0, len(s)-1)
			out = append(out, s[:i]...)
			out = append(out, s[i+1:]...)
			h.reg.byKind[h.kind] = out
			return
		}
	}
}

// Entity is a scene-graph node: a transform plus an event target.
type Entity struct {
	scene    *Scene
	id       donburi.Entity
	name     string
	handlers handlerRegistry
}

func (e *Entity) ID() donburi.Entity { return e.id }
func (e *Entity) Name() string       { return e.name }

// Transform returns a copy of the entity's transform.
func (e *Entity) Transform() Transform {
	if !e.scene.world.Valid(e.id) {
		return IdentityTransform
	}
	return *TransformComponent.Get(e.scene.world.Entry(e.id))
}

// SetTransform replaces the entity's transform.
func (e *Entity) SetTransform(t Transform) {
	if !e.scene.world.Valid(e.id) {
		return
	}
	TransformComponent.SetValue(e.scene.world.Entry(e.id), t)
}

// Listen registers fn for events of kind k.
func (e *Entity) Listen(k event.Kind, fn func(event.Event)) ListenerHandle {
	return e.handlers.add(k, fn)
}

// ListenAll registers fn for every event emitted on the entity.
func (e *Entity) ListenAll(fn func(event.Event)) ListenerHandle {
	return e.handlers.add(anyKind, fn)
}

func (r *handlerRegistry) add(k event.Kind, fn func(event.Event)) ListenerHandle {
	if r.byKind == nil {
		r.byKind = make(map[event.Kind][]listener)
	}
	r.nextID++
	id := r.nextID
	r.byKind[k] = append(r.byKind[k], listener{id: id, fn: fn})
	return ListenerHandle{id: id, kind: k, reg: r}
}

// Emit delivers ev to the entity's listeners in registration order and
// queues it for ECS subscribers.
func (e *Entity) Emit(ev event.Event) {
	kind, all := e.handlers.byKind[ev.Kind()], e.handlers.byKind[anyKind]
	for len(kind) > 0 || len(all) > 0 {
		if len(all) == 0 || (len(kind) > 0 && kind[0].id < all[0].id) {
			kind[0].fn(ev)
			kind = kind[1:]
		} else {
			all[0].fn(ev)
			all = all[1:]
		}
	}
	if e.scene.world.Valid(e.id) {
		ControllerEventType.Publish(e.scene.world, Dispatched{Entity: e.id, Name: ev.Name(), Event: ev})
	}
}
