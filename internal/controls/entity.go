package controls

import (
	"github.com/soar/XRControllerView/internal/event"
	"github.com/soar/XRControllerView/internal/scene"
)

// Emitter receives events.
type Emitter interface {
	Emit(event.Event)
}

// Entity is what components need from the scene graph: a transform to write
// poses into and an event target to listen on and emit to.
type Entity interface {
	Emitter
	Name() string
	Transform() scene.Transform
	SetTransform(scene.Transform)
	Listen(event.Kind, func(event.Event)) scene.ListenerHandle
}

var _ Entity = (*scene.Entity)(nil)
