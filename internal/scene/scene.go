// Package scene is the entity layer the tracked-controls engine writes into.
//
// Entities live in a donburi world. Each carries a Transform component and a
// listener registry; events emitted on an entity reach its listeners
// synchronously and are also published as ControllerEventType so ECS systems
// can subscribe to them and drain them with ProcessEvents at the end of the
// tick.
package scene

import (
	"github.com/soar/XRControllerView/internal/event"
	"github.com/soar/XRControllerView/internal/xrmath"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// Transform is an entity's local transform. Rotation is radians; the
// degree-based attribute view is RotationDegrees / SetRotationDegrees.
type Transform struct {
	Position xrmath.Vec3
	Rotation xrmath.Euler
	Scale    xrmath.Vec3
}

// IdentityTransform has unit scale and no rotation or translation.
var IdentityTransform = Transform{Scale: xrmath.Vec3{X: 1, Y: 1, Z: 1}}

// Quaternion returns Rotation as a quaternion.
func (t Transform) Quaternion() xrmath.Quat { return xrmath.QuatFromEuler(t.Rotation) }

// RotationDegrees returns Rotation in degrees.
func (t Transform) RotationDegrees() xrmath.Vec3 { return t.Rotation.Degrees() }

// SetRotationDegrees sets Rotation from degrees.
func (t *Transform) SetRotationDegrees(d xrmath.Vec3) {
	t.Rotation = xrmath.EulerDeg(d.X, d.Y, d.Z)
}

// Dispatched is the ECS-side envelope of an entity event.
type Dispatched struct {
	Entity donburi.Entity
	Name   string
	Event  event.Event
}

var (
	// TransformComponent stores every entity's Transform.
	TransformComponent = donburi.NewComponentType[Transform](IdentityTransform)
	// NameComponent stores the entity's debug name.
	NameComponent = donburi.NewComponentType[string]()
	// CameraTag marks the head entity.
	CameraTag = donburi.NewTag()

	// ControllerEventType carries every emitted event to ECS subscribers.
	ControllerEventType = events.NewEventType[Dispatched]()

	cameraQuery = donburi.NewQuery(filter.Contains(CameraTag))
)

// Scene owns the donburi world and the entities created in it.
type Scene struct {
	world    donburi.World
	entities map[donburi.Entity]*Entity
}

func New() *Scene {
	return &Scene{
		world:    donburi.NewWorld(),
		entities: make(map[donburi.Entity]*Entity),
	}
}

// World exposes the underlying donburi world for ECS subscribers.
func (s *Scene) World() donburi.World { return s.world }

// CreateEntity adds a named entity with an identity transform.
func (s *Scene) CreateEntity(name string) *Entity {
	id := s.world.Create(TransformComponent, NameComponent)
	NameComponent.SetValue(s.world.Entry(id), name)
	e := &Entity{scene: s, id: id, name: name}
	s.entities[id] = e
	return e
}

// RemoveEntity deletes e from the world. Its listeners are dropped.
func (s *Scene) RemoveEntity(e *Entity) {
	if e == nil || !s.world.Valid(e.id) {
		return
	}
	delete(s.entities, e.id)
	s.world.Remove(e.id)
	e.handlers = handlerRegistry{}
}

// SetCamera marks e as the head entity, clearing any previous camera.
func (s *Scene) SetCamera(e *Entity) {
	if prev, ok := s.Camera(); ok {
		if prev == e {
			return
		}
		s.world.Entry(prev.id).RemoveComponent(CameraTag)
	}
	s.world.Entry(e.id).AddComponent(CameraTag)
}

// Camera returns the head entity, if one is set.
func (s *Scene) Camera() (*Entity, bool) {
	entry, ok := cameraQuery.First(s.world)
	if !ok {
		return nil, false
	}
	e, ok := s.entities[entry.Entity()]
	return e, ok
}

// Lookup returns the entity with the given ECS id.
func (s *Scene) Lookup(id donburi.Entity) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Entities returns every live entity.
func (s *Scene) Entities() []*Entity {
	out := make([]*Entity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e)
	}
	return out
}

// ProcessEvents delivers queued ECS events to their subscribers.
func (s *Scene) ProcessEvents() {
	events.ProcessAllEvents(s.world)
}
