package controls

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yohamta/donburi"

	"github.com/soar/XRControllerView/internal/event"
	"github.com/soar/XRControllerView/internal/scene"
	"github.com/soar/XRControllerView/internal/xrmath"
)

// Enumerator lists the controllers visible right now. Implementations
// return a copy the caller may keep.
type Enumerator interface {
	Enumerate() []ControllerDescriptor
}

// SessionSource reports the platform session the descriptors belong to.
type SessionSource interface {
	Session() Session
}

// HeadSource reports the viewer's head pose.
type HeadSource interface {
	Head() (xrmath.Vec3, xrmath.Quat, bool)
}

// Hinter signals that the set of connected controllers may have changed.
type Hinter interface {
	Hints() <-chan struct{}
}

// Multi concatenates several enumerators in a fixed order.
type Multi []Enumerator

func (m Multi) Enumerate() []ControllerDescriptor {
	var out []ControllerDescriptor
	for _, e := range m {
		out = append(out, e.Enumerate()...)
	}
	return out
}

// Frame is what one tick hands to every component.
type Frame struct {
	Descriptors []ControllerDescriptor
	Session     Session
	// Head is nil when the scene has no camera.
	Head Entity
	DT   time.Duration
}

// Component is a per-entity controller component the System drives.
type Component interface {
	Name() string
	// Refresh re-derives presence and returns true when it changed.
	Refresh([]ControllerDescriptor) bool
	UpdatePose(*Frame)
	UpdateButtons(*Frame)
	UpdateGestures(*Frame)
	UpdateDisplay(time.Duration)
	Pause()
	State() ComponentState
}

// Update is one item on the System's change stream: an entity event or a
// component state delta.
type Update struct {
	Entity string      `json:"entity"`
	Hand   Handedness  `json:"hand,omitempty"`
	Event  string      `json:"event,omitempty"`
	Detail event.Event `json:"detail,omitempty"`
	Delta  *StateDelta `json:"delta,omitempty"`
}

// SystemConfig wires a System to its sources.
type SystemConfig struct {
	Enumerator Enumerator
	// Session and Head are optional.
	Session SessionSource
	Head    HeadSource
	Logger  *slog.Logger
}

// System owns the components of one scene and runs their per-tick phases.
// Tick, Add and Pause must be called from one goroutine; Changes and
// CurrentState are safe from any.
type System struct {
	scene   *scene.Scene
	cfg     SystemConfig
	logger  *slog.Logger
	changes chan Update

	components []Component
	owners     map[string]Handedness
	frame      Frame
	last       time.Time

	hint chan struct{}

	mu     sync.RWMutex
	states []ComponentState
}

func NewSystem(sc *scene.Scene, cfg SystemConfig) *System {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	s := &System{
		scene:   sc,
		cfg:     cfg,
		logger:  cfg.Logger,
		changes: make(chan Update, 256),
		owners:  make(map[string]Handedness),
		hint:    make(chan struct{}, 1),
	}
	scene.ControllerEventType.Subscribe(sc.World(), s.onEvent)
	return s
}

// Add registers a component. Its presence is evaluated on the next tick.
func (s *System) Add(c Component) {
	s.components = append(s.components, c)
	st := c.State()
	s.owners[st.Entity] = st.Hand
}

// Components returns the registered components.
func (s *System) Components() []Component { return s.components }

// Changes returns the channel on which updates are sent. Updates are
// dropped when nobody keeps up.
func (s *System) Changes() <-chan Update { return s.changes }

// CurrentState returns the component states after the last tick.
func (s *System) CurrentState() []ComponentState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ComponentState(nil), s.states...)
}

// ControllersUpdated asks for a presence refresh before the next tick.
// Platform connect and disconnect notifications call it; it never decides
// presence by itself.
func (s *System) ControllersUpdated() {
	select {
	case s.hint <- struct{}{}:
	default:
	}
}

// Pause detaches every component's listeners. The next tick that still
// finds a component's controller reattaches them.
func (s *System) Pause() {
	for _, c := range s.components {
		c.Pause()
	}
}

// Refresh enumerates and re-derives presence without running the other
// phases.
func (s *System) Refresh() {
	descs := s.cfg.Enumerator.Enumerate()
	s.frame.Descriptors = descs
	for _, c := range s.components {
		c.Refresh(descs)
	}
	s.scene.ProcessEvents()
}

// Tick runs one frame: enumerate, presence, pose, buttons, gestures, event
// delivery, display.
func (s *System) Tick(dt time.Duration) {
	f := &s.frame
	f.DT = dt
	f.Descriptors = s.cfg.Enumerator.Enumerate()
	if s.cfg.Session != nil {
		f.Session = s.cfg.Session.Session()
	}
	f.Head = s.head()

	for _, c := range s.components {
		c.Refresh(f.Descriptors)
	}
	for _, c := range s.components {
		c.UpdatePose(f)
	}
	for _, c := range s.components {
		c.UpdateButtons(f)
	}
	for _, c := range s.components {
		c.UpdateGestures(f)
	}
	s.scene.ProcessEvents()
	for _, c := range s.components {
		c.UpdateDisplay(dt)
	}
	s.publishStates()
}

// head syncs the camera entity from the head source and returns it.
func (s *System) head() Entity {
	cam, ok := s.scene.Camera()
	if !ok {
		return nil
	}
	if s.cfg.Head != nil {
		if p, q, ok := s.cfg.Head.Head(); ok {
			t := cam.Transform()
			t.Position = p
			t.Rotation = xrmath.EulerFromQuat(q)
			cam.SetTransform(t)
		}
	}
	return cam
}

func (s *System) publishStates() {
	next := make([]ComponentState, len(s.components))
	for i, c := range s.components {
		next[i] = c.State()
	}

	s.mu.Lock()
	prev := s.states
	s.states = next
	s.mu.Unlock()

	for i, st := range next {
		var old ComponentState
		if i < len(prev) {
			old = prev[i]
		}
		d := ComputeDelta(old, st)
		if d.IsEmpty() {
			continue
		}
		s.emit(Update{Entity: st.Entity, Hand: st.Hand, Delta: d})
	}
}

func (s *System) onEvent(_ donburi.World, d scene.Dispatched) {
	name := ""
	if e, ok := s.scene.Lookup(d.Entity); ok {
		name = e.Name()
	}
	s.emit(Update{Entity: name, Hand: s.owners[name], Event: d.Name, Detail: d.Event})
}

func (s *System) emit(u Update) {
	select {
	case s.changes <- u:
	default:
		// Drop rather than stall the tick.
	}
}

// Run ticks at rate until ctx is done. A controller hint triggers an
// immediate presence refresh between ticks.
func (s *System) Run(ctx context.Context, rate time.Duration) {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	s.last = time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.hint:
			s.Refresh()
		case now := <-ticker.C:
			s.Tick(now.Sub(s.last))
			s.last = now
		}
	}
}

// WatchHints forwards h's hints to ControllersUpdated until ctx is done.
func (s *System) WatchHints(ctx context.Context, h Hinter) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-h.Hints():
				s.ControllersUpdated()
			}
		}
	}()
}
