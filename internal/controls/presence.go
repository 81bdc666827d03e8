package controls

import "github.com/soar/XRControllerView/internal/event"

// Hooks are the lifecycle callbacks a Presence drives. Any may be nil.
type Hooks struct {
	// Inject runs once per connect with the descriptor that matched.
	Inject func(ControllerDescriptor)
	// Eject runs once per disconnect.
	Eject func()
	// AddListeners and RemoveListeners attach and detach the component's
	// event listeners.
	AddListeners    func()
	RemoveListeners func()
}

// Presence is the per-component "is my controller connected" state
// machine. Presence is re-derived from enumeration on every Refresh;
// platform connect/disconnect notifications only make refreshes happen
// sooner.
type Presence struct {
	name    string
	ref     any
	target  Emitter
	binding *Binding
	hooks   Hooks

	present   bool
	listening bool
}

// NewPresence validates c. name and ref are reported in connection events.
func NewPresence(name string, ref any, target Emitter, c Criteria, hooks Hooks) (*Presence, error) {
	b, err := NewBinding(c)
	if err != nil {
		return nil, err
	}
	return &Presence{name: name, ref: ref, target: target, binding: b, hooks: hooks}, nil
}

// Present reports the state after the last Refresh.
func (p *Presence) Present() bool { return p.present }

// Listening reports whether listeners are attached.
func (p *Presence) Listening() bool { return p.listening }

// Binding exposes the presence binding.
func (p *Presence) Binding() *Binding { return p.binding }

// Refresh matches against descs and fires lifecycle hooks on a transition.
// It returns true when presence changed.
func (p *Presence) Refresh(descs []ControllerDescriptor) bool {
	found := p.binding.Refresh(descs)
	switch {
	case found && !p.present:
		p.present = true
		if p.hooks.Inject != nil {
			d, _ := p.binding.Controller()
			p.hooks.Inject(d)
		}
		p.addListeners()
		p.target.Emit(event.Connection{Connected: true, Component: p.name, Ref: p.ref})
		return true

	case !found && p.present:
		p.present = false
		p.removeListeners()
		if p.hooks.Eject != nil {
			p.hooks.Eject()
		}
		p.target.Emit(event.Connection{Connected: false, Component: p.name, Ref: p.ref})
		return true

	case found && !p.listening:
		// Resumed after a pause without a presence change.
		p.addListeners()
	}
	return false
}

// Pause detaches listeners. The next Refresh that still finds the
// controller reattaches them.
func (p *Presence) Pause() {
	p.removeListeners()
}

func (p *Presence) addListeners() {
	if p.listening {
		return
	}
	if p.hooks.AddListeners != nil {
		p.hooks.AddListeners()
	}
	p.listening = true
}

func (p *Presence) removeListeners() {
	if !p.listening {
		return
	}
	if p.hooks.RemoveListeners != nil {
		p.hooks.RemoveListeners()
	}
	p.listening = false
}
