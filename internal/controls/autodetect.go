package controls

import (
	"time"

	"github.com/pkg/errors"
)

const autoDetectComponent = "laser-controls"

// AutoDetect binds one hand to whichever device profile connects first.
// Every candidate profile gets a DeviceControls on the same entity; once
// one is present the others are not refreshed until it disconnects.
type AutoDetect struct {
	entity     Entity
	candidates []*DeviceControls
	active     *DeviceControls
}

// NewAutoDetect builds a candidate for every named profile in r, tried in
// the given order. An empty names list means every registered profile in
// registration order, which keeps the generic profile last.
func NewAutoDetect(e Entity, r *Registry, names []string, cfg DeviceConfig) (*AutoDetect, error) {
	if len(names) == 0 {
		for _, p := range r.Profiles() {
			names = append(names, p.Name)
		}
	}
	a := &AutoDetect{entity: e}
	for _, name := range names {
		p, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		d, err := NewDeviceControls(e, p, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "profile %s", name)
		}
		a.candidates = append(a.candidates, d)
	}
	if len(a.candidates) == 0 {
		return nil, errors.New("controls: no profiles to detect")
	}
	return a, nil
}

func (a *AutoDetect) Name() string { return autoDetectComponent }

// Active returns the connected candidate.
func (a *AutoDetect) Active() (*DeviceControls, bool) {
	return a.active, a.active != nil
}

// Ray returns the pointer ray of the connected profile.
func (a *AutoDetect) Ray() (Ray, bool) {
	if a.active == nil {
		return Ray{}, false
	}
	return a.active.profile.Ray, true
}

func (a *AutoDetect) Refresh(descs []ControllerDescriptor) bool {
	if a.active != nil {
		changed := a.active.Refresh(descs)
		if a.active.Present() {
			return changed
		}
		a.active = nil
	}
	changed := false
	for _, d := range a.candidates {
		if d.Refresh(descs) {
			changed = true
		}
		if d.Present() {
			a.active = d
			break
		}
	}
	return changed
}

func (a *AutoDetect) UpdatePose(f *Frame) {
	if a.active != nil {
		a.active.UpdatePose(f)
	}
}

func (a *AutoDetect) UpdateButtons(f *Frame) {
	if a.active != nil {
		a.active.UpdateButtons(f)
	}
}

func (a *AutoDetect) UpdateGestures(f *Frame) {
	if a.active != nil {
		a.active.UpdateGestures(f)
	}
}

func (a *AutoDetect) UpdateDisplay(dt time.Duration) {
	if a.active != nil {
		a.active.UpdateDisplay(dt)
	}
}

func (a *AutoDetect) Pause() {
	for _, d := range a.candidates {
		d.Pause()
	}
}

func (a *AutoDetect) State() ComponentState {
	if a.active != nil {
		s := a.active.State()
		s.Component = autoDetectComponent
		return s
	}
	s := ComponentState{
		Component: autoDetectComponent,
		Entity:    a.entity.Name(),
		Hand:      a.candidates[0].cfg.Hand,
	}
	s.setTransform(a.entity)
	return s
}
