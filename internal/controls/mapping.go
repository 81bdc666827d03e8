package controls

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/soar/XRControllerView/internal/xrmath"
)

// ErrUnknownProfile is returned when a profile name is not registered.
var ErrUnknownProfile = errors.New("controls: unknown device profile")

// AxisGroup names a pair of raw axis indices, e.g. thumbstick = [2, 3].
type AxisGroup struct {
	Name    string
	Indices [2]int
}

func (g AxisGroup) changed(mask []bool) bool {
	for _, i := range g.Indices {
		if i >= 0 && i < len(mask) && mask[i] {
			return true
		}
	}
	return false
}

// SemanticMapping translates raw indices into control names. Buttons holds
// one name per raw index; "none" marks an unused slot.
type SemanticMapping struct {
	Axes    []AxisGroup
	Buttons []string
}

// ButtonName returns the mapped name for raw index id, or "" when unmapped.
func (m SemanticMapping) ButtonName(id int) string {
	if id < 0 || id >= len(m.Buttons) || m.Buttons[id] == "none" {
		return ""
	}
	return m.Buttons[id]
}

// Ray is the pointer ray in the controller's local space.
type Ray struct {
	Origin    xrmath.Vec3
	Direction xrmath.Vec3
}

// Profile is the static description of one controller family.
type Profile struct {
	// Name is the registry key, e.g. "oculus-touch".
	Name string
	// Component is the component name reported in connection events.
	Component string
	// IDPrefix matches legacy gamepad ids; '|' separates alternatives.
	IDPrefix string
	// WebXRProfile matches WebXR profile strings by prefix.
	WebXRProfile string

	// Legacy and XR hold the mapping per hand. HandUnknown is the fallback
	// for either hand.
	Legacy map[Handedness]SemanticMapping
	XR     map[Handedness]SemanticMapping

	// ArmModel is on for orientation-only devices.
	ArmModel bool
	// OrientationOffset corrects the authored model orientation, degrees.
	OrientationOffset xrmath.Vec3

	ModelURL     map[Handedness]string
	ButtonMeshes map[string]string
	Ray          Ray
}

// Mapping returns the mapping for hand in the given mode.
func (p *Profile) Mapping(hand Handedness, webXR bool) SemanticMapping {
	table := p.Legacy
	if webXR {
		table = p.XR
	}
	if m, ok := table[hand]; ok {
		return m
	}
	return table[HandUnknown]
}

// Model returns the model URL for hand.
func (p *Profile) Model(hand Handedness) string {
	if u, ok := p.ModelURL[hand]; ok {
		return u
	}
	return p.ModelURL[HandUnknown]
}

// Registry holds the known profiles by name. It is passed to whatever
// needs lookup by name; there is no package-level instance.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]*Profile)}
}

// DefaultRegistry returns a registry with the built-in profiles.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range builtinProfiles() {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds p. Names are case-insensitive and must be unique.
func (r *Registry) Register(p *Profile) error {
	if p == nil || p.Name == "" {
		return errors.New("controls: profile needs a name")
	}
	if p.IDPrefix == "" && p.WebXRProfile == "" {
		return errors.Errorf("controls: profile %q needs an id prefix or WebXR profile", p.Name)
	}
	key := strings.ToLower(p.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.profiles[key]; dup {
		return errors.Errorf("controls: profile %q already registered", p.Name)
	}
	r.profiles[key] = p
	r.order = append(r.order, key)
	return nil
}

// Get looks a profile up by name.
func (r *Registry) Get(name string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrap(ErrUnknownProfile, name)
	}
	return p, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]string(nil), r.order...)
	sort.Strings(out)
	return out
}

// Detect picks the profile for a descriptor: WebXR profiles are tried in
// the descriptor's preference order, then legacy id prefixes in
// registration order. The generic profile only wins when nothing else does.
func (r *Registry) Detect(d ControllerDescriptor) (*Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var fallback *Profile
	for _, tag := range d.Profiles {
		for _, key := range r.order {
			p := r.profiles[key]
			if p.WebXRProfile == "" || !strings.HasPrefix(tag, p.WebXRProfile) {
				continue
			}
			if p.Name != genericProfile {
				return p, true
			}
			if fallback == nil {
				fallback = p
			}
		}
	}
	if d.ID != "" {
		for _, key := range r.order {
			p := r.profiles[key]
			if p.IDPrefix == "" || !(Criteria{IDPrefix: p.IDPrefix}).idMatches(&d) {
				continue
			}
			if p.Name != genericProfile {
				return p, true
			}
			if fallback == nil {
				fallback = p
			}
		}
	}
	return fallback, fallback != nil
}

// Profiles returns the registered profiles in registration order.
func (r *Registry) Profiles() []*Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Profile, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.profiles[key])
	}
	return out
}
