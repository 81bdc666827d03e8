package controls

import (
	"strings"

	"github.com/pkg/errors"
)

// numHands is the width of one interleaved left/right pair of unhanded
// controllers.
const numHands = 2

var (
	// ErrInvalidCriteria is returned for criteria that can never match.
	ErrInvalidCriteria = errors.New("controls: invalid match criteria")
)

// Criteria selects the controller a component binds to.
type Criteria struct {
	// IDExact requires the descriptor id to equal this string.
	IDExact string
	// IDPrefix accepts ids starting with any of its '|'-separated prefixes.
	IDPrefix string
	// Profile accepts WebXR descriptors with a profile starting with it.
	// With IDPrefix also set, either filter admits a descriptor.
	Profile string
	// Handedness is the requested hand. Empty accepts any.
	Handedness Handedness
	// Index picks the Nth matching controller. Negative means 0.
	Index int
	// HandTracking selects hand-tracking sources. Other criteria skip them.
	HandTracking bool
}

// Validate rejects criteria without any id, prefix or profile filter, or
// with an unknown handedness.
func (c Criteria) Validate() error {
	if c.IDExact == "" && c.IDPrefix == "" && c.Profile == "" {
		return errors.Wrap(ErrInvalidCriteria, "need an id, id prefix or profile")
	}
	if c.IDPrefix != "" {
		for _, p := range strings.Split(c.IDPrefix, "|") {
			if p == "" {
				return errors.Wrapf(ErrInvalidCriteria, "empty prefix in %q", c.IDPrefix)
			}
		}
	}
	if !c.Handedness.valid() {
		return errors.Wrapf(ErrInvalidCriteria, "unknown handedness %q", c.Handedness)
	}
	return nil
}

func (c Criteria) idMatches(d *ControllerDescriptor) bool {
	if c.IDExact != "" {
		return d.ID == c.IDExact
	}
	if c.IDPrefix != "" {
		for _, p := range strings.Split(c.IDPrefix, "|") {
			if strings.HasPrefix(d.ID, p) {
				return true
			}
		}
	}
	if c.Profile != "" {
		for _, p := range d.Profiles {
			if strings.HasPrefix(p, c.Profile) {
				return true
			}
		}
	}
	return false
}

// Match returns the descriptor c selects, in enumeration order. The second
// return is false when nothing qualifies; that is the normal "not
// connected" result.
//
// When c asks for a hand and a candidate reports none, the list is treated
// as interleaved left/right pairs: the Nth left controller is occurrence 2N
// and the Nth right controller is occurrence 2N+1.
func Match(descs []ControllerDescriptor, c Criteria) (ControllerDescriptor, bool) {
	index := c.Index
	if index < 0 {
		index = 0
	}
	target := index
	occurrence := 0

	for i := range descs {
		d := &descs[i]
		if !c.idMatches(d) {
			continue
		}
		if c.HandTracking != (d.Hand != nil) {
			continue
		}
		if c.Handedness != HandUnknown && d.Handedness != HandUnknown && d.Handedness != c.Handedness {
			continue
		}
		if c.Handedness != HandUnknown && d.Handedness == HandUnknown {
			target = numHands * index
			if c.Handedness != HandLeft {
				target++
			}
		}
		if occurrence == target {
			return *d, true
		}
		occurrence++
	}
	return ControllerDescriptor{}, false
}
