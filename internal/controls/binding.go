package controls

// Binding is a component's live association with one controller plus the
// button and axis history the event engine diffs against. The history is
// always a private copy of last tick's observation.
type Binding struct {
	Criteria Criteria

	matched *ControllerDescriptor
	buttons []ButtonState
	axes    []float64
	changed []bool
}

// NewBinding validates c and returns an unmatched binding.
func NewBinding(c Criteria) (*Binding, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Binding{Criteria: c}, nil
}

// Present reports whether a controller matched on the last refresh.
func (b *Binding) Present() bool { return b.matched != nil }

// Controller returns the matched descriptor.
func (b *Binding) Controller() (ControllerDescriptor, bool) {
	if b.matched == nil {
		return ControllerDescriptor{}, false
	}
	return *b.matched, true
}

// ButtonStates returns a copy of the button history.
func (b *Binding) ButtonStates() []ButtonState {
	return append([]ButtonState(nil), b.buttons...)
}

// AxisState returns a copy of the axis history.
func (b *Binding) AxisState() []float64 {
	return append([]float64(nil), b.axes...)
}

// Refresh re-runs the matcher against descs and reports presence.
func (b *Binding) Refresh(descs []ControllerDescriptor) bool {
	d, ok := Match(descs, b.Criteria)
	if !ok {
		b.matched = nil
		return false
	}
	b.matched = &d
	return true
}

// reset drops the history so a reconnect starts from a clean slate.
func (b *Binding) reset() {
	b.matched = nil
	b.buttons = b.buttons[:0]
	b.axes = b.axes[:0]
	b.changed = b.changed[:0]
}
