// Package joystick maps native game controller input onto the canonical
// descriptor layout the generic device profile expects: the common face,
// shoulder and menu buttons, analog triggers as buttons, the hat as four
// d-pad buttons, and both sticks as four axes. Pads report no pose and no
// handedness.
package joystick

import (
	"math"
	"slices"
	"strings"

	"github.com/soar/XRControllerView/internal/controls"
)

// AxisMapping routes one raw axis to a canonical stick axis or to an
// analog trigger button.
type AxisMapping struct {
	Index   int
	Target  string
	Trigger bool
	Invert  bool
}

// DeviceMapping describes one pad family.
type DeviceMapping struct {
	Name string
	Axes []AxisMapping
	// Buttons names the canonical button for each raw button index. An
	// empty name leaves the raw button unmapped.
	Buttons []string
	HasHat  bool
}

// Canonical descriptor layout. Button order matches the generic device
// profile; triggers are analog buttons.
var (
	buttonOrder = []string{
		"a", "b", "x", "y",
		"lb", "rb",
		"select", "start",
		"l3", "r3",
		"home",
		"lt", "rt",
		"dpadup", "dpaddown", "dpadleft", "dpadright",
	}
	axisOrder = []string{"left_x", "left_y", "right_x", "right_y"}

	buttonSlot = slotIndex(buttonOrder)
	axisSlot   = slotIndex(axisOrder)
)

func slotIndex(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[n] = i
	}
	return m
}

const (
	deadzone       = 0.05
	triggerPressed = 0.5

	hatUp    uint8 = 0x01
	hatRight uint8 = 0x02
	hatDown  uint8 = 0x04
	hatLeft  uint8 = 0x08
)

// NormalizeAxis converts a raw axis value (-32768..32767) to -1.0..1.0.
func NormalizeAxis(raw int16) float64 {
	v := float64(raw) / math.MaxInt16
	if v < -1.0 {
		v = -1.0
	}
	return v
}

// NormalizeTrigger converts a raw trigger value to 0.0..1.0.
func NormalizeTrigger(raw int16, rawMin, rawMax int16) float64 {
	if rawMax == rawMin {
		return 0
	}
	v := (float64(raw) - float64(rawMin)) / (float64(rawMax) - float64(rawMin))
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

// ApplyDeadzone returns 0 if the value is within the deadzone threshold.
func ApplyDeadzone(v float64, threshold float64) float64 {
	if math.Abs(v) < threshold {
		return 0
	}
	return v
}

// RawState is one poll of a joystick, indexed by raw device indices.
type RawState struct {
	Axes    []int16
	Buttons []bool
	Hat     uint8
}

// Descriptor maps a raw poll onto the canonical layout.
func Descriptor(name string, index int, m *DeviceMapping, raw RawState) controls.ControllerDescriptor {
	d := controls.ControllerDescriptor{
		ID:      name,
		Index:   index,
		Buttons: make([]controls.ButtonState, len(buttonOrder)),
		Axes:    make([]float64, len(axisOrder)),
	}
	press := func(target string, v float64, pressed bool) {
		slot, ok := buttonSlot[target]
		if !ok {
			return
		}
		d.Buttons[slot] = controls.ButtonState{Pressed: pressed, Touched: pressed, Value: v}
	}

	for _, am := range m.Axes {
		if am.Index >= len(raw.Axes) {
			continue
		}
		r := raw.Axes[am.Index]
		if am.Trigger {
			v := ApplyDeadzone(NormalizeTrigger(r, math.MinInt16, math.MaxInt16), deadzone)
			press(am.Target, v, v >= triggerPressed)
			continue
		}
		v := NormalizeAxis(r)
		if am.Invert {
			v = -v
		}
		if slot, ok := axisSlot[am.Target]; ok {
			d.Axes[slot] = ApplyDeadzone(v, deadzone)
		}
	}

	for i, target := range m.Buttons {
		if i < len(raw.Buttons) && raw.Buttons[i] && target != "" {
			press(target, 1, true)
		}
	}

	if m.HasHat {
		hat := func(target string, bit uint8) {
			if raw.Hat&bit != 0 {
				press(target, 1, true)
			}
		}
		hat("dpadup", hatUp)
		hat("dpaddown", hatDown)
		hat("dpadleft", hatLeft)
		hat("dpadright", hatRight)
	}
	return d
}

// SDL reports both sticks on raw axes 0..3 with y growing downwards and
// analog triggers on 4 and 5 over the full int16 range.
var (
	sticks = []AxisMapping{
		{Index: 0, Target: "left_x"},
		{Index: 1, Target: "left_y", Invert: true},
		{Index: 2, Target: "right_x"},
		{Index: 3, Target: "right_y", Invert: true},
	}
	sticksAndTriggers = append(slices.Clone(sticks),
		AxisMapping{Index: 4, Target: "lt", Trigger: true},
		AxisMapping{Index: 5, Target: "rt", Trigger: true},
	)
)

var xboxMapping = &DeviceMapping{
	Name:    "xbox",
	Axes:    sticksAndTriggers,
	Buttons: []string{"a", "b", "x", "y", "lb", "rb", "select", "start", "l3", "r3", "home"},
	HasHat:  true,
}

// Cross, circle, square, triangle, create, PS, options, L3, R3, L1, R1.
var playstationMapping = &DeviceMapping{
	Name:    "playstation",
	Axes:    sticksAndTriggers,
	Buttons: []string{"a", "b", "x", "y", "select", "home", "start", "l3", "r3", "lb", "rb"},
	HasHat:  true,
}

// ZL and ZR are digital and arrive as buttons 11 and 12.
var switchProMapping = &DeviceMapping{
	Name:    "switch_pro",
	Axes:    sticks,
	Buttons: []string{"a", "b", "x", "y", "lb", "rb", "select", "start", "l3", "r3", "home", "lt", "rt"},
	HasHat:  true,
}

var genericMapping = &DeviceMapping{
	Name:    "generic",
	Axes:    sticksAndTriggers,
	Buttons: xboxMapping.Buttons,
	HasHat:  true,
}

const (
	vendorMicrosoft uint16 = 0x045E
	vendorSony      uint16 = 0x054C
	vendorNintendo  uint16 = 0x057E
)

var knownDevices = map[uint16]map[uint16]*DeviceMapping{
	vendorMicrosoft: {
		0x028E: xboxMapping, // 360
		0x02FF: xboxMapping, // One
		0x0B12: xboxMapping, // Series X|S
		0x0B13: xboxMapping, // Series X|S, Bluetooth
	},
	vendorSony: {
		0x0CE6: playstationMapping, // DualSense
		0x09CC: playstationMapping, // DualShock 4 v2
		0x05C4: playstationMapping, // DualShock 4
	},
	vendorNintendo: {
		0x2009: switchProMapping,
	},
}

// Name fragments for pads whose product id is not listed, e.g. third-party
// or new revisions.
var nameHints = []struct {
	fragment string
	mapping  *DeviceMapping
}{
	{"xbox", xboxMapping},
	{"dualsense", playstationMapping},
	{"dualshock", playstationMapping},
	{"pro controller", switchProMapping},
}

// GetMapping returns the mapping for a vendor/product pair, then for a
// device name, falling back to the generic layout.
func GetMapping(vendorID, productID uint16, name string) *DeviceMapping {
	if m, ok := knownDevices[vendorID][productID]; ok {
		return m
	}
	lower := strings.ToLower(name)
	for _, h := range nameHints {
		if strings.Contains(lower, h.fragment) {
			return h.mapping
		}
	}
	return genericMapping
}
