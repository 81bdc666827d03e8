package joystick

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/XRControllerView/internal/controls"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, 1.0, NormalizeAxis(math.MaxInt16))
	assert.Equal(t, -1.0, NormalizeAxis(math.MinInt16))
	assert.Equal(t, 0.0, NormalizeAxis(0))

	assert.Equal(t, 0.0, NormalizeTrigger(-32768, -32768, 32767))
	assert.Equal(t, 1.0, NormalizeTrigger(32767, -32768, 32767))
	assert.InDelta(t, 0.5, NormalizeTrigger(16384, 0, 32767), 1e-3)
	assert.Equal(t, 0.0, NormalizeTrigger(5, 7, 7))

	assert.Equal(t, 0.0, ApplyDeadzone(0.04, deadzone))
	assert.Equal(t, -0.2, ApplyDeadzone(-0.2, deadzone))
}

func TestGetMapping(t *testing.T) {
	tests := []struct {
		vendor, product uint16
		name            string
		want            string
	}{
		{0x045E, 0x0B12, "", "xbox"},
		{0x054C, 0x0CE6, "", "playstation"},
		{0x057E, 0x2009, "", "switch_pro"},
		{0x1234, 0x5678, "PowerA Xbox Series Controller", "xbox"},
		{0x1234, 0x5678, "DualShock 4 clone", "playstation"},
		{0x045E, 0x9999, "Mystery Pad", "generic"},
		{0x1234, 0x5678, "", "generic"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetMapping(tt.vendor, tt.product, tt.name).Name, "%04x:%04x %q", tt.vendor, tt.product, tt.name)
	}
}

func TestDescriptorCanonicalLayout(t *testing.T) {
	raw := RawState{
		Axes:    []int16{math.MaxInt16, math.MaxInt16, 0, 100, 32767, -32768},
		Buttons: make([]bool, 11),
		Hat:     hatUp | hatLeft,
	}
	raw.Buttons[9] = true // L1 on a DualSense

	d := Descriptor("DualSense Wireless Controller", 2, playstationMapping, raw)
	assert.Equal(t, "DualSense Wireless Controller", d.ID)
	assert.Equal(t, 2, d.Index)
	assert.Equal(t, controls.HandUnknown, d.Handedness)
	assert.True(t, d.Pose.Empty())

	require.Len(t, d.Buttons, len(buttonOrder))
	require.Len(t, d.Axes, len(axisOrder))

	assert.True(t, d.Buttons[buttonSlot["lb"]].Pressed)
	assert.False(t, d.Buttons[buttonSlot["a"]].Pressed)
	assert.Equal(t, controls.ButtonState{Pressed: true, Touched: true, Value: 1}, d.Buttons[buttonSlot["lt"]])
	assert.Equal(t, controls.ButtonState{}, d.Buttons[buttonSlot["rt"]])
	assert.True(t, d.Buttons[buttonSlot["dpadup"]].Pressed)
	assert.True(t, d.Buttons[buttonSlot["dpadleft"]].Pressed)
	assert.False(t, d.Buttons[buttonSlot["dpaddown"]].Pressed)

	assert.Equal(t, 1.0, d.Axes[axisSlot["left_x"]])
	assert.Equal(t, -1.0, d.Axes[axisSlot["left_y"]], "y is inverted")
	assert.Equal(t, 0.0, d.Axes[axisSlot["right_y"]], "inside the deadzone")
}

func TestDescriptorMatchesGenericProfile(t *testing.T) {
	p, err := controls.DefaultRegistry().Get("generic")
	require.NoError(t, err)
	m := p.Mapping(controls.HandUnknown, false)
	for i, name := range buttonOrder {
		assert.Equal(t, name, m.ButtonName(i))
	}

	d := Descriptor("Xbox Series X Controller", 0, xboxMapping, RawState{})
	got, ok := controls.DefaultRegistry().Detect(d)
	require.True(t, ok)
	assert.Equal(t, "generic", got.Name)
}

func TestDescriptorShortDevice(t *testing.T) {
	d := Descriptor("Tiny Pad", 0, genericMapping, RawState{Axes: []int16{0}, Buttons: []bool{true}})
	assert.True(t, d.Buttons[buttonSlot["a"]].Pressed)
	assert.Len(t, d.Axes, len(axisOrder))
}
