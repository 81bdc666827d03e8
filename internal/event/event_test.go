package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventNames(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{Connection{Connected: true}, "controllerconnected"},
		{Connection{}, "controllerdisconnected"},
		{Button{Phase: PhaseDown}, "buttondown"},
		{Button{Phase: PhaseTouchEnd}, "touchend"},
		{Button{Phase: PhaseChanged}, "buttonchanged"},
		{Axis{}, "axismove"},
		{Semantic{Button: "trigger", Phase: PhaseDown}, "triggerdown"},
		{Semantic{Button: "abutton", Phase: PhaseTouchStart}, "abuttontouchstart"},
		{Moved{Axis: "thumbstick"}, "thumbstickmoved"},
		{Pinch{Phase: PinchStart}, "pinchstarted"},
		{Pinch{Phase: PinchMove}, "pinchmoved"},
		{Pinch{Phase: PinchEnd}, "pinchended"},
		{HandGesture{Gesture: "fist", Started: true}, "gripclose"},
		{HandGesture{Gesture: "point"}, "pointingend"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ev.Name())
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "axismove", AxisMove.String())
	assert.Equal(t, "unknown", Kind(-1).String())
	assert.Equal(t, "unknown", kindCount.String())
	assert.False(t, HasGestureEvent("hold"))
	assert.True(t, HasGestureEvent("thumbUp"))
}
