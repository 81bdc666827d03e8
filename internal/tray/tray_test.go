package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soar/XRControllerView/internal/controls"
)

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name   string
		states []controls.ComponentState
		want   string
	}{
		{"empty", nil, "No controllers"},
		{
			"one bound",
			[]controls.ComponentState{
				{Hand: controls.HandLeft, Profile: "oculus-touch", Present: true},
				{Hand: controls.HandRight, Profile: "vive"},
			},
			"left: oculus-touch, right: none",
		},
		{
			"hand tracking after laser",
			[]controls.ComponentState{
				{Hand: controls.HandRight, Profile: "oculus-touch"},
				{Hand: controls.HandRight, Profile: "generic-hand", Present: true},
			},
			"right: generic-hand",
		},
		{
			"unhanded skipped",
			[]controls.ComponentState{{Profile: "generic", Present: true}},
			"No controllers",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusLine(tt.states))
		})
	}
}

func TestIcon(t *testing.T) {
	assert.NotEmpty(t, Icon())
}
