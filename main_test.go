package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/XRControllerView/internal/config"
	"github.com/soar/XRControllerView/internal/controls"
	"github.com/soar/XRControllerView/internal/scene"
)

func TestViewerURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080", viewerURL(":8080"))
	assert.Equal(t, "http://localhost:9000", viewerURL("0.0.0.0:9000"))
	assert.Equal(t, "http://192.168.1.4:8080", viewerURL("192.168.1.4:8080"))
	assert.Equal(t, "http://[::1]:8080", viewerURL("[::1]:8080"))
}

func TestAddComponents(t *testing.T) {
	cfg := &config.Config{Hands: []string{"left", "right"}, Space: "grip", UserHeight: 1.7, HandTracking: true}
	sc := scene.New()
	reg := controls.DefaultRegistry()
	sys := controls.NewSystem(sc, controls.SystemConfig{Enumerator: controls.Multi{}})

	require.NoError(t, addComponents(context.Background(), cfg, sc, reg, sys, nil))
	names := []string{}
	for _, c := range sys.Components() {
		names = append(names, c.State().Entity+"/"+c.Name())
	}
	assert.Equal(t, []string{
		"leftHand/laser-controls",
		"leftHandTracking/hand-tracking-controls",
		"rightHand/laser-controls",
		"rightHandTracking/hand-tracking-controls",
	}, names)

	cfg.Profiles = []string{"no-such-device"}
	assert.Error(t, addComponents(context.Background(), cfg, scene.New(), reg, sys, nil))
}
