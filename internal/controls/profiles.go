package controls

import "github.com/soar/XRControllerView/internal/xrmath"

const genericProfile = "generic"

// Raw button order produced by the native gamepad reader for every
// non-XR pad, after remapping through its per-vendor tables.
var gamepadButtons = []string{
	"a", "b", "x", "y",
	"lb", "rb",
	"select", "start",
	"l3", "r3",
	"home",
	"lt", "rt",
	"dpadup", "dpaddown", "dpadleft", "dpadright",
}

func same(m SemanticMapping) map[Handedness]SemanticMapping {
	return map[Handedness]SemanticMapping{HandUnknown: m}
}

func perHand(left, right SemanticMapping) map[Handedness]SemanticMapping {
	return map[Handedness]SemanticMapping{HandLeft: left, HandRight: right, HandUnknown: right}
}

func axes(groups ...AxisGroup) []AxisGroup { return groups }

func group(name string, x, y int) AxisGroup { return AxisGroup{Name: name, Indices: [2]int{x, y}} }

// builtinProfiles is in detection order: a profile whose WebXR tag extends
// another's comes first.
func builtinProfiles() []*Profile {
	touchpad01 := axes(group("trackpad", 0, 1))

	return []*Profile{
		{
			Name:         "oculus-touch",
			Component:    "oculus-touch-controls",
			IDPrefix:     "Oculus Touch",
			WebXRProfile: "oculus-touch",
			Legacy: perHand(
				SemanticMapping{Axes: axes(group("thumbstick", 0, 1)), Buttons: []string{"thumbstick", "trigger", "grip", "xbutton", "ybutton", "surface"}},
				SemanticMapping{Axes: axes(group("thumbstick", 0, 1)), Buttons: []string{"thumbstick", "trigger", "grip", "abutton", "bbutton", "surface"}},
			),
			XR: perHand(
				SemanticMapping{Axes: axes(group("thumbstick", 2, 3)), Buttons: []string{"trigger", "grip", "none", "thumbstick", "xbutton", "ybutton", "surface"}},
				SemanticMapping{Axes: axes(group("thumbstick", 2, 3)), Buttons: []string{"trigger", "grip", "none", "thumbstick", "abutton", "bbutton", "surface"}},
			),
			OrientationOffset: xrmath.V3(43, 0, 0),
			ModelURL: map[Handedness]string{
				HandLeft:  "models/oculus-touch/left.glb",
				HandRight: "models/oculus-touch/right.glb",
			},
			ButtonMeshes: map[string]string{
				"trigger": "trigger", "grip": "grip", "thumbstick": "stick",
				"abutton": "button_a", "bbutton": "button_b", "xbutton": "button_x", "ybutton": "button_y",
			},
			Ray: Ray{Origin: xrmath.V3(0, 0, 0), Direction: xrmath.V3(0, -0.5, -1)},
		},
		{
			Name:         "oculus-go",
			Component:    "oculus-go-controls",
			IDPrefix:     "Oculus Go",
			WebXRProfile: "oculus-go",
			Legacy:       same(SemanticMapping{Axes: axes(group("touchpad", 0, 1)), Buttons: []string{"trackpad", "trigger"}}),
			XR:           same(SemanticMapping{Axes: axes(group("touchpad", 0, 1)), Buttons: []string{"trigger", "none", "touchpad"}}),
			ArmModel:     true,
			ModelURL:     map[Handedness]string{HandUnknown: "models/oculus-go/controller.glb"},
			ButtonMeshes: map[string]string{"trigger": "trigger", "trackpad": "touchpad", "touchpad": "touchpad"},
			Ray:          Ray{Origin: xrmath.V3(0, 0.0005, 0), Direction: xrmath.V3(0, 0, -1)},
		},
		{
			Name:         "vive-focus",
			Component:    "vive-focus-controls",
			IDPrefix:     "HTC Vive Focus",
			WebXRProfile: "htc-vive-focus",
			Legacy:       same(SemanticMapping{Axes: touchpad01, Buttons: []string{"trackpad", "trigger"}}),
			XR:           same(SemanticMapping{Axes: axes(group("touchpad", 0, 1)), Buttons: []string{"trigger", "none", "touchpad", "none"}}),
			ArmModel:     true,
			ModelURL:     map[Handedness]string{HandUnknown: "models/vive-focus/controller.glb"},
			ButtonMeshes: map[string]string{"trigger": "BumperKey", "trackpad": "TouchPad", "touchpad": "TouchPad"},
			Ray:          Ray{Origin: xrmath.V3(0, 0.0005, 0), Direction: xrmath.V3(0, 0, -1)},
		},
		{
			Name:         "vive",
			Component:    "vive-controls",
			IDPrefix:     "OpenVR Gamepad|OpenVR Controller",
			WebXRProfile: "htc-vive",
			Legacy:       same(SemanticMapping{Axes: touchpad01, Buttons: []string{"trackpad", "trigger", "grip", "menu", "system"}}),
			XR:           same(SemanticMapping{Axes: axes(group("touchpad", 0, 1)), Buttons: []string{"trigger", "grip", "touchpad", "none"}}),
			ModelURL:     map[Handedness]string{HandUnknown: "models/vive/controller.glb"},
			ButtonMeshes: map[string]string{
				"trigger": "trigger", "grip": "lgrip", "trackpad": "trackpad", "touchpad": "trackpad", "menu": "menubutton", "system": "sys_button",
			},
			Ray: Ray{Origin: xrmath.V3(0, 0, 0), Direction: xrmath.V3(0, 0, -1)},
		},
		{
			Name:         "valve-index",
			Component:    "valve-index-controls",
			IDPrefix:     "Valve Index|OpenVR Knuckles",
			WebXRProfile: "valve-index",
			Legacy: same(SemanticMapping{
				Axes:    axes(group("trackpad", 0, 1), group("thumbstick", 2, 3)),
				Buttons: []string{"trigger", "grip", "trackpad", "thumbstick", "abutton"},
			}),
			XR: same(SemanticMapping{
				Axes:    axes(group("trackpad", 0, 1), group("thumbstick", 2, 3)),
				Buttons: []string{"trigger", "grip", "trackpad", "thumbstick", "abutton"},
			}),
			OrientationOffset: xrmath.V3(5, 0, 0),
			ModelURL: map[Handedness]string{
				HandLeft:  "models/valve-index/left.glb",
				HandRight: "models/valve-index/right.glb",
			},
			ButtonMeshes: map[string]string{"trigger": "trigger", "grip": "grip", "trackpad": "touchpad", "thumbstick": "thumbstick", "abutton": "button_a"},
			Ray:          Ray{Origin: xrmath.V3(0, -0.05, 0), Direction: xrmath.V3(0, -0.7, -1)},
		},
		{
			Name:         "windows-motion",
			Component:    "windows-motion-controls",
			IDPrefix:     "Spatial Controller (Spatial Interaction Source)",
			WebXRProfile: "windows-mixed-reality",
			Legacy: same(SemanticMapping{
				Axes:    axes(group("thumbstick", 0, 1), group("trackpad", 2, 3)),
				Buttons: []string{"thumbstick", "trigger", "grip", "menu", "trackpad"},
			}),
			XR: same(SemanticMapping{
				Axes:    axes(group("touchpad", 0, 1), group("thumbstick", 2, 3)),
				Buttons: []string{"trigger", "squeeze", "touchpad", "thumbstick", "menu"},
			}),
			ModelURL: map[Handedness]string{
				HandLeft:  "models/windows-motion/left.glb",
				HandRight: "models/windows-motion/right.glb",
			},
			ButtonMeshes: map[string]string{
				"trigger": "SELECT", "grip": "GRASP", "squeeze": "GRASP", "menu": "MENU",
				"thumbstick": "THUMBSTICK_PRESS", "trackpad": "TOUCHPAD_PRESS", "touchpad": "TOUCHPAD_PRESS",
			},
			Ray: Ray{Origin: xrmath.V3(0, 0, 0), Direction: xrmath.V3(0, 0, -1)},
		},
		{
			Name:         "hp-mixed-reality",
			Component:    "hp-mixed-reality-controls",
			IDPrefix:     "HP Reverb G2",
			WebXRProfile: "hp-mixed-reality",
			Legacy: perHand(
				SemanticMapping{Axes: axes(group("thumbstick", 0, 1)), Buttons: []string{"trigger", "grip", "none", "thumbstick", "xbutton", "ybutton"}},
				SemanticMapping{Axes: axes(group("thumbstick", 0, 1)), Buttons: []string{"trigger", "grip", "none", "thumbstick", "abutton", "bbutton"}},
			),
			XR: perHand(
				SemanticMapping{Axes: axes(group("thumbstick", 2, 3)), Buttons: []string{"trigger", "grip", "none", "thumbstick", "xbutton", "ybutton"}},
				SemanticMapping{Axes: axes(group("thumbstick", 2, 3)), Buttons: []string{"trigger", "grip", "none", "thumbstick", "abutton", "bbutton"}},
			),
			ModelURL: map[Handedness]string{
				HandLeft:  "models/hp-mixed-reality/left.glb",
				HandRight: "models/hp-mixed-reality/right.glb",
			},
			ButtonMeshes: map[string]string{
				"trigger": "trigger", "grip": "squeeze", "thumbstick": "thumbstick",
				"abutton": "a_button", "bbutton": "b_button", "xbutton": "x_button", "ybutton": "y_button",
			},
			Ray: Ray{Origin: xrmath.V3(0, 0, 0), Direction: xrmath.V3(0, 0, -1)},
		},
		{
			Name:         "magicleap",
			Component:    "magicleap-controls",
			IDPrefix:     "Magic Leap",
			WebXRProfile: "magicleap-one",
			Legacy:       same(SemanticMapping{Axes: axes(group("touchpad", 0, 1)), Buttons: []string{"trigger", "grip", "touchpad", "menu"}}),
			XR:           same(SemanticMapping{Axes: axes(group("touchpad", 0, 1)), Buttons: []string{"trigger", "grip", "touchpad", "menu"}}),
			ModelURL:     map[Handedness]string{HandUnknown: "models/magicleap/controller.glb"},
			ButtonMeshes: map[string]string{"trigger": "Trigger", "grip": "Bumper", "touchpad": "Touchpad", "menu": "Home"},
			Ray:          Ray{Origin: xrmath.V3(0, 0, 0), Direction: xrmath.V3(0, 0, -1)},
		},
		{
			Name:         "pico",
			Component:    "pico-controls",
			IDPrefix:     "Pico",
			WebXRProfile: "pico-4",
			Legacy: perHand(
				SemanticMapping{Axes: axes(group("thumbstick", 0, 1)), Buttons: []string{"trigger", "grip", "none", "thumbstick", "xbutton", "ybutton"}},
				SemanticMapping{Axes: axes(group("thumbstick", 0, 1)), Buttons: []string{"trigger", "grip", "none", "thumbstick", "abutton", "bbutton"}},
			),
			XR: perHand(
				SemanticMapping{Axes: axes(group("thumbstick", 2, 3)), Buttons: []string{"trigger", "grip", "none", "thumbstick", "xbutton", "ybutton"}},
				SemanticMapping{Axes: axes(group("thumbstick", 2, 3)), Buttons: []string{"trigger", "grip", "none", "thumbstick", "abutton", "bbutton"}},
			),
			ModelURL: map[Handedness]string{
				HandLeft:  "models/pico/left.glb",
				HandRight: "models/pico/right.glb",
			},
			ButtonMeshes: map[string]string{
				"trigger": "trigger", "grip": "grip", "thumbstick": "thumbstick",
				"abutton": "a", "bbutton": "b", "xbutton": "x", "ybutton": "y",
			},
			Ray: Ray{Origin: xrmath.V3(0, 0, 0), Direction: xrmath.V3(0, -0.6, -1)},
		},
		{
			Name:         "daydream",
			Component:    "daydream-controls",
			IDPrefix:     "Daydream Controller",
			WebXRProfile: "google-daydream",
			Legacy:       same(SemanticMapping{Axes: touchpad01, Buttons: []string{"trackpad", "menu", "system"}}),
			XR:           same(SemanticMapping{Axes: touchpad01, Buttons: []string{"trackpad", "menu", "system"}}),
			ArmModel:     true,
			ModelURL:     map[Handedness]string{HandUnknown: "models/daydream/controller.obj"},
			ButtonMeshes: map[string]string{"trackpad": "TouchPad", "menu": "AppButton", "system": "HomeButton"},
			Ray:          Ray{Origin: xrmath.V3(0, 0, -0.01), Direction: xrmath.V3(0, 0, -1)},
		},
		{
			Name:         "gearvr",
			Component:    "gearvr-controls",
			IDPrefix:     "Gear VR",
			WebXRProfile: "samsung-gearvr",
			Legacy:       same(SemanticMapping{Axes: touchpad01, Buttons: []string{"trackpad", "trigger"}}),
			XR:           same(SemanticMapping{Axes: touchpad01, Buttons: []string{"trigger", "none", "trackpad"}}),
			ArmModel:     true,
			ModelURL:     map[Handedness]string{HandUnknown: "models/gearvr/controller.obj"},
			ButtonMeshes: map[string]string{"trigger": "Trigger", "trackpad": "TouchPad"},
			Ray:          Ray{Origin: xrmath.V3(0, 0.0005, 0), Direction: xrmath.V3(0, 0, -1)},
		},
		{
			Name:         genericProfile,
			Component:    "generic-tracked-controller-controls",
			IDPrefix:     "Xbox|PS4|PS5|DualSense|DualShock|Nintendo|Pro Controller|Generic|Gamepad",
			WebXRProfile: "generic-trigger",
			Legacy: same(SemanticMapping{
				Axes:    axes(group("leftstick", 0, 1), group("rightstick", 2, 3)),
				Buttons: gamepadButtons,
			}),
			XR: same(SemanticMapping{
				Axes:    axes(group("touchpad", 0, 1), group("thumbstick", 2, 3)),
				Buttons: []string{"trigger", "squeeze", "touchpad", "thumbstick"},
			}),
			ArmModel: true,
			ModelURL: map[Handedness]string{HandUnknown: "models/generic/controller.glb"},
			ButtonMeshes: map[string]string{
				"trigger": "trigger", "squeeze": "squeeze", "touchpad": "touchpad", "thumbstick": "thumbstick",
				"a": "button_a", "b": "button_b", "x": "button_x", "y": "button_y",
			},
			Ray: Ray{Origin: xrmath.V3(0, 0, 0), Direction: xrmath.V3(0, 0, -1)},
		},
	}
}
