// Package sdlreader enumerates native game controllers through SDL3.
package sdlreader

import (
	"context"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/jupiterrider/purego-sdl3/sdl"
	"github.com/pkg/errors"

	"github.com/soar/XRControllerView/internal/controls"
	"github.com/soar/XRControllerView/internal/platform/joystick"
)

const pollDelayNS = 8_000_000 // ~120Hz, twice the default tick

// ErrInit is returned when the SDL joystick subsystem cannot start.
var ErrInit = errors.New("sdlreader: SDL init failed")

type joystickInfo struct {
	joystick *sdl.Joystick
	mapping  *joystick.DeviceMapping
	name     string
	id       sdl.JoystickID
}

// Reader polls SDL joysticks on a locked OS thread and publishes a
// descriptor snapshot after every poll.
type Reader struct {
	logger    *slog.Logger
	joysticks map[sdl.JoystickID]*joystickInfo
	order     []sdl.JoystickID
	hints     chan struct{}

	mu       sync.RWMutex
	snapshot []controls.ControllerDescriptor
}

func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		logger:    logger,
		joysticks: make(map[sdl.JoystickID]*joystickInfo),
		hints:     make(chan struct{}, 1),
	}
}

// Hints fires when a joystick is added or removed.
func (r *Reader) Hints() <-chan struct{} { return r.hints }

// Enumerate returns the last polled descriptors.
func (r *Reader) Enumerate() []controls.ControllerDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.snapshot)
}

// Run initializes SDL and polls until ctx is done. It locks its goroutine
// to the OS thread for its whole lifetime.
func (r *Reader) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !sdl.Init(sdl.InitJoystick) {
		return errors.Wrap(ErrInit, sdl.GetError())
	}
	defer sdl.Quit()

	r.logger.Info("SDL3 joystick subsystem initialized")

	// Check for already-connected joysticks
	for _, id := range sdl.GetJoysticks() {
		r.openJoystick(id)
	}

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		default:
		}

		r.processEvents()
		r.poll()
		sdl.DelayNS(pollDelayNS)
	}
}

func (r *Reader) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			r.openJoystick(event.JDevice().Which)
		case sdl.EventJoystickRemoved:
			r.removeJoystick(event.JDevice().Which)
		}
	}
}

func (r *Reader) openJoystick(instanceID sdl.JoystickID) {
	if _, exists := r.joysticks[instanceID]; exists {
		return
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		r.logger.Warn("open joystick failed", "id", instanceID, "error", sdl.GetError())
		return
	}

	jsID := sdl.GetJoystickID(js)
	vendorID := sdl.GetJoystickVendor(js)
	productID := sdl.GetJoystickProduct(js)
	name := sdl.GetJoystickName(js)
	mapping := joystick.GetMapping(vendorID, productID, name)

	r.joysticks[jsID] = &joystickInfo{
		joystick: js,
		mapping:  mapping,
		name:     name,
		id:       jsID,
	}
	r.order = append(r.order, jsID)

	r.logger.Info("joystick connected",
		"name", name,
		"vid", vendorID, "pid", productID,
		"mapping", mapping.Name,
		"axes", sdl.GetNumJoystickAxes(js),
		"buttons", sdl.GetNumJoystickButtons(js),
		"hats", sdl.GetNumJoystickHats(js))
	r.hint()
}

func (r *Reader) removeJoystick(instanceID sdl.JoystickID) {
	info, exists := r.joysticks[instanceID]
	if !exists {
		return
	}

	r.logger.Info("joystick disconnected", "name", info.name)
	sdl.CloseJoystick(info.joystick)
	delete(r.joysticks, instanceID)
	r.order = slices.DeleteFunc(r.order, func(id sdl.JoystickID) bool { return id == instanceID })
	r.hint()
}

func (r *Reader) closeAll() {
	for id, info := range r.joysticks {
		sdl.CloseJoystick(info.joystick)
		delete(r.joysticks, id)
	}
	r.order = nil
	r.publish(nil)
}

func (r *Reader) poll() {
	descs := make([]controls.ControllerDescriptor, 0, len(r.order))
	for i, id := range r.order {
		info := r.joysticks[id]
		if !sdl.JoystickConnected(info.joystick) {
			continue
		}
		descs = append(descs, joystick.Descriptor(info.name, i, info.mapping, read(info.joystick)))
	}
	r.publish(descs)
}

func (r *Reader) publish(descs []controls.ControllerDescriptor) {
	r.mu.Lock()
	r.snapshot = descs
	r.mu.Unlock()
}

func (r *Reader) hint() {
	select {
	case r.hints <- struct{}{}:
	default:
		// Drop if a hint is already pending to avoid blocking the SDL thread
	}
}

func read(js *sdl.Joystick) joystick.RawState {
	raw := joystick.RawState{
		Axes:    make([]int16, sdl.GetNumJoystickAxes(js)),
		Buttons: make([]bool, sdl.GetNumJoystickButtons(js)),
	}
	for i := range raw.Axes {
		raw.Axes[i] = sdl.GetJoystickAxis(js, int32(i))
	}
	for i := range raw.Buttons {
		raw.Buttons[i] = sdl.GetJoystickButton(js, int32(i))
	}
	if sdl.GetNumJoystickHats(js) > 0 {
		raw.Hat = sdl.GetJoystickHat(js, 0)
	}
	return raw
}
