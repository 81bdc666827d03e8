// Package tray shows the tray icon with the viewer link, per-hand controller
// status and an exit item.
package tray

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/systray"

	"github.com/soar/XRControllerView/internal/controls"
)

const statusInterval = time.Second

// ShutdownFunc is called when "Exit" is clicked
type ShutdownFunc func()

// StateSource supplies the component states shown in the status line.
type StateSource interface {
	CurrentState() []controls.ComponentState
}

// Tray manages the system tray icon and menu
type Tray struct {
	url          string
	states       StateSource
	logger       *slog.Logger
	shutdownFunc ShutdownFunc
	once         sync.Once
	shuttingDown atomic.Bool
	menuOpen     *systray.MenuItem
	menuStatus   *systray.MenuItem
	menuExit     *systray.MenuItem
}

// New creates a new Tray instance. states may be nil.
func New(url string, states StateSource, logger *slog.Logger, shutdownFn ShutdownFunc) *Tray {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tray{
		url:          url,
		states:       states,
		logger:       logger,
		shutdownFunc: shutdownFn,
	}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run(ctx context.Context, iconData []byte) {
	systray.Run(func() {
		t.onReady(ctx, iconData)
	}, func() {
		t.onExit()
	})
}

// Quit removes the tray icon.
func (t *Tray) Quit() {
	t.shuttingDown.Store(true)
	systray.Quit()
}

func (t *Tray) onReady(ctx context.Context, iconData []byte) {
	if iconData != nil {
		systray.SetIcon(iconData)
	}
	systray.SetTitle("XRControllerView")
	systray.SetTooltip("XRControllerView - " + t.url)

	t.menuOpen = systray.AddMenuItem("Open Viewer", "Open web interface")
	t.menuStatus = systray.AddMenuItem(StatusLine(nil), "Controller status")
	t.menuStatus.Disable()
	systray.AddSeparator()
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	// Handle menu clicks in separate goroutines to prevent blocking
	go t.handleMenuClicks()
	if t.states != nil {
		go t.watchStatus(ctx)
	}

	t.logger.Info("system tray initialized")
}

func (t *Tray) handleMenuClicks() {
	for {
		select {
		case <-t.menuOpen.ClickedCh:
			if !t.shuttingDown.Load() {
				t.openBrowser()
			}
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				t.once.Do(t.shutdownFunc)
				systray.Quit()
				return
			}
		}
	}
}

func (t *Tray) watchStatus(ctx context.Context) {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	last := ""
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if t.shuttingDown.Load() {
				return
			}
			if line := StatusLine(t.states.CurrentState()); line != last {
				t.menuStatus.SetTitle(line)
				last = line
			}
		}
	}
}

func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	t.logger.Info("system tray exiting")
}

func (t *Tray) openBrowser() {
	if t.shuttingDown.Load() {
		return
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", t.url)
	case "darwin":
		cmd = exec.Command("open", t.url)
	default:
		cmd = exec.Command("xdg-open", t.url)
	}

	if err := cmd.Start(); err != nil {
		t.logger.Warn("failed to open browser", "url", t.url, "error", err)
	}
}

// StatusLine summarizes which profile each hand is bound to, e.g.
// "left: oculus-touch, right: none".
func StatusLine(states []controls.ComponentState) string {
	bound := map[controls.Handedness]string{}
	var order []controls.Handedness
	for _, st := range states {
		if st.Hand == controls.HandUnknown {
			continue
		}
		if _, seen := bound[st.Hand]; !seen {
			order = append(order, st.Hand)
			bound[st.Hand] = ""
		}
		if st.Present && bound[st.Hand] == "" {
			bound[st.Hand] = st.Profile
		}
	}
	if len(order) == 0 {
		return "No controllers"
	}

	parts := make([]string, 0, len(order))
	for _, h := range order {
		p := bound[h]
		if p == "" {
			p = "none"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", h, p))
	}
	return strings.Join(parts, ", ")
}
