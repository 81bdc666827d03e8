package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/soar/XRControllerView/frontend"
	"github.com/soar/XRControllerView/internal/config"
	"github.com/soar/XRControllerView/internal/controls"
	"github.com/soar/XRControllerView/internal/hub"
	xlog "github.com/soar/XRControllerView/internal/log"
	"github.com/soar/XRControllerView/internal/platform/feed"
	"github.com/soar/XRControllerView/internal/platform/joystick/sdlreader"
	"github.com/soar/XRControllerView/internal/scene"
	"github.com/soar/XRControllerView/internal/server"
	"github.com/soar/XRControllerView/internal/tray"
)

// On Windows os.Interrupt is Ctrl+C; on Unix it is SIGINT.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, closers, err := xlog.SetupLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()
	if cfg.File != "" {
		logger.Info("config loaded", "file", cfg.File)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("XRControllerView failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)

	// Sources
	var (
		enums     controls.Multi
		hinters   []controls.Hinter
		session   controls.SessionSource
		head      controls.HeadSource
		feedSrc   *feed.Source
		reader    *sdlreader.Reader
		readerErr chan error
	)
	if cfg.Uses(config.SourceFeed) {
		feedSrc = feed.NewSource(logger.With("source", "feed"))
		enums = append(enums, feedSrc)
		hinters = append(hinters, feedSrc)
		session, head = feedSrc, feedSrc
	}
	if cfg.Uses(config.SourceSDL) {
		reader = sdlreader.NewReader(logger.With("source", "sdl"))
		enums = append(enums, reader)
		hinters = append(hinters, reader)
	}

	// Scene and controls
	sc := scene.New()
	sc.SetCamera(sc.CreateEntity("camera"))

	registry := controls.DefaultRegistry()
	sys := controls.NewSystem(sc, controls.SystemConfig{
		Enumerator: enums,
		Session:    session,
		Head:       head,
		Logger:     logger,
	})
	if err := addComponents(ctx, cfg, sc, registry, sys, logger); err != nil {
		return err
	}
	for _, h := range hinters {
		sys.WatchHints(ctx, h)
	}

	// Viewers
	h := hub.NewHub(logger.With("component", "hub"))
	go h.Run(ctx)
	broadcaster := hub.NewBroadcaster(h, sys.Changes(), sys)
	go broadcaster.Run(ctx)

	srvCfg := server.Config{
		Addr:        cfg.Addr,
		Hub:         h,
		Broadcaster: broadcaster,
		Frontend:    frontend.FS(),
		Minify:      cfg.Minify,
		Logger:      logger,
	}
	if feedSrc != nil {
		srvCfg.Feed = feedSrc
	}
	srv := server.New(srvCfg)
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	// SDL needs its own locked thread; Run returns when ctx is done.
	if reader != nil {
		readerErr = make(chan error, 1)
		go func() {
			readerErr <- reader.Run(ctx)
			close(readerErr)
		}()
	}

	sysDone := make(chan struct{})
	go func() {
		sys.Run(ctx, cfg.Interval())
		close(sysDone)
	}()

	url := viewerURL(cfg.Addr)
	logger.Info("XRControllerView started", "url", url, "tick_rate", cfg.TickRate, "sources", cfg.Sources)

	shutdownRequested := make(chan struct{})
	var t *tray.Tray
	if cfg.Tray && runtime.GOOS == "windows" {
		t = tray.New(url, sys, logger, func() { close(shutdownRequested) })
		go t.Run(ctx, tray.Icon())
	} else {
		logger.Info("press Ctrl+C to exit")
	}

	var runErr error
	for done := false; !done; {
		select {
		case <-sigCh:
			logger.Info("shutting down")
			done = true
		case <-shutdownRequested:
			logger.Info("shutdown requested from tray")
			done = true
		case err := <-serverErrCh:
			runErr = errors.Wrap(err, "http server")
			done = true
		case err := <-readerErr:
			// Native joysticks are optional; keep serving the feed.
			logger.Warn("joystick source disabled", "error", err)
			readerErr = nil
		}
	}
	cancel()
	sys.Pause()
	<-sysDone
	if readerErr != nil {
		<-readerErr
	}
	if t != nil {
		t.Quit()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", "error", err)
	}

	logger.Info("XRControllerView stopped")
	return runErr
}

// addComponents gives every configured hand a laser-controls entity and,
// with hand tracking on, a hand-tracking entity.
func addComponents(ctx context.Context, cfg *config.Config, sc *scene.Scene, reg *controls.Registry, sys *controls.System, logger *slog.Logger) error {
	for _, hand := range cfg.Handedness() {
		e := sc.CreateEntity(string(hand) + "Hand")
		laser, err := controls.NewAutoDetect(e, reg, cfg.Profiles, controls.DeviceConfig{
			Hand:       hand,
			Space:      cfg.PoseSpace(),
			UserHeight: cfg.UserHeight,
			Model:      cfg.Model,
			Gestures:   true,
			Loader:     controls.ProfileLoader(reg),
			Logger:     logger,
			Ctx:        ctx,
		})
		if err != nil {
			return errors.Wrapf(err, "%s hand", hand)
		}
		sys.Add(laser)

		if !cfg.HandTracking {
			continue
		}
		he := sc.CreateEntity(string(hand) + "HandTracking")
		ht, err := controls.NewHandTrackingControls(he, controls.HandTrackingConfig{
			Hand:   hand,
			Space:  cfg.PoseSpace(),
			Logger: logger,
		})
		if err != nil {
			return errors.Wrapf(err, "%s hand tracking", hand)
		}
		sys.Add(ht)
	}
	return nil
}

// viewerURL turns a listen address into a browsable URL.
func viewerURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
