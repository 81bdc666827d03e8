// Command xrfeed replays a JSON-lines recording of feed frames into a
// running XRControllerView's /feed endpoint.
//
// Each line is a feed frame with an optional "t" field, the frame's offset
// from the start of the recording in milliseconds. Lines without "t" are
// spaced by --rate.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/lxzan/gws"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	xlog "github.com/soar/XRControllerView/internal/log"
)

type options struct {
	URL      string
	Rate     float64
	Speed    float64
	Loop     bool
	LogLevel string
}

func loadOptions(args []string) (options, []string, error) {
	fs := pflag.NewFlagSet("xrfeed", pflag.ContinueOnError)
	fs.StringP("url", "u", "ws://localhost:8080/feed", "feed endpoint")
	fs.Float64P("rate", "r", 72, "frames per second for lines without a timestamp")
	fs.Float64P("speed", "s", 1, "playback speed multiplier")
	fs.BoolP("loop", "l", false, "restart the recording when it ends")
	fs.String("log-level", "info", "log level")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: xrfeed [flags] recording.jsonl")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("XRFEED")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return options{}, nil, errors.Wrap(err, "bind flags")
	}

	o := options{
		URL:      v.GetString("url"),
		Rate:     v.GetFloat64("rate"),
		Speed:    v.GetFloat64("speed"),
		Loop:     v.GetBool("loop"),
		LogLevel: v.GetString("log-level"),
	}
	if o.Rate <= 0 || o.Speed <= 0 {
		return options{}, nil, errors.New("rate and speed must be positive")
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, nil, errors.New("want exactly one recording")
	}
	return o, fs.Args(), nil
}

func main() {
	o, args, err := loadOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, _, err := xlog.SetupLogger(o.LogLevel, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	f, err := os.Open(args[0])
	if err != nil {
		logger.Error("open recording", "error", err)
		os.Exit(1)
	}
	rec, err := readRecording(f, o.Rate)
	f.Close()
	if err != nil {
		logger.Error("read recording", "file", args[0], "error", err)
		os.Exit(1)
	}
	logger.Info("recording loaded", "file", args[0], "frames", len(rec), "duration", rec.duration())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, o, rec, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("replay failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, rec recording, logger *slog.Logger) error {
	h := &handler{logger: logger, closed: make(chan error, 1)}
	conn, _, err := gws.NewClient(h, &gws.ClientOption{Addr: o.URL})
	if err != nil {
		return errors.Wrapf(err, "dial %s", o.URL)
	}
	go conn.ReadLoop()
	defer conn.WriteClose(1000, nil)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case err := <-h.closed:
			logger.Warn("feed connection closed", "error", err)
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		start := time.Now()
		if err := replay(ctx, conn, rec, o.Speed); err != nil {
			return err
		}
		logger.Info("recording finished", "elapsed", time.Since(start).Round(time.Millisecond))
		if !o.Loop {
			return nil
		}
	}
}

// handler drains server messages; the feed endpoint never replies, so only
// the close matters.
type handler struct {
	gws.BuiltinEventHandler
	logger *slog.Logger
	closed chan error
}

func (h *handler) OnOpen(c *gws.Conn) {
	h.logger.Info("connected", "remote", c.RemoteAddr())
}

func (h *handler) OnClose(_ *gws.Conn, err error) {
	select {
	case h.closed <- err:
	default:
	}
}

func (h *handler) OnMessage(_ *gws.Conn, m *gws.Message) {
	defer m.Close()
	h.logger.Debug("server message", "data", m.Data.String())
}
