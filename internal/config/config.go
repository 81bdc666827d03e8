// Package config loads XRControllerView settings from flags, XRCV_*
// environment variables and an optional xrcontrolview.{yaml,toml,json}
// file, in that order of precedence.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/soar/XRControllerView/internal/controls"
)

const (
	AppName   = "xrcontrolview"
	envPrefix = "XRCV"
)

// Source names accepted in Sources.
const (
	SourceFeed = "feed"
	SourceSDL  = "sdl"
)

var ErrInvalid = errors.New("invalid configuration")

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type Config struct {
	Addr    string   `mapstructure:"addr"`
	Sources []string `mapstructure:"sources"`
	// TickRate is in ticks per second.
	TickRate     float64   `mapstructure:"tick_rate"`
	Log          LogConfig `mapstructure:"log"`
	UserHeight   float64   `mapstructure:"user_height"`
	Hands        []string  `mapstructure:"hands"`
	Space        string    `mapstructure:"space"`
	Profiles     []string  `mapstructure:"profiles"`
	Tray         bool      `mapstructure:"tray"`
	HandTracking bool      `mapstructure:"hand_tracking"`
	Model        bool      `mapstructure:"model"`
	Minify       bool      `mapstructure:"minify"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("sources", []string{SourceFeed, SourceSDL})
	v.SetDefault("tick_rate", 90.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("user_height", controls.DefaultUserHeight)
	v.SetDefault("hands", []string{string(controls.HandLeft), string(controls.HandRight)})
	v.SetDefault("space", "targetray")
	v.SetDefault("profiles", []string{})
	v.SetDefault("tray", true)
	v.SetDefault("hand_tracking", true)
	v.SetDefault("model", true)
	v.SetDefault("minify", true)
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "config file (default ./xrcontrolview.yaml or the user config dir)")
	fs.StringP("addr", "a", ":8080", "HTTP listen address")
	fs.StringSlice("sources", []string{SourceFeed, SourceSDL}, "controller sources: feed, sdl")
	fs.Float64("tick-rate", 90, "ticks per second")
	fs.String("log-level", "info", "log level: trace, debug, info, warn, error")
	fs.String("log-file", "", "also write logs to this file")
	fs.Float64("user-height", controls.DefaultUserHeight, "viewer height in meters for the arm model")
	fs.StringSlice("hands", []string{"left", "right"}, "hands to track")
	fs.String("space", "targetray", "pose space: grip or targetray")
	fs.StringSlice("profiles", nil, "device profiles to detect, in order (default all)")
	fs.Bool("tray", true, "show the tray icon")
	fs.Bool("hand-tracking", true, "track articulated hands")
	fs.Bool("model", true, "load controller models for button highlights")
	fs.Bool("minify", true, "minify the served frontend")
	return fs
}

// Load parses args and merges env and the config file over the defaults.
func Load(args []string) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(err, "parse flags")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	binds := map[string]string{
		"addr":          "addr",
		"sources":       "sources",
		"tick_rate":     "tick-rate",
		"log.level":     "log-level",
		"log.file":      "log-file",
		"user_height":   "user-height",
		"hands":         "hands",
		"space":         "space",
		"profiles":      "profiles",
		"tray":          "tray",
		"hand_tracking": "hand-tracking",
		"model":         "model",
		"minify":        "minify",
	}
	for key, flag := range binds {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, errors.Wrapf(err, "bind flag %s", flag)
		}
	}

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(AppName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	c.File = v.ConfigFileUsed()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.TickRate <= 0 || c.TickRate > 1000 {
		return errors.Wrapf(ErrInvalid, "tick_rate %v out of range (0, 1000]", c.TickRate)
	}
	if c.UserHeight <= 0 {
		return errors.Wrapf(ErrInvalid, "user_height %v must be positive", c.UserHeight)
	}
	if len(c.Sources) == 0 {
		return errors.Wrap(ErrInvalid, "no sources")
	}
	for _, s := range c.Sources {
		if s != SourceFeed && s != SourceSDL {
			return errors.Wrapf(ErrInvalid, "unknown source %q", s)
		}
	}
	for _, h := range c.Hands {
		if h != string(controls.HandLeft) && h != string(controls.HandRight) {
			return errors.Wrapf(ErrInvalid, "unknown hand %q", h)
		}
	}
	if _, ok := spaces[strings.ToLower(c.Space)]; !ok {
		return errors.Wrapf(ErrInvalid, "unknown space %q", c.Space)
	}
	return nil
}

var spaces = map[string]controls.Space{
	"grip":      controls.SpaceGrip,
	"targetray": controls.SpaceTargetRay,
}

// Interval is the tick period.
func (c *Config) Interval() time.Duration {
	return time.Duration(float64(time.Second) / c.TickRate)
}

// PoseSpace maps Space to the controls pose space.
func (c *Config) PoseSpace() controls.Space {
	return spaces[strings.ToLower(c.Space)]
}

// Handedness returns the configured hands without duplicates.
func (c *Config) Handedness() []controls.Handedness {
	var out []controls.Handedness
	for _, h := range c.Hands {
		if hh := controls.Handedness(h); !slices.Contains(out, hh) {
			out = append(out, hh)
		}
	}
	return out
}

// Uses reports whether source is enabled.
func (c *Config) Uses(source string) bool {
	return slices.Contains(c.Sources, source)
}
