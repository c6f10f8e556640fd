// Package config loads tour engine options from files, environment and maps.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/tourguide/internal/logging"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/aretw0/tourguide/pkg/mask"
	"github.com/aretw0/tourguide/pkg/overlay"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. TOURGUIDE_VERTICALOFFSET.
const EnvPrefix = "TOURGUIDE"

// StartAtMount is the tour key started on first registration, or "" for none.
// Config sources may also give it as a bool, where true means the default tour.
type StartAtMount string

// Config holds the provider options of the tour engine.
type Config struct {
	MaskOffset                float64              `mapstructure:"maskOffset" yaml:"maskOffset"`
	BorderRadius              float64              `mapstructure:"borderRadius" yaml:"borderRadius"`
	BorderRadiusObject        *domain.BorderRadius `mapstructure:"borderRadiusObject" yaml:"borderRadiusObject"`
	AnimationDuration         time.Duration        `mapstructure:"animationDuration" yaml:"animationDuration"`
	DismissOnPress            bool                 `mapstructure:"dismissOnPress" yaml:"dismissOnPress"`
	PreventOutsideInteraction bool                 `mapstructure:"preventOutsideInteraction" yaml:"preventOutsideInteraction"`
	VerticalOffset            float64              `mapstructure:"verticalOffset" yaml:"verticalOffset"`
	ScrollViewTopReserved     float64              `mapstructure:"scrollViewTopReserved" yaml:"scrollViewTopReserved"`
	StartAtMount              StartAtMount         `mapstructure:"startAtMount" yaml:"startAtMount"`
	BackdropColor             string               `mapstructure:"backdropColor" yaml:"backdropColor"`
	Labels                    domain.Labels        `mapstructure:"labels" yaml:"labels"`
	Log                       LogConfig            `mapstructure:"log" yaml:"log"`
}

// LogConfig selects the logger built by the CLI.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		AnimationDuration: 300 * time.Millisecond,
		BackdropColor:     "rgba(0, 0, 0, 0.4)",
		Labels:            domain.DefaultLabels(),
		Log:               LogConfig{Level: "info"},
	}
}

// Load reads path (any format viper understands; empty for none) and
// applies TOURGUIDE_* environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	v := viper.New()

	// Every key needs a default for AutomaticEnv to pick up its override.
	d := Default()
	v.SetDefault("maskOffset", d.MaskOffset)
	v.SetDefault("borderRadius", d.BorderRadius)
	v.SetDefault("animationDuration", d.AnimationDuration.String())
	v.SetDefault("dismissOnPress", d.DismissOnPress)
	v.SetDefault("preventOutsideInteraction", d.PreventOutsideInteraction)
	v.SetDefault("verticalOffset", d.VerticalOffset)
	v.SetDefault("scrollViewTopReserved", d.ScrollViewTopReserved)
	v.SetDefault("startAtMount", "")
	v.SetDefault("backdropColor", d.BackdropColor)
	v.SetDefault("labels.skip", d.Labels.Skip)
	v.SetDefault("labels.previous", d.Labels.Previous)
	v.SetDefault("labels.next", d.Labels.Next)
	v.SetDefault("labels.finish", d.Labels.Finish)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return Decode(v.AllSettings())
}

// Decode builds a Config from a loosely typed map, such as a parsed YAML
// document or provider props. Missing keys keep their defaults.
func Decode(input map[string]any) (Config, error) {
	c := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			startAtMountHook,
			durationHook,
		),
		WeaklyTypedInput: true,
		Result:           &c,
	})
	if err != nil {
		return Config{}, fmt.Errorf("config decoder: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.Labels = c.Labels.Merge(domain.DefaultLabels())
	return c, nil
}

var (
	startAtMountType = reflect.TypeOf(StartAtMount(""))
	durationType     = reflect.TypeOf(time.Duration(0))
)

// startAtMountHook maps true to the default tour key and false to none.
// The strings "true" and "false" are treated the same way.
func startAtMountHook(from, to reflect.Type, data any) (any, error) {
	if to != startAtMountType {
		return data, nil
	}
	switch v := data.(type) {
	case bool:
		return boolKey(v), nil
	case string:
		if v == "true" || v == "false" {
			return boolKey(v == "true"), nil
		}
		return StartAtMount(v), nil
	case nil:
		return StartAtMount(""), nil
	}
	return nil, fmt.Errorf("startAtMount: expected bool or tour key, got %T", data)
}

func boolKey(b bool) StartAtMount {
	if b {
		return StartAtMount(domain.DefaultTourKey)
	}
	return ""
}

// durationHook reads bare numbers as milliseconds and strings as either
// milliseconds or Go durations ("300ms", "1s").
func durationHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch v := data.(type) {
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	case float64:
		return time.Duration(v * float64(time.Millisecond)), nil
	case string:
		if ms, err := strconv.ParseFloat(v, 64); err == nil {
			return time.Duration(ms * float64(time.Millisecond)), nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("animationDuration: %w", err)
		}
		return d, nil
	}
	return data, nil
}

// TourKey returns the configured start-at-mount key.
func (s StartAtMount) TourKey() string {
	return string(s)
}

// OverlaySettings converts c into overlay coordinator settings.
func (c Config) OverlaySettings() overlay.Settings {
	s := overlay.DefaultSettings()
	s.VerticalOffset = c.VerticalOffset
	if c.AnimationDuration > 0 {
		s.AnimationDuration = c.AnimationDuration
	}
	s.Mask = mask.Options{
		DismissOnPress:            c.DismissOnPress,
		PreventOutsideInteraction: c.PreventOutsideInteraction,
	}
	s.Labels = c.Labels.Merge(domain.DefaultLabels())
	s.Appearance = domain.Appearance{
		MaskOffset:         c.MaskOffset,
		BorderRadius:       c.BorderRadius,
		BorderRadiusObject: c.BorderRadiusObject,
		BackdropColor:      c.BackdropColor,
	}
	return s
}

// Logger builds the logger described by c.Log.
func (c Config) Logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWriter(os.Stderr, level, c.Log.JSON), nil
}
