// Package config turns viper settings into a validated runtime config.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/sw33tLie/livewatch/pkg/extract"
	"github.com/sw33tLie/livewatch/pkg/monitor"
	"github.com/sw33tLie/livewatch/pkg/render"
)

// Viper keys.
const (
	KeyMode      = "browser.mode"
	KeyHeadless  = "browser.headless"
	KeyWait      = "browser.wait"
	KeyTimeout   = "browser.timeout"
	KeyImages    = "browser.images"
	KeyChrome    = "browser.chrome"
	KeyProfile   = "browser.profile"
	KeyThreshold = "upcoming.threshold"
	KeyInterval  = "watch.interval"
	KeyChannels  = "watch.channels"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Browser   render.Config
	Threshold int
	Interval  time.Duration
	Channels  []string
}

// SetDefaults registers default values for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyMode, string(render.DefaultMode()))
	v.SetDefault(KeyHeadless, true)
	v.SetDefault(KeyWait, render.DefaultWait)
	v.SetDefault(KeyTimeout, render.DefaultNavigateTimeout)
	v.SetDefault(KeyImages, false)
	v.SetDefault(KeyChrome, "")
	v.SetDefault(KeyProfile, "")
	v.SetDefault(KeyThreshold, extract.DefaultThreshold)
	v.SetDefault(KeyInterval, monitor.DefaultInterval)
	v.SetDefault(KeyChannels, []string{})
}

// Load reads and validates the configuration. An unsupported browser mode
// is reported here, before any browser is started.
func Load(v *viper.Viper) (Config, error) {
	mode, err := render.ParseMode(v.GetString(KeyMode))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalid, KeyMode, err)
	}

	cfg := Config{
		Browser: render.Config{
			Mode:            mode,
			ExecPath:        v.GetString(KeyChrome),
			Headless:        v.GetBool(KeyHeadless),
			LoadImages:      v.GetBool(KeyImages),
			Wait:            v.GetDuration(KeyWait),
			NavigateTimeout: v.GetDuration(KeyTimeout),
			UserDataDir:     v.GetString(KeyProfile),
		},
		Threshold: v.GetInt(KeyThreshold),
		Interval:  v.GetDuration(KeyInterval),
	}

	if cfg.Browser.Wait < 0 {
		return Config{}, fmt.Errorf("%w: %s must not be negative", ErrInvalid, KeyWait)
	}
	if cfg.Browser.NavigateTimeout < 0 {
		return Config{}, fmt.Errorf("%w: %s must not be negative", ErrInvalid, KeyTimeout)
	}
	if cfg.Threshold < 0 {
		return Config{}, fmt.Errorf("%w: %s must not be negative", ErrInvalid, KeyThreshold)
	}
	if cfg.Interval <= 0 {
		return Config{}, fmt.Errorf("%w: %s must be positive", ErrInvalid, KeyInterval)
	}

	for _, raw := range v.GetStringSlice(KeyChannels) {
		ch, err := monitor.ValidateChannelURL(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalid, KeyChannels, err)
		}
		cfg.Channels = append(cfg.Channels, ch)
	}

	return cfg, nil
}
