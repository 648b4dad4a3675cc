// Package render drives a headless Chrome session that loads channel pages
// and hands back the markup of a single panel once client-side scripts
// have populated it.
package render

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sw33tLie/livewatch/pkg/extract"
)

var (
	// ErrUnsupportedMode is returned for a recognized mode that has no
	// browser startup implemented.
	ErrUnsupportedMode = errors.New("unsupported browser mode")
	// ErrUnknownMode is returned for a mode string that is not recognized.
	ErrUnknownMode = errors.New("unknown browser mode")
	// ErrRender wraps failures to start the browser or to load a page.
	ErrRender = errors.New("render failed")
	// ErrClosed is returned by Render after the session was closed.
	ErrClosed = errors.New("render session closed")
)

// Renderer loads url and returns the inner markup of the first element
// matching the XPath locator. A locator with no match yields
// extract.Absent and a nil error.
type Renderer interface {
	Render(ctx context.Context, url, locator string) (extract.Fragment, error)
}

// Mode selects how the browser executable is located.
type Mode string

const (
	ModeWindows Mode = "win"
	ModeLinux   Mode = "linux"
	ModeMac     Mode = "mac"
)

// ParseMode validates a mode string. ModeMac is recognized but
// unimplemented and fails here, before anything is started.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeWindows, ModeLinux:
		return m, nil
	case ModeMac:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMode, m)
	default:
		return "", fmt.Errorf("%w: %q (available: win, linux, mac)", ErrUnknownMode, s)
	}
}

// DefaultMode returns the mode matching the running OS.
func DefaultMode() Mode {
	switch runtime.GOOS {
	case "windows":
		return ModeWindows
	case "darwin":
		return ModeMac
	default:
		return ModeLinux
	}
}

const (
	DefaultWait            = 3 * time.Second
	DefaultNavigateTimeout = 60 * time.Second
)

// Config controls how a Session starts Chrome.
type Config struct {
	Mode Mode
	// ExecPath overrides the browser executable lookup.
	ExecPath string
	Headless bool
	// LoadImages enables image loading. Pages render faster without it.
	LoadImages bool
	// Wait is how long to let client-side scripts populate the page
	// after navigation before reading the DOM.
	Wait time.Duration
	// NavigateTimeout bounds a single Render call. Zero disables it.
	NavigateTimeout time.Duration
	// UserDataDir is an optional Chrome profile directory. It is locked
	// for the lifetime of the session.
	UserDataDir string
	Log         Logger
}

// DefaultConfig returns a headless, image-less configuration for the
// current OS.
func DefaultConfig() Config {
	return Config{
		Mode:            DefaultMode(),
		Headless:        true,
		Wait:            DefaultWait,
		NavigateTimeout: DefaultNavigateTimeout,
	}
}

// Logger is the subset of logrus used by the session.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
