// Package monitor checks channels for live and scheduled broadcasts using
// an explicitly owned render session.
package monitor

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sw33tLie/livewatch/internal/utils"
	"github.com/sw33tLie/livewatch/pkg/extract"
	"github.com/sw33tLie/livewatch/pkg/render"
)

const (
	// LiveLocator matches the featured content panel of a channel page.
	LiveLocator = "//*[@id='contents' and @class='style-scope ytd-channel-featured-content-renderer']"
	// UpcomingLocator matches the video grid of the upcoming videos page.
	UpcomingLocator = "//*[@id='items' and @class='style-scope ytd-grid-renderer']"
	// UpcomingPath lists a channel's upcoming live streams. Channels with
	// none get their full upload grid instead.
	UpcomingPath = "/videos?view=2&sort=dd&live_view=502&shelf_id=3"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Monitor runs live and upcoming checks against one renderer.
type Monitor struct {
	renderer  render.Renderer
	threshold int
	log       Logger
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithThreshold sets the upcoming grid size above which a channel is
// treated as having nothing scheduled.
func WithThreshold(n int) Option {
	return func(m *Monitor) { m.threshold = n }
}

// WithLogger sets the logger. Nil means no logging.
func WithLogger(l Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.log = l
		}
	}
}

// New returns a Monitor that renders pages with r. The caller keeps
// ownership of r.
func New(r render.Renderer, opts ...Option) *Monitor {
	m := &Monitor{
		renderer:  r,
		threshold: extract.DefaultThreshold,
		log:       nopLogger{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// LiveCheck returns the broadcasts currently live on the channel. Render
// failures are logged and reported as no live broadcast.
func (m *Monitor) LiveCheck(ctx context.Context, channelURL string) []extract.LiveEntry {
	entries, _ := m.liveCheck(ctx, channelURL)
	return entries
}

// UpcomingCheck returns the channel's scheduled broadcasts. Render
// failures are logged and reported as nothing scheduled.
func (m *Monitor) UpcomingCheck(ctx context.Context, channelURL string) []extract.UpcomingEntry {
	entries, _ := m.upcomingCheck(ctx, channelURL)
	return entries
}

// liveCheck is LiveCheck that also reports a render failure. The entries
// are empty, never nil, when err is set.
func (m *Monitor) liveCheck(ctx context.Context, channelURL string) ([]extract.LiveEntry, error) {
	f, err := m.render(ctx, utils.TrimChannelURL(channelURL), LiveLocator)
	return extract.ExtractLive(f), err
}

func (m *Monitor) upcomingCheck(ctx context.Context, channelURL string) ([]extract.UpcomingEntry, error) {
	f, err := m.render(ctx, utils.TrimChannelURL(channelURL)+UpcomingPath, UpcomingLocator)
	return extract.ExtractUpcomingWithLog(f, m.threshold, m.log), err
}

func (m *Monitor) render(ctx context.Context, pageURL, locator string) (extract.Fragment, error) {
	f, err := m.renderer.Render(ctx, pageURL, locator)
	if err != nil {
		m.log.Warnf("Could not render %s: %v", pageURL, err)
		return extract.Absent, err
	}
	return f, nil
}

// ValidateChannelURL checks that raw is an absolute http(s) URL and
// returns it without trailing slashes.
func ValidateChannelURL(raw string) (string, error) {
	trimmed := utils.TrimChannelURL(raw)
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid channel URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid channel URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid channel URL %q: missing host", raw)
	}
	return trimmed, nil
}

// AbsoluteLink resolves a link taken from a channel page against the
// channel's origin. Links that do not parse are returned unchanged.
func AbsoluteLink(channelURL, link string) string {
	base, err := url.Parse(channelURL)
	if err != nil {
		return link
	}
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	return base.ResolveReference(ref).String()
}
