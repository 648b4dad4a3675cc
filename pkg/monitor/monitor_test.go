package monitor

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/sw33tLie/livewatch/pkg/extract"
	"github.com/sw33tLie/livewatch/pkg/render"
)

type renderCall struct {
	url, locator string
}

// fakeRenderer serves fragments keyed by URL. Each URL may hold a queue of
// responses; the last one repeats once the queue is drained.
type fakeRenderer struct {
	pages map[string][]extract.Fragment
	errs  map[string]error
	calls []renderCall
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{pages: map[string][]extract.Fragment{}, errs: map[string]error{}}
}

func (f *fakeRenderer) Render(_ context.Context, url, locator string) (extract.Fragment, error) {
	f.calls = append(f.calls, renderCall{url, locator})
	if err, ok := f.errs[url]; ok {
		return extract.Absent, err
	}
	queue := f.pages[url]
	if len(queue) == 0 {
		return extract.Absent, nil
	}
	fr := queue[0]
	if len(queue) > 1 {
		f.pages[url] = queue[1:]
	}
	return fr, nil
}

type recordingLogger struct {
	warnings []string
}

func (r *recordingLogger) Infof(string, ...interface{})  {}
func (r *recordingLogger) Errorf(string, ...interface{}) {}
func (r *recordingLogger) Debugf(string, ...interface{}) {}
func (r *recordingLogger) Warnf(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func liveAnchor(title, href string) string {
	return fmt.Sprintf(`<a id="video-title" aria-label=%q href=%q></a>`, title, href)
}

func upcomingMeta(title, href, date string) string {
	return fmt.Sprintf(`<div id="meta"><a id="video-title" title=%q href=%q></a><div id="metadata-line"><span>%s</span></div></div>`, title, href, date)
}

var _ render.Renderer = (*fakeRenderer)(nil)

func TestLiveCheck(t *testing.T) {
	r := newFakeRenderer()
	r.pages["https://example.com/channel/abc"] = []extract.Fragment{extract.NewFragment(liveAnchor("Live Now", "/watch?v=abc"))}

	m := New(r)
	got := m.LiveCheck(context.Background(), "https://example.com/channel/abc/")
	want := []extract.LiveEntry{{Title: "Live Now", Link: "/watch?v=abc"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected entries.\nwant: %#v\ngot:  %#v", want, got)
	}
	if len(r.calls) != 1 || r.calls[0].locator != LiveLocator {
		t.Fatalf("unexpected render calls: %#v", r.calls)
	}
}

func TestLiveCheck_NoPanel(t *testing.T) {
	m := New(newFakeRenderer())
	got := m.LiveCheck(context.Background(), "https://example.com/channel/abc")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestChecks_RenderFailureIsEmpty(t *testing.T) {
	r := newFakeRenderer()
	r.errs["https://example.com/channel/abc"] = fmt.Errorf("%w: boom", render.ErrRender)
	r.errs["https://example.com/channel/abc"+UpcomingPath] = errors.New("timeout")
	log := &recordingLogger{}

	m := New(r, WithLogger(log))
	if got := m.LiveCheck(context.Background(), "https://example.com/channel/abc"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty live result, got %#v", got)
	}
	if got := m.UpcomingCheck(context.Background(), "https://example.com/channel/abc"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty upcoming result, got %#v", got)
	}
	if len(log.warnings) != 2 {
		t.Fatalf("expected two warnings, got %#v", log.warnings)
	}
}

func TestUpcomingCheck_URLAndThreshold(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 3; i++ {
		b.WriteString(upcomingMeta(fmt.Sprintf("Stream %d", i), fmt.Sprintf("/watch?v=%d", i), "Scheduled for 19/09/2021, 21:00"))
	}
	r := newFakeRenderer()
	r.pages["https://example.com/channel/abc"+UpcomingPath] = []extract.Fragment{extract.NewFragment(b.String())}

	if got := New(r).UpcomingCheck(context.Background(), "https://example.com/channel/abc"); len(got) != 3 {
		t.Fatalf("expected 3 entries with the default threshold, got %d", len(got))
	}
	if r.calls[0].locator != UpcomingLocator {
		t.Fatalf("unexpected locator %s", r.calls[0].locator)
	}
	if got := New(r, WithThreshold(2)).UpcomingCheck(context.Background(), "https://example.com/channel/abc"); len(got) != 0 {
		t.Fatalf("expected no entries above threshold 2, got %d", len(got))
	}
}

func TestValidateChannelURL(t *testing.T) {
	got, err := ValidateChannelURL("https://www.youtube.com/channel/UCS9uQI-jC3DE0L4IpXyvr6w/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://www.youtube.com/channel/UCS9uQI-jC3DE0L4IpXyvr6w" {
		t.Fatalf("unexpected url %s", got)
	}

	for _, bad := range []string{"", "youtube.com/c/foo", "ftp://example.com/c/foo", "https://", "http://%zz"} {
		if _, err := ValidateChannelURL(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestAbsoluteLink(t *testing.T) {
	tests := []struct {
		channel, link, want string
	}{
		{"https://www.youtube.com/c/YellowBrickCinema", "/watch?v=NYrhBvSXUXY", "https://www.youtube.com/watch?v=NYrhBvSXUXY"},
		{"https://www.youtube.com/channel/abc", "https://youtu.be/x", "https://youtu.be/x"},
	}
	for _, tt := range tests {
		if got := AbsoluteLink(tt.channel, tt.link); got != tt.want {
			t.Fatalf("AbsoluteLink(%q, %q) = %q, want %q", tt.channel, tt.link, got, tt.want)
		}
	}
}
