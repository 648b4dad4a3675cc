package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sw33tLie/livewatch/pkg/extract"
	"github.com/sw33tLie/livewatch/pkg/monitor"
	"github.com/tidwall/gjson"
)

const channel = "https://www.youtube.com/channel/UCS9uQI-jC3DE0L4IpXyvr6w"

func TestPrintLive(t *testing.T) {
	var buf bytes.Buffer
	entries := []extract.LiveEntry{
		{Title: "Focus, Meditation", Link: "/watch?v=NYrhBvSXUXY"},
		{Title: "Second", Link: "/watch?v=2"},
	}

	if err := PrintLive(&buf, channel, entries, "tu", " | "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Focus, Meditation | https://www.youtube.com/watch?v=NYrhBvSXUXY\nSecond | https://www.youtube.com/watch?v=2\n"
	if buf.String() != want {
		t.Fatalf("unexpected output.\nwant: %q\ngot:  %q", want, buf.String())
	}
}

func TestPrintLive_InvalidFlag(t *testing.T) {
	var buf bytes.Buffer
	err := PrintLive(&buf, channel, []extract.LiveEntry{{Title: "x", Link: "/x"}}, "ts", " ")
	if err == nil {
		t.Fatal("expected an error for the start time flag on live entries")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPrintUpcoming(t *testing.T) {
	start := time.Date(2021, time.September, 19, 21, 0, 0, 0, time.Local)
	entries := []extract.UpcomingEntry{
		{Title: "CHATTING ROOM", Link: "/watch?v=WinQpGPnSdI", StartTime: float64(start.Unix())},
	}

	var buf bytes.Buffer
	if err := PrintUpcoming(&buf, channel, entries, "tls", ","); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "CHATTING ROOM,/watch?v=WinQpGPnSdI," + start.Format(time.RFC3339) + "\n"
	if buf.String() != want {
		t.Fatalf("unexpected output.\nwant: %q\ngot:  %q", want, buf.String())
	}
}

func TestPrintChange(t *testing.T) {
	var buf bytes.Buffer
	c := monitor.Change{Kind: monitor.ChangeLive, Channel: channel, Title: "Live Now", Link: "/watch?v=abc"}
	if err := PrintChange(&buf, c, DefaultChangeFlags, " "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "live Live Now /watch?v=abc\n") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestJSONUpcoming(t *testing.T) {
	var buf bytes.Buffer
	entries := []extract.UpcomingEntry{
		{Title: `Quote "me"`, Link: "/watch?v=q", StartTime: 1632056400},
		{Title: "Other", Link: "/watch?v=o", StartTime: 1632060000},
	}
	if err := JSONUpcoming(&buf, channel, entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	first := gjson.Parse(lines[0])
	if first.Get("title").String() != `Quote "me"` {
		t.Fatalf("unexpected title in %s", lines[0])
	}
	if first.Get("start_time").Float() != 1632056400 {
		t.Fatalf("unexpected start_time in %s", lines[0])
	}
	if first.Get("url").String() != "https://www.youtube.com/watch?v=q" {
		t.Fatalf("unexpected url in %s", lines[0])
	}
	if first.Get("channel").String() != channel {
		t.Fatalf("unexpected channel in %s", lines[0])
	}
}

func TestJSONObject_KeysWithDots(t *testing.T) {
	obj, err := jsonObject("a.b", "v")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := gjson.Get(obj, `a\.b`).String(); got != "v" {
		t.Fatalf("expected literal dotted key, got %s", obj)
	}
}

func TestJSONChange(t *testing.T) {
	var buf bytes.Buffer
	c := monitor.Change{Kind: monitor.ChangeEnded, Channel: channel, Title: "Bye", Link: "/watch?v=b"}
	if err := JSONChange(&buf, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := gjson.Parse(buf.String())
	if res.Get("kind").String() != "ended" || res.Get("start_time").Exists() {
		t.Fatalf("unexpected change json %s", buf.String())
	}
}
