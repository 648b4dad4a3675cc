// Package report prints check results as delimited text or JSON lines.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sw33tLie/livewatch/pkg/extract"
	"github.com/sw33tLie/livewatch/pkg/monitor"
	"github.com/tidwall/sjson"
)

// Output flags: t (title), l (link), u (absolute URL), s (start time),
// c (channel URL), k (change kind, changes only).
const (
	DefaultLiveFlags     = "tl"
	DefaultUpcomingFlags = "tls"
	DefaultChangeFlags   = "ktl"
)

// line is the union of fields any flag can refer to.
type line struct {
	channel   string
	kind      string
	title     string
	link      string
	startTime float64
}

// ValidateFlags rejects output flags that are unknown or do not apply.
func ValidateFlags(outputFlags string, allowed string) error {
	if outputFlags == "" {
		return fmt.Errorf("empty output flags")
	}
	for _, f := range outputFlags {
		if !strings.ContainsRune(allowed, f) {
			return fmt.Errorf("invalid output flag %q (available: %s)", f, allowed)
		}
	}
	return nil
}

func createLine(l line, outputFlags, delimiter string) string {
	var out string
	for _, f := range outputFlags {
		switch f {
		case 't':
			out += l.title + delimiter
		case 'l':
			out += l.link + delimiter
		case 'u':
			out += monitor.AbsoluteLink(l.channel, l.link) + delimiter
		case 's':
			out += FormatStartTime(l.startTime) + delimiter
		case 'c':
			out += l.channel + delimiter
		case 'k':
			out += l.kind + delimiter
		}
	}
	return strings.TrimSuffix(out, delimiter)
}

// FormatStartTime renders unix seconds as local RFC3339.
func FormatStartTime(ts float64) string {
	return time.Unix(int64(ts), 0).Local().Format(time.RFC3339)
}

// PrintLive writes one line per live broadcast.
func PrintLive(w io.Writer, channel string, entries []extract.LiveEntry, outputFlags, delimiter string) error {
	if err := ValidateFlags(outputFlags, "tluc"); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, createLine(line{channel: channel, title: e.Title, link: e.Link}, outputFlags, delimiter)); err != nil {
			return err
		}
	}
	return nil
}

// PrintUpcoming writes one line per scheduled broadcast.
func PrintUpcoming(w io.Writer, channel string, entries []extract.UpcomingEntry, outputFlags, delimiter string) error {
	if err := ValidateFlags(outputFlags, "tlusc"); err != nil {
		return err
	}
	for _, e := range entries {
		l := line{channel: channel, title: e.Title, link: e.Link, startTime: e.StartTime}
		if _, err := fmt.Fprintln(w, createLine(l, outputFlags, delimiter)); err != nil {
			return err
		}
	}
	return nil
}

var changeEmoji = map[monitor.ChangeKind]string{
	monitor.ChangeLive:        "🔴",
	monitor.ChangeEnded:       "⏹️",
	monitor.ChangeScheduled:   "🆕",
	monitor.ChangeUnscheduled: "❌",
	monitor.ChangeRescheduled: "🔄",
}

// PrintChange writes a single watch change, prefixed with an emoji.
func PrintChange(w io.Writer, c monitor.Change, outputFlags, delimiter string) error {
	if err := ValidateFlags(outputFlags, "ktlusc"); err != nil {
		return err
	}
	l := line{channel: c.Channel, kind: string(c.Kind), title: c.Title, link: c.Link, startTime: c.StartTime}
	_, err := fmt.Fprintf(w, "%s  %s\n", changeEmoji[c.Kind], createLine(l, outputFlags, delimiter))
	return err
}

// JSONLive writes one JSON object per live broadcast.
func JSONLive(w io.Writer, channel string, entries []extract.LiveEntry) error {
	for _, e := range entries {
		obj, err := jsonObject(
			"channel", channel,
			"title", e.Title,
			"link", e.Link,
			"url", monitor.AbsoluteLink(channel, e.Link),
		)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, obj); err != nil {
			return err
		}
	}
	return nil
}

// JSONUpcoming writes one JSON object per scheduled broadcast.
func JSONUpcoming(w io.Writer, channel string, entries []extract.UpcomingEntry) error {
	for _, e := range entries {
		obj, err := jsonObject(
			"channel", channel,
			"title", e.Title,
			"link", e.Link,
			"url", monitor.AbsoluteLink(channel, e.Link),
			"start_time", e.StartTime,
		)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, obj); err != nil {
			return err
		}
	}
	return nil
}

// JSONChange writes a single watch change as a JSON object.
func JSONChange(w io.Writer, c monitor.Change) error {
	kv := []interface{}{
		"kind", string(c.Kind),
		"channel", c.Channel,
		"title", c.Title,
		"link", c.Link,
	}
	if c.StartTime != 0 {
		kv = append(kv, "start_time", c.StartTime)
	}
	obj, err := jsonObject(kv...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, obj)
	return err
}

// jsonObject builds an object from alternating keys and values, keeping
// key order.
func jsonObject(kv ...interface{}) (string, error) {
	obj := "{}"
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return "", fmt.Errorf("json key %v is not a string", kv[i])
		}
		var err error
		// Keys are literal paths; escape the sjson path syntax.
		obj, err = sjson.Set(obj, escapePath(key), kv[i+1])
		if err != nil {
			return "", err
		}
	}
	return obj, nil
}

func escapePath(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(key)
}
