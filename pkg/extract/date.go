package extract

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnrecognizedDate is matched by a ParseError when the text fits none
// of the known date formats.
var ErrUnrecognizedDate = errors.New("unrecognized date format")

// ParseError reports a scheduled start time that could not be read.
type ParseError struct {
	Text   string
	Format string // empty when no format matched
	Err    error
}

func (e *ParseError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("parse date %q: %v", e.Text, e.Err)
	}
	return fmt.Sprintf("parse date %q as %s: %v", e.Text, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingElementError reports a candidate entry lacking a required piece.
type MissingElementError struct {
	Element string
}

func (e *MissingElementError) Error() string {
	return "missing " + e.Element
}

// DateFormat is one locale's rendering of a scheduled start time.
type DateFormat struct {
	Name string
	// Layout is the time layout of the substring returned by Extract.
	Layout string
	// Match reports whether text is rendered in this format.
	Match func(text string) bool
	// Extract returns the date substring of text.
	Extract func(text string) string
}

const fullWidthColon = "："

// DateFormats are tried in order; the first whose Match accepts the text
// decides how it is parsed.
var DateFormats = []DateFormat{
	{
		// "Scheduled for 19/09/2021, 21:00"
		Name:   "english",
		Layout: "2/1/2006, 15:04",
		Match: func(text string) bool {
			return strings.Contains(text, "Scheduled")
		},
		Extract: func(text string) string {
			fields := strings.Fields(text)
			if len(fields) < 2 {
				return text
			}
			return strings.Join(fields[len(fields)-2:], " ")
		},
	},
	{
		// "予定：2021/09/19 21:00"
		Name:   "fullwidth-colon",
		Layout: "2006/1/2 15:04",
		Match: func(text string) bool {
			return strings.Contains(text, fullWidthColon)
		},
		Extract: func(text string) string {
			i := strings.LastIndex(text, fullWidthColon)
			return strings.TrimSpace(text[i+len(fullWidthColon):])
		},
	},
}

func matchDateFormat(text string) *DateFormat {
	for i := range DateFormats {
		if DateFormats[i].Match(text) {
			return &DateFormats[i]
		}
	}
	return nil
}

// ParseStartTime reads a scheduled start time as local wall-clock time.
func ParseStartTime(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	f := matchDateFormat(text)
	if f == nil {
		return time.Time{}, &ParseError{Text: text, Err: ErrUnrecognizedDate}
	}

	t, err := time.ParseInLocation(f.Layout, f.Extract(text), time.Local)
	if err != nil {
		return time.Time{}, &ParseError{Text: text, Format: f.Name, Err: err}
	}
	return t, nil
}

// NormalizeDate converts a scheduled start time to unix seconds.
func NormalizeDate(text string) (float64, error) {
	t, err := ParseStartTime(text)
	if err != nil {
		return 0, err
	}
	return float64(t.Unix()), nil
}
