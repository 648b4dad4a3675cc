package extract

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	want := float64(time.Date(2021, time.September, 19, 21, 0, 0, 0, time.Local).Unix())

	tests := []struct {
		name string
		text string
	}{
		{"english", "Scheduled for 19/09/2021, 21:00"},
		{"fullwidth colon", "予定：2021/09/19 21:00"},
		{"surrounding whitespace", "  Scheduled for 19/09/2021, 21:00\n"},
		{"single digit day and month", "予定：2021/9/19 21:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.text)
			if err != nil {
				t.Fatalf("NormalizeDate(%q) returned error: %v", tt.text, err)
			}
			if got != want {
				t.Fatalf("NormalizeDate(%q) = %v, want %v", tt.text, got, want)
			}
		})
	}
}

func TestNormalizeDate_Unrecognized(t *testing.T) {
	_, err := NormalizeDate("not a date")
	if err == nil {
		t.Fatal("expected an error")
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if !errors.Is(err, ErrUnrecognizedDate) {
		t.Fatalf("expected ErrUnrecognizedDate, got %v", err)
	}
}

func TestNormalizeDate_MalformedAfterMatch(t *testing.T) {
	for _, text := range []string{
		"Scheduled for tomorrow",
		"Scheduled",
		"予定：soon",
		"Scheduled for 31/31/2021, 21:00",
	} {
		_, err := NormalizeDate(text)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("NormalizeDate(%q): expected *ParseError, got %v", text, err)
		}
		if pe.Format == "" {
			t.Fatalf("NormalizeDate(%q): expected the matched format to be recorded", text)
		}
		if errors.Is(err, ErrUnrecognizedDate) {
			t.Fatalf("NormalizeDate(%q): format matched, should not be ErrUnrecognizedDate", text)
		}
	}
}

func TestDateFormatsDiscriminator(t *testing.T) {
	if f := matchDateFormat("Scheduled for 19/09/2021, 21:00"); f == nil || f.Name != "english" {
		t.Fatalf("expected english format, got %+v", f)
	}
	if f := matchDateFormat("予定：2021/09/19 21:00"); f == nil || f.Name != "fullwidth-colon" {
		t.Fatalf("expected fullwidth-colon format, got %+v", f)
	}
	if f := matchDateFormat("1.2K views"); f != nil {
		t.Fatalf("expected no format, got %s", f.Name)
	}
}
