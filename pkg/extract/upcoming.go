package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultThreshold is the number of candidate entries above which the
// upcoming panel is assumed to be the channel's full video grid.
const DefaultThreshold = 10

// UpcomingEntry is a scheduled broadcast. StartTime is in unix seconds.
type UpcomingEntry struct {
	Title     string
	Link      string
	StartTime float64
}

// ExtractUpcoming returns the scheduled broadcasts listed in the upcoming
// videos grid.
//
// When a channel has nothing scheduled the page falls back to listing all
// recent uploads under the same container, so a grid with more than
// threshold entries is reported as empty. A channel with more than
// threshold real scheduled broadcasts is therefore reported as having none.
func ExtractUpcoming(f Fragment, threshold int) []UpcomingEntry {
	return ExtractUpcomingWithLog(f, threshold, nil)
}

// ExtractUpcomingWithLog is ExtractUpcoming reporting every skipped entry
// to log.
func ExtractUpcomingWithLog(f Fragment, threshold int, log Logger) []UpcomingEntry {
	if log == nil {
		log = nopLogger{}
	}
	entries := []UpcomingEntry{}
	if !f.Found {
		return entries
	}

	doc, err := parseFragment(f.HTML)
	if err != nil {
		log.Debugf("Could not parse upcoming panel: %v", err)
		return entries
	}

	metas := doc.Find("div#meta")
	if metas.Length() > threshold {
		log.Debugf("Upcoming panel lists %d videos (threshold %d), assuming nothing is scheduled", metas.Length(), threshold)
		return entries
	}

	metas.Each(func(i int, s *goquery.Selection) {
		entry, err := upcomingEntry(s)
		if err != nil {
			log.Debugf("Skipping upcoming entry %d: %v", i, err)
			return
		}
		entries = append(entries, entry)
	})

	return entries
}

func upcomingEntry(meta *goquery.Selection) (UpcomingEntry, error) {
	anchor := meta.Find("a#video-title").First()
	if anchor.Length() == 0 {
		return UpcomingEntry{}, &MissingElementError{Element: "video title anchor"}
	}
	title, ok := attr(anchor, "title")
	if !ok {
		return UpcomingEntry{}, &MissingElementError{Element: "title attribute"}
	}
	link, ok := attr(anchor, "href")
	if !ok {
		return UpcomingEntry{}, &MissingElementError{Element: "href attribute"}
	}

	line := meta.Find("#metadata-line").First()
	if line.Length() == 0 {
		return UpcomingEntry{}, &MissingElementError{Element: "metadata line"}
	}
	dateText := metadataDate(line)
	if dateText == "" {
		return UpcomingEntry{}, &MissingElementError{Element: "metadata date"}
	}

	start, err := NormalizeDate(dateText)
	if err != nil {
		return UpcomingEntry{}, err
	}

	return UpcomingEntry{Title: title, Link: link, StartTime: start}, nil
}

// metadataDate picks the date text out of a metadata line. The line can
// hold several spans (view counts, badges), so the first span that looks
// like a known date format wins, then the first non-empty span, then the
// line's own text.
func metadataDate(line *goquery.Selection) string {
	var first, dated string
	line.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return true
		}
		if first == "" {
			first = text
		}
		if matchDateFormat(text) != nil {
			dated = text
			return false
		}
		return true
	})

	switch {
	case dated != "":
		return dated
	case first != "":
		return first
	}
	return strings.TrimSpace(line.Text())
}
