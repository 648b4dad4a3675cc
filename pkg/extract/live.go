package extract

import "github.com/PuerkitoBio/goquery"

// LiveEntry is a broadcast that is streaming right now. Link is the path
// relative to the platform origin, e.g. /watch?v=abc.
type LiveEntry struct {
	Title string
	Link  string
}

// ExtractLive returns the live broadcasts found in the channel's featured
// content panel, in document order. Anchors without a label or a link are
// left out.
func ExtractLive(f Fragment) []LiveEntry {
	entries := []LiveEntry{}
	if !f.Found {
		return entries
	}

	doc, err := parseFragment(f.HTML)
	if err != nil {
		return entries
	}

	doc.Find("a#video-title").Each(func(_ int, s *goquery.Selection) {
		title, ok := attr(s, "aria-label")
		if !ok {
			return
		}
		link, ok := attr(s, "href")
		if !ok {
			return
		}
		entries = append(entries, LiveEntry{Title: title, Link: link})
	})

	return entries
}
