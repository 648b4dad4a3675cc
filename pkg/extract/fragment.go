// Package extract parses rendered channel panels into live and upcoming
// broadcast entries. Every function here is a pure transformation of its
// input markup.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fragment is the inner markup of one rendered page panel. The zero value
// is an absent fragment: the locator matched nothing on the page.
type Fragment struct {
	HTML  string
	Found bool
}

// Absent is returned by renderers when no element matched the locator.
var Absent = Fragment{}

// NewFragment wraps markup that was found on the page.
func NewFragment(markup string) Fragment {
	return Fragment{HTML: markup, Found: true}
}

// Logger receives diagnostics about entries that were skipped.
type Logger interface {
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}

// parseFragment parses inner markup the way a browser would when it is
// assigned to a div's innerHTML. The HTML5 parser recovers from broken
// markup instead of failing, so only reader errors surface here.
func parseFragment(markup string) (*goquery.Document, error) {
	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), container)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(container), nil
}

// attr reads an attribute as written in the markup. An attribute that is
// present but empty still counts as present.
func attr(s *goquery.Selection, name string) (string, bool) {
	return s.Attr(name)
}
