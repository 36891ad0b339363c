package odisharera

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Fragment is a chunk of markup believed to hold one project listing.
type Fragment string

// Strategy partitions a parsed document into at most limit fragments.
type Strategy struct {
	Name string
	Find func(doc *goquery.Document, limit int) []Fragment
}

// Strategies are tried in order; the first one that yields a fragment wins.
var Strategies = []Strategy{
	{Name: "anchor", Find: AnchorStrategy},
	{Name: "selector", Find: SelectorStrategy},
	{Name: "window", Find: WindowStrategy},
}

// Window sizes of the text fallback, in characters.
const (
	windowLead = 500
	windowLast = 1000
)

// containerTags are the elements an anchor may resolve to.
var containerTags = map[string]bool{
	"div":     true,
	"article": true,
	"section": true,
	"li":      true,
}

// containerSelectors are tried in priority order by SelectorStrategy.
var containerSelectors = []cascadia.Selector{
	cascadia.MustCompile(`div[class*="project"]`),
	cascadia.MustCompile(`div[class*="card"]`),
	cascadia.MustCompile(`li[class*="project"]`),
	cascadia.MustCompile(`article`),
	cascadia.MustCompile(`.project-item`),
	cascadia.MustCompile(`.project-card`),
}

// Segment splits a rendered document into at most limit fragments using
// the first strategy that finds any. It returns the fragments and the
// name of the strategy used ("" when none matched).
func Segment(document string, limit int) ([]Fragment, string) {
	if limit <= 0 {
		return nil, ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, ""
	}
	for _, s := range Strategies {
		if frags := s.Find(doc, limit); len(frags) > 0 {
			return frags, s.Name
		}
	}
	return nil, ""
}

// AnchorStrategy finds text nodes holding a registration number and
// returns, for each of the first limit of them, the nearest enclosing
// div, article, section or li.
func AnchorStrategy(doc *goquery.Document, limit int) []Fragment {
	var anchors []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(anchors) >= limit {
			return
		}
		switch n.Type {
		case html.TextNode:
			if reraNoRe.MatchString(n.Data) {
				anchors = append(anchors, n)
			}
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			if skipText(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}

	var frags []Fragment
	for _, a := range anchors {
		container := a.Parent
		for container != nil && !(container.Type == html.ElementNode && containerTags[container.Data]) {
			container = container.Parent
		}
		if container == nil {
			continue
		}
		var buf bytes.Buffer
		if err := html.Render(&buf, container); err != nil {
			continue
		}
		frags = append(frags, Fragment(buf.String()))
	}
	return frags
}

// SelectorStrategy returns the first limit elements of the first container
// selector that matches anything.
func SelectorStrategy(doc *goquery.Document, limit int) []Fragment {
	for _, sel := range containerSelectors {
		matches := doc.FindMatcher(sel)
		if matches.Length() == 0 {
			continue
		}
		var frags []Fragment
		matches.EachWithBreak(func(i int, s *goquery.Selection) bool {
			if h, err := goquery.OuterHtml(s); err == nil {
				frags = append(frags, Fragment(h))
			}
			return len(frags) < limit
		})
		return frags
	}
	return nil
}

// WindowStrategy works on the line-broken text of the whole document.
// The i-th registration number yields a window starting 500 characters
// before it and ending where the next one starts; the last window spans
// 1000 characters. Each window is wrapped in a synthetic div.
func WindowStrategy(doc *goquery.Document, limit int) []Fragment {
	var text string
	if len(doc.Nodes) > 0 {
		text = nodeText(doc.Nodes[0], "\n")
	}
	locs := reraNoRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	// Byte offsets to character offsets.
	starts := make([]int, len(locs))
	prevByte, prevRune := 0, 0
	for i, loc := range locs {
		prevRune += utf8.RuneCountInString(text[prevByte:loc[0]])
		prevByte = loc[0]
		starts[i] = prevRune
	}
	runes := []rune(text)

	var frags []Fragment
	for i := 0; i < len(starts) && i < limit; i++ {
		start := starts[i] - windowLead
		if start < 0 {
			start = 0
		}
		var end int
		if i < len(starts)-1 {
			end = starts[i+1]
		} else {
			end = start + windowLast
			if end > len(runes) {
				end = len(runes)
			}
		}
		window := string(runes[start:end])
		frags = append(frags, Fragment("<div>"+html.EscapeString(window)+"</div>"))
	}
	return frags
}
