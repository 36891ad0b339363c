package odisharera

import (
	"strings"

	"golang.org/x/net/html"
)

// nodeText walks n in document order and joins the trimmed, non-empty
// text nodes with sep. Script, style and comment content is skipped.
func nodeText(n *html.Node, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
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
	walk(n)
	return strings.Join(parts, sep)
}

func skipText(n *html.Node) bool {
	switch n.Data {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}

// TextOnly renders markup as plain text: tags stripped, text nodes
// separated by single spaces and all whitespace collapsed.
func TextOnly(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(nodeText(doc, " ")), " ")
}
