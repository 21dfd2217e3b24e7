// Package linkgraph computes backlinks from the anchors in rendered pages.
package linkgraph

import (
	"path"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pagesmith/internal/document"
)

// Extract returns the internal links found in the rendered HTML of doc.
// Anchors whose href starts with http:// or https:// are skipped.
func Extract(doc *document.Document) []document.Link {
	root, err := html.Parse(strings.NewReader(doc.Content))
	if err != nil {
		// html.Parse only fails on reader errors.
		return nil
	}

	var links []document.Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); href != "" && !isExternal(href) {
				links = append(links, document.Link{
					FromTitle: doc.Title,
					FromPath:  doc.Slug,
					ToTitle:   extractText(n),
					ToPath:    href,
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return links
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

// Normalize maps a link target to the "/"+slug form documents are keyed by.
// Query strings and fragments are dropped.
func Normalize(target string) string {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	return path.Clean("/" + target)
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// extractText extracts text content from an HTML node and its children.
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}

	return strings.TrimSpace(text.String())
}
