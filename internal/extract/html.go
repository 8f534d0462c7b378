package extract

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
)

// Elements whose text is never part of the readable page
var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true,
	"nav": true, "header": true, "footer": true, "aside": true, "form": true,
	"template": true, "svg": true,
}

// Block elements end a sentence-like run of text
var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "blockquote": true, "td": true, "br": true,
	"section": true, "article": true, "tr": true,
}

// VisibleText returns the readable text of an HTML page. Text inside the
// main content region (article, main, role=main or a MediaWiki content
// div) is preferred over the whole document.
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", eris.Wrap(err, "parse html")
	}

	root := contentRoot(doc)
	if root == nil {
		root = doc
	}

	text := extractVisibleText(root)
	if strings.TrimSpace(text) == "" && root != doc {
		text = extractVisibleText(doc)
	}
	return strings.TrimSpace(text), nil
}

// contentRoot finds the first node that looks like the main content region
func contentRoot(n *html.Node) *html.Node {
	var article, main *html.Node

	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "article" && article == nil:
				article = n
			case (n.Data == "main" || attr(n, "role") == "main") && main == nil:
				main = n
			case attr(n, "id") == "mw-content-text" && main == nil:
				main = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(n)

	if main != nil {
		return main
	}
	return article
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// extractVisibleText collects text nodes, skipping non-content elements.
// Block boundaries become newlines so sentence splitting sees them.
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}

		if n.Type == html.TextNode {
			text := strings.Join(strings.Fields(n.Data), " ")
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteString("\n")
		}
	}

	walk(n)

	lines := strings.Split(buf.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
