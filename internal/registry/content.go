package registry

import (
	"path"
	"strings"

	"golang.org/x/net/html"
)

// Normalize prepares fetched registry content for substring matching.
// HTML registry pages (exported styleguides) are reduced to their visible
// text; anything else passes through unchanged.
func Normalize(filePath, content string) string {
	switch strings.ToLower(path.Ext(filePath)) {
	case ".html", ".htm":
		return htmlText(content)
	default:
		return content
	}
}

// htmlText extracts the visible text of an HTML document. On a parse
// failure the raw markup is returned; the matcher still scans it.
func htmlText(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			}
		}
		if n.Type == html.TextNode {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String()
}
