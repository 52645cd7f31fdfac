package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// MaxOracleChars bounds how much page text is forwarded to the
// classification oracle.
const MaxOracleChars = 6000

// VisibleText parses HTML and returns the rendered text content,
// skipping non-visible elements and collapsing whitespace.
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "svg", "nav", "footer":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String()), nil
}

// TruncateForOracle caps extracted page text without cutting a word in
// half mid-rune.
func TruncateForOracle(text string) string {
	if len(text) <= MaxOracleChars {
		return text
	}

	truncated := text[:MaxOracleChars]
	if idx := strings.LastIndexByte(truncated, ' '); idx > 0 {
		truncated = truncated[:idx]
	}
	return truncated
}
