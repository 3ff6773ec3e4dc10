// Package readability extracts readable article content from raw HTML.
//
// It is the local fallback for reader mode when the completion capability is
// absent or fails, and the text source for page summarization.
package readability

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

const (
	maxTitleLen   = 200
	maxContentLen = 50000
	maxParagraphs = 100
	maxTextLen    = 8000

	minParagraphLen = 20
	minSentenceLen  = 50
)

// Article is the extracted reader-mode payload.
type Article struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary"`
}

// chrome elements carry navigation and boilerplate, never article text.
var chromeElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"nav":      true,
	"footer":   true,
	"header":   true,
	"aside":    true,
}

// Extract parses raw HTML and pulls out the readable article.
// Preference order for the content root is <article>, <main>, <body>.
func Extract(rawHTML string) (*Article, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	title := truncate(strings.TrimSpace(findTitle(doc)), maxTitleLen)
	stripChrome(doc)

	root := findNode(doc, "article")
	if root == nil {
		root = findNode(doc, "main")
	}
	if root == nil {
		root = findNode(doc, "body")
	}
	if root == nil {
		root = doc
	}

	paragraphs := collectParagraphs(root)
	if len(paragraphs) == 0 {
		paragraphs = sentenceFallback(root)
	}

	content := truncate(strings.Join(paragraphs, "\n\n"), maxContentLen)

	summary := ""
	if len(paragraphs) > 0 {
		summary = truncate(firstProse(paragraphs), 500)
	}

	return &Article{
		Title:   title,
		Content: content,
		Summary: summary,
	}, nil
}

// collectParagraphs walks the content root and gathers headings and
// substantial paragraphs as markdown blocks, up to the paragraph cap.
func collectParagraphs(root *html.Node) []string {
	var blocks []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if len(blocks) >= maxParagraphs {
			return
		}

		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1", "h2", "h3", "h4", "h5", "h6":
				if text := nodeText(n); text != "" {
					level := int(n.Data[1] - '0')
					blocks = append(blocks, strings.Repeat("#", level)+" "+text)
				}
				return
			case "p", "li", "blockquote", "pre":
				if text := blockText(n); len(text) > minParagraphLen {
					blocks = append(blocks, text)
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return blocks
}

// blockText renders a block element through the markdown converter so inline
// formatting and links survive, falling back to the plain text walk.
func blockText(n *html.Node) string {
	var buf strings.Builder
	if err := html.Render(&buf, n); err != nil {
		return nodeText(n)
	}

	markdown, err := htmltomarkdown.ConvertString(buf.String())
	if err != nil {
		return nodeText(n)
	}

	return collapseWhitespace(strings.TrimSpace(markdown))
}

// sentenceFallback handles pages without paragraph markup: take the raw text
// of the root and keep sentence-sized fragments.
func sentenceFallback(root *html.Node) []string {
	text := collapseWhitespace(nodeText(root))

	var blocks []string
	for _, frag := range strings.Split(text, ". ") {
		frag = strings.TrimSpace(frag)
		if len(frag) > minSentenceLen {
			blocks = append(blocks, frag)
		}
		if len(blocks) >= maxParagraphs {
			break
		}
	}

	return blocks
}

// firstProse returns the first non-heading block for use as the summary.
func firstProse(blocks []string) string {
	for _, b := range blocks {
		if !strings.HasPrefix(b, "#") {
			return b
		}
	}
	return blocks[0]
}

// Text strips a page down to plain text for summarization: chrome removed,
// entities unescaped, whitespace collapsed, capped at 8000 chars.
func Text(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return truncate(collapseWhitespace(stripTagsFallback(rawHTML)), maxTextLen)
	}

	stripChrome(doc)

	return truncate(strings.TrimSpace(collapseWhitespace(nodeText(doc))), maxTextLen)
}

// stripChrome detaches chrome elements from the tree in place.
func stripChrome(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.ElementNode && chromeElements[c.Data] {
			n.RemoveChild(c)
			continue
		}
		stripChrome(c)
	}
}

// findTitle returns the text of the first <title> element.
func findTitle(doc *html.Node) string {
	if t := findNode(doc, "title"); t != nil {
		return nodeText(t)
	}
	return ""
}

// findNode returns the first element with the given tag, depth first.
func findNode(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// nodeText extracts the text content of a node, space separated.
func nodeText(n *html.Node) string {
	var buf strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.TrimSpace(collapseWhitespace(buf.String()))
}

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// stripTagsFallback uses regex stripping when parsing fails.
func stripTagsFallback(s string) string {
	s = htmlTagRegex.ReplaceAllString(s, " ")
	return html.UnescapeString(s)
}

// collapseWhitespace replaces runs of whitespace with a single space.
func collapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(s, " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
