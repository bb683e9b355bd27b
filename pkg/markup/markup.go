// Package markup converts the HTML bodies of text entities into something a
// terminal can show: plain text, or lightweight markdown for a markdown
// renderer.
package markup

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ToText flattens an HTML fragment into plain text. Block elements become
// paragraph breaks and links keep their target as "text (href)".
func ToText(body string) (string, error) {
	return convert(body, false)
}

// ToMarkdown converts an HTML fragment into markdown covering headings,
// emphasis, lists, links, images and preformatted blocks.
func ToMarkdown(body string) (string, error) {
	return convert(body, true)
}

// IsHTML reports whether s looks like it contains markup.
func IsHTML(s string) bool {
	i := strings.IndexByte(s, '<')
	return i >= 0 && strings.IndexByte(s[i:], '>') > 0
}

func convert(body string, markdown bool) (string, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	c := &converter{markdown: markdown}
	c.walk(doc)
	return normalize(c.b.String()), nil
}

type converter struct {
	b        strings.Builder
	markdown bool
	pre      bool
	lists    []int // per nesting level: -1 unordered, otherwise the next ordinal
}

func (c *converter) walk(n *html.Node) {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return
	case html.TextNode:
		c.text(n.Data)
		return
	case html.ElementNode:
		c.element(n)
		return
	}
	c.children(n)
}

func (c *converter) children(n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child)
	}
}

func (c *converter) text(s string) {
	if c.pre {
		c.b.WriteString(s)
		return
	}
	s = collapse(s)
	if c.atBreak() {
		s = strings.TrimLeft(s, " ")
	}
	c.b.WriteString(s)
}

//nolint:gocyclo
func (c *converter) element(n *html.Node) {
	tag := strings.ToLower(n.Data)
	if isSkippedElement(tag) {
		return
	}

	switch tag {
	case "br":
		c.b.WriteString("\n")
	case "hr":
		c.block()
		if c.markdown {
			c.b.WriteString("---")
		}
		c.block()
	case "h1", "h2", "h3", "h4", "h5", "h6":
		c.block()
		if c.markdown {
			level, _ := strconv.Atoi(tag[1:])
			c.b.WriteString(strings.Repeat("#", level) + " ")
		}
		c.children(n)
		c.block()
	case "strong", "b":
		c.wrap(n, "**")
	case "em", "i":
		c.wrap(n, "_")
	case "code":
		if c.pre {
			c.children(n)
			return
		}
		c.wrap(n, "`")
	case "a":
		c.link(n)
	case "img":
		c.image(n)
	case "pre":
		c.block()
		if c.markdown {
			c.b.WriteString("```\n")
		}
		c.pre = true
		c.children(n)
		c.pre = false
		if c.markdown {
			c.b.WriteString("\n```")
		}
		c.block()
	case "ul", "ol":
		c.block()
		next := -1
		if tag == "ol" {
			next = 1
		}
		c.lists = append(c.lists, next)
		c.children(n)
		c.lists = c.lists[:len(c.lists)-1]
		c.block()
	case "li":
		c.listItem(n)
	case "blockquote":
		c.block()
		if c.markdown {
			c.b.WriteString("> ")
		}
		c.children(n)
		c.block()
	default:
		if isBlockElement(tag) {
			c.block()
			c.children(n)
			c.block()
			return
		}
		c.children(n)
	}
}

func (c *converter) wrap(n *html.Node, marker string) {
	inner := c.inline(n)
	if inner == "" {
		return
	}
	if c.markdown {
		inner = marker + inner + marker
	}
	c.text(inner)
}

func (c *converter) link(n *html.Node) {
	href := attr(n, "href")
	label := c.inline(n)
	switch {
	case href == "":
		c.text(label)
	case label == "" || label == href:
		if c.markdown {
			c.text("<" + href + ">")
		} else {
			c.text(href)
		}
	case c.markdown:
		c.text("[" + label + "](" + href + ")")
	default:
		c.text(label + " (" + href + ")")
	}
}

func (c *converter) image(n *html.Node) {
	src := attr(n, "src")
	alt := attr(n, "alt")
	if src == "" {
		return
	}
	if c.markdown {
		c.text("![" + alt + "](" + src + ")")
		return
	}
	if alt == "" {
		alt = "image"
	}
	c.text("[" + alt + ": " + src + "]")
}

func (c *converter) listItem(n *html.Node) {
	if !c.atLineStart() {
		c.b.WriteString("\n")
	}
	depth := len(c.lists)
	if depth > 0 {
		c.b.WriteString(strings.Repeat("  ", depth-1))
	}
	if depth > 0 && c.lists[depth-1] > 0 {
		c.b.WriteString(strconv.Itoa(c.lists[depth-1]) + ". ")
		c.lists[depth-1]++
	} else {
		c.b.WriteString("- ")
	}
	c.children(n)
	c.b.WriteString("\n")
}

// inline renders the children of n in isolation and returns them trimmed.
func (c *converter) inline(n *html.Node) string {
	sub := &converter{markdown: c.markdown, pre: c.pre}
	sub.children(n)
	return strings.TrimSpace(sub.b.String())
}

func (c *converter) block() {
	s := c.b.String()
	if s == "" || strings.HasSuffix(s, "\n\n") {
		return
	}
	if strings.HasSuffix(s, "\n") {
		c.b.WriteString("\n")
		return
	}
	c.b.WriteString("\n\n")
}

func (c *converter) atLineStart() bool {
	s := c.b.String()
	return s == "" || strings.HasSuffix(s, "\n")
}

func (c *converter) atBreak() bool {
	s := c.b.String()
	return s == "" || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, " ")
}

// collapse squeezes whitespace runs to a single space, keeping one space at
// either end if the input had any there.
func collapse(s string) string {
	core := strings.Join(strings.Fields(s), " ")
	if core == "" {
		if s == "" {
			return ""
		}
		return " "
	}
	if strings.TrimLeft(s, " \t\r\n") != s {
		core = " " + core
	}
	if strings.TrimRight(s, " \t\r\n") != s {
		core += " "
	}
	return core
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// normalize trims trailing spaces, squeezes blank lines and trims the ends.
func normalize(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// isSkippedElement returns true for elements that should be completely removed
func isSkippedElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "iframe", "embed", "object", "svg", "head", "template":
		return true
	}
	return false
}

// isBlockElement returns true for block-level elements
func isBlockElement(tagName string) bool {
	switch tagName {
	case "div", "p", "section", "article", "header", "footer", "nav", "main", "aside",
		"table", "tr", "form", "fieldset", "figure", "figcaption", "dl", "dt", "dd":
		return true
	}
	return false
}
