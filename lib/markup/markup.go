// Package markup turns component markup text into html nodes and back.
//
// Content and form resources are trimmed of inter-tag whitespace before
// parsing, so indentation in a template file never becomes text nodes in
// the rendered component.
package markup

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var interTag = regexp.MustCompile(`>\s+<`)

// Trim removes whitespace between tags and around the whole text.
func Trim(text string) string {
	return strings.TrimSpace(interTag.ReplaceAllString(text, "><"))
}

// Parse trims text and parses it as a body fragment.
// The returned nodes are parentless and may be appended anywhere.
func Parse(text string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(Trim(text)), body)
}

// Render serializes nodes in order.
func Render(nodes ...*html.Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Find returns the first node, in document order, for which match is true.
func Find(nodes []*html.Node, match func(*html.Node) bool) *html.Node {
	for _, n := range nodes {
		if found := find(n, match); found != nil {
			return found
		}
	}
	return nil
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every matching node in document order.
func FindAll(nodes []*html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out
}

// FindForm returns the first <form> element, or nil.
func FindForm(nodes []*html.Node) *html.Node {
	return Find(nodes, IsElement(atom.Form))
}

// IsElement matches element nodes of the given tag.
func IsElement(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == a
	}
}

// HasAttr matches element nodes carrying key, with any value when value is
// empty.
func HasAttr(key, value string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		v, ok := Attr(n, key)
		return ok && (value == "" || v == value)
	}
}

// Attr returns the value of an attribute on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetText replaces all children of n with a single text node.
func SetText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(Text(c))
	}
	return sb.String()
}
