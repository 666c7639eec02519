package lieutenant

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/pthm/lieutenant/lib/markup"
	"github.com/pthm/lieutenant/lib/style"
)

// Scope is the isolated output of one instance: a node tree and the
// stylesheets adopted for it. It is the server-side counterpart of a shadow
// root.
//
// A Scope is owned by its Instance. Hooks reach it only through
// Instance.Update, which holds the instance lock.
type Scope struct {
	root   *html.Node
	sheets []*style.Sheet
}

func newScope() *Scope {
	return &Scope{root: &html.Node{Type: html.DocumentNode}}
}

// Adopt appends a stylesheet.
func (s *Scope) Adopt(sheet *style.Sheet) {
	s.sheets = append(s.sheets, sheet)
}

// Stylesheets returns the adopted stylesheets in order.
func (s *Scope) Stylesheets() []*style.Sheet {
	return append([]*style.Sheet(nil), s.sheets...)
}

// Append adds parentless nodes at the end of the scope.
func (s *Scope) Append(nodes ...*html.Node) {
	for _, n := range nodes {
		s.root.AppendChild(n)
	}
}

// Remove detaches the given top-level nodes. Nodes the scope does not hold
// are ignored.
func (s *Scope) Remove(nodes ...*html.Node) {
	for _, n := range nodes {
		if n.Parent == s.root {
			s.root.RemoveChild(n)
		}
	}
}

// Detach removes every top-level node and returns them in order, ready to
// be appended again.
func (s *Scope) Detach() []*html.Node {
	var out []*html.Node
	for c := s.root.FirstChild; c != nil; {
		next := c.NextSibling
		s.root.RemoveChild(c)
		out = append(out, c)
		c = next
	}
	return out
}

// Nodes returns the top-level nodes in order.
func (s *Scope) Nodes() []*html.Node {
	var out []*html.Node
	for c := s.root.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Find returns the first node in the scope matching fn.
func (s *Scope) Find(fn func(*html.Node) bool) *html.Node {
	return markup.Find(s.Nodes(), fn)
}

// FindAll returns every node in the scope matching fn.
func (s *Scope) FindAll(fn func(*html.Node) bool) []*html.Node {
	return markup.FindAll(s.Nodes(), fn)
}

// HTML serializes the nodes, without stylesheets.
func (s *Scope) HTML() string {
	out, err := markup.Render(s.Nodes()...)
	if err != nil {
		return ""
	}
	return out
}

// Render writes the stylesheets as <style> elements followed by the nodes.
func (s *Scope) Render(w io.Writer) error {
	var buf bytes.Buffer
	for _, sheet := range s.sheets {
		buf.WriteString("<style>")
		buf.WriteString(strings.ReplaceAll(sheet.String(), "</", `<\/`))
		buf.WriteString("</style>")
	}
	for c := s.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return err
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}
