package markup

import (
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func TestTrim(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"no whitespace", "<p>a</p>", "<p>a</p>"},
		{"between tags", "<div>\n  <p>a</p>\n</div>", "<div><p>a</p></div>"},
		{"outer", "  \n<p>a</p>\n ", "<p>a</p>"},
		{"text spaces kept", "<p>hello world</p>", "<p>hello world</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Trim(tt.in); got != tt.want {
				t.Errorf("Trim(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	nodes, err := Parse("<h1>Title</h1>\n  <p class=\"body\">Body</p>\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Parse() returned %d nodes, want 2", len(nodes))
	}
	if nodes[0].DataAtom != atom.H1 || nodes[1].DataAtom != atom.P {
		t.Errorf("unexpected tags %q, %q", nodes[0].Data, nodes[1].Data)
	}
	for _, n := range nodes {
		if n.Parent != nil {
			t.Errorf("node %q should be parentless", n.Data)
		}
	}
}

func TestRenderRoundTrip(t *testing.T) {
	src := `<div class="card"><span data-field="name">x</span></div>`
	nodes, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	out, err := Render(nodes...)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != src {
		t.Errorf("Render() = %q, want %q", out, src)
	}
}

func TestFindForm(t *testing.T) {
	nodes, _ := Parse(`<div><p>intro</p><form action="/save"><input name="a"></form></div>`)
	form := FindForm(nodes)
	if form == nil {
		t.Fatal("FindForm() returned nil")
	}
	if v, _ := Attr(form, "action"); v != "/save" {
		t.Errorf("form action = %q, want /save", v)
	}

	nodes, _ = Parse(`<div><p>no form here</p></div>`)
	if FindForm(nodes) != nil {
		t.Error("FindForm() should return nil when no form is present")
	}
}

func TestFindAllAndSetText(t *testing.T) {
	nodes, _ := Parse(`<div><b data-field="a">1</b><i data-field="b">2</i><u>3</u></div>`)
	fields := FindAll(nodes, HasAttr("data-field", ""))
	if len(fields) != 2 {
		t.Fatalf("FindAll() = %d nodes, want 2", len(fields))
	}

	SetText(fields[1], "two")
	if got := Text(nodes[0]); got != "1two3" {
		t.Errorf("Text() = %q, want %q", got, "1two3")
	}

	only := Find(nodes, HasAttr("data-field", "a"))
	if only == nil || only.Data != "b" {
		t.Errorf("Find(data-field=a) = %v", only)
	}
}

func TestAttrIgnoresTextNodes(t *testing.T) {
	n := &html.Node{Type: html.TextNode, Data: "x"}
	if HasAttr("data-field", "")(n) {
		t.Error("text nodes never carry attributes")
	}
}
