package style

import (
	"errors"
	"strings"
	"testing"
)

func TestCompile(t *testing.T) {
	sheet, err := Compile("span { font-weight: 800 }\n.card h1 { color: red; margin: 0 }")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if sheet.Rules() != 2 {
		t.Errorf("Rules() = %d, want 2", sheet.Rules())
	}

	selectors := sheet.Selectors()
	if len(selectors) != 2 || selectors[0] != "span" || selectors[1] != ".card h1" {
		t.Errorf("Selectors() = %v", selectors)
	}

	if !strings.Contains(sheet.String(), "font-weight: 800") {
		t.Errorf("String() = %q, want normalized declarations", sheet.String())
	}

	if !strings.HasPrefix(sheet.Source(), "span {") {
		t.Errorf("Source() = %q", sheet.Source())
	}
}

func TestCompileEmpty(t *testing.T) {
	sheet, err := Compile("")
	if err != nil {
		t.Fatalf("Compile(\"\") error = %v", err)
	}
	if sheet.Rules() != 0 {
		t.Errorf("Rules() = %d, want 0", sheet.Rules())
	}
}

func TestCompileKeepsUnparsedSource(t *testing.T) {
	sources := []string{
		"@layer base { span { font-weight: 800 } }",
		".card { &:hover { color: red } }",
		"span { font-weight: 800;; }",
	}

	for _, src := range sources {
		sheet, err := Compile(src)
		if sheet == nil {
			t.Fatalf("Compile(%q) returned no sheet", src)
		}
		if sheet.Source() != src {
			t.Errorf("Source() = %q, want %q", sheet.Source(), src)
		}
		if err != nil {
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Compile(%q) error = %v, want ErrInvalid", src, err)
			}
			if sheet.Parsed() || sheet.String() != src || sheet.Rules() != 0 {
				t.Errorf("unparsed sheet: Parsed=%v String=%q Rules=%d", sheet.Parsed(), sheet.String(), sheet.Rules())
			}
		}
	}
}
