// Package style compiles stylesheet text into a sheet a component scope can
// adopt.
package style

import (
	"errors"
	"fmt"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// ErrInvalid is returned for stylesheet text the parser rejects.
var ErrInvalid = errors.New("style: invalid stylesheet")

// Sheet is a compiled stylesheet.
type Sheet struct {
	source string
	parsed *css.Stylesheet
}

// Compile parses text into a Sheet.
//
// Browsers accept more CSS than the parser understands (@layer, nesting),
// so text the parser rejects still yields a Sheet that renders its source
// unchanged. The returned error wraps ErrInvalid in that case and is only
// worth a warning.
func Compile(text string) (*Sheet, error) {
	parsed, err := parser.Parse(text)
	if err != nil {
		return &Sheet{source: text}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &Sheet{source: text, parsed: parsed}, nil
}

// Source returns the text the sheet was compiled from.
func (s *Sheet) Source() string {
	return s.source
}

// Parsed reports whether the parser understood the source.
func (s *Sheet) Parsed() bool {
	return s.parsed != nil
}

// Rules returns the number of top-level rules, zero for an unparsed sheet.
func (s *Sheet) Rules() int {
	if s.parsed == nil {
		return 0
	}
	return len(s.parsed.Rules)
}

// Selectors returns the selectors of every qualified top-level rule.
func (s *Sheet) Selectors() []string {
	if s.parsed == nil {
		return nil
	}
	var out []string
	for _, r := range s.parsed.Rules {
		out = append(out, r.Selectors...)
	}
	return out
}

// String returns the normalized stylesheet text, or the source when the
// sheet is unparsed.
func (s *Sheet) String() string {
	if s.parsed == nil {
		return s.source
	}
	return s.parsed.String()
}
