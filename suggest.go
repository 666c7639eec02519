package lieutenant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// suggestDistance is the largest edit distance still treated as a typo.
const suggestDistance = 2

// Suggest returns up to three defined element names close to name, closest
// first.
func (reg *Registry) Suggest(name string) []string {
	return Suggest(name, reg.Names())
}

// Suggest returns up to three of candidates within a small edit distance of
// name, closest first.
func Suggest(name string, candidates []string) []string {
	type match struct {
		name string
		dist int
	}

	var matches []match
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(strings.ToLower(name), c); d <= suggestDistance {
			matches = append(matches, match{c, d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })

	var out []string
	for i := 0; i < len(matches) && i < 3; i++ {
		out = append(out, matches[i].name)
	}
	return out
}

func (reg *Registry) unknown(name string) error {
	if s := reg.Suggest(name); len(s) > 0 {
		return fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownElement, name, s[0])
	}
	return fmt.Errorf("%w: %q", ErrUnknownElement, name)
}
