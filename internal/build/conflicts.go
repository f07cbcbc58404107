package build

import (
	"cmp"
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
)

// Conflict is one artifact path claimed more than once, or a file path
// that another artifact needs as a directory.
type Conflict struct {
	Path string
	// Emitters lists the claimants in configured order. An emitter appears
	// twice when it produced the path twice itself.
	Emitters []string
	// Nested is the first artifact placed below Path when Path is a file.
	Nested string
}

func (c Conflict) String() string {
	if c.Nested != "" {
		return fmt.Sprintf("%s (%s) is a file but %s needs it as a directory",
			c.Path, strings.Join(c.Emitters, ", "), c.Nested)
	}
	return fmt.Sprintf("%s (%s)", c.Path, strings.Join(c.Emitters, ", "))
}

// findConflicts returns every duplicated path and every file path that is
// also a parent directory of another artifact, sorted by path.
func findConflicts(outputs []output) []Conflict {
	claims := make(map[string][]string, len(outputs))
	for _, o := range outputs {
		claims[o.artifact.Path] = append(claims[o.artifact.Path], o.emitter)
	}
	var conflicts []Conflict
	for p, emitters := range claims {
		if len(emitters) > 1 {
			conflicts = append(conflicts, Conflict{Path: p, Emitters: emitters})
		}
	}

	nested := make(map[string]Conflict)
	for _, p := range slices.Sorted(maps.Keys(claims)) {
		for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
			owners, ok := claims[dir]
			if !ok {
				continue
			}
			if _, seen := nested[dir]; !seen {
				nested[dir] = Conflict{
					Path:     dir,
					Emitters: append(slices.Clone(owners), claims[p]...),
					Nested:   p,
				}
			}
		}
	}
	for _, c := range nested {
		conflicts = append(conflicts, c)
	}

	slices.SortFunc(conflicts, func(a, b Conflict) int {
		return cmp.Or(strings.Compare(a.Path, b.Path), strings.Compare(a.Nested, b.Nested))
	})
	return conflicts
}

// checkConflicts fails with a fatal conflict error naming every duplicated
// path. It runs before anything is written.
func checkConflicts(outputs []output) error {
	conflicts := findConflicts(outputs)
	if len(conflicts) == 0 {
		return nil
	}
	described := make([]string, len(conflicts))
	for i, c := range conflicts {
		described[i] = c.String()
	}
	return ferrors.WrapError(fmt.Errorf("%w: %s", ErrConflict, strings.Join(described, "; ")),
		ferrors.CategoryConflict, "duplicate artifact paths").
		Fatal().
		WithContext("conflicts", len(conflicts)).
		WithContext("first", conflicts[0].Path).
		Build()
}
