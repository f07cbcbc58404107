package build

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

func outputsOf(claims ...[2]string) []output {
	out := make([]output, 0, len(claims))
	for _, c := range claims {
		out = append(out, output{artifact: plugin.Artifact{Path: c[1]}, emitter: c[0]})
	}
	return out
}

func TestFindConflicts(t *testing.T) {
	tests := []struct {
		name    string
		outputs []output
		want    []Conflict
	}{
		{
			name:    "disjoint paths",
			outputs: outputsOf([2]string{"A", "a.html"}, [2]string{"B", "notes/a.html"}, [2]string{"B", "notes-x.html"}),
		},
		{
			name:    "duplicate path",
			outputs: outputsOf([2]string{"A", "a.html"}, [2]string{"B", "a.html"}),
			want:    []Conflict{{Path: "a.html", Emitters: []string{"A", "B"}}},
		},
		{
			name:    "file used as directory",
			outputs: outputsOf([2]string{"A", "notes"}, [2]string{"B", "notes/index.html"}),
			want:    []Conflict{{Path: "notes", Emitters: []string{"A", "B"}, Nested: "notes/index.html"}},
		},
		{
			name: "file used as grandparent reports first nested path once",
			outputs: outputsOf(
				[2]string{"A", "tags"},
				[2]string{"B", "tags/x/index.html"},
				[2]string{"B", "tags/a.html"},
			),
			want: []Conflict{{Path: "tags", Emitters: []string{"A", "B"}, Nested: "tags/a.html"}},
		},
		{
			name:    "prefix without separator is not nesting",
			outputs: outputsOf([2]string{"A", "notes"}, [2]string{"B", "notes.html"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findConflicts(tt.outputs))
		})
	}
}
