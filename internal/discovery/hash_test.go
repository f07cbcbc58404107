package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeHash(t *testing.T) {
	a := File{RelativePath: "a.md", IsPage: true, Content: []byte("a")}
	b := File{RelativePath: "b.png", Content: []byte("b")}

	tests := []struct {
		name  string
		left  []File
		right []File
		equal bool
	}{
		{"order independent", []File{a, b}, []File{b, a}, true},
		{"content change", []File{a}, []File{{RelativePath: "a.md", IsPage: true, Content: []byte("changed")}}, false},
		{"rename", []File{a}, []File{{RelativePath: "c.md", IsPage: true, Content: []byte("a")}}, false},
		{"classification", []File{a}, []File{{RelativePath: "a.md", Content: []byte("a")}}, false},
		{"empty sets", nil, []File{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r := ComputeHash(tt.left), ComputeHash(tt.right)
			assert.Len(t, l, 64)
			if tt.equal {
				assert.Equal(t, l, r)
			} else {
				assert.NotEqual(t, l, r)
			}
		})
	}
}
