package markdown

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func proseText(src string, opts ScanOptions) []string {
	var out []string
	for _, s := range ProseSegments([]byte(src), opts) {
		out = append(out, src[s.Start:s.End])
	}
	return out
}

func TestProseSegments_SkipsFencedCode(t *testing.T) {
	src := "before $x$\n```go\nx := \"$y$\"\n```\nafter\n"

	segs := proseText(src, ScanOptions{})
	require.Equal(t, []string{"before $x$\n", "after\n"}, segs)
}

func TestProseSegments_TildeFenceNeedsMatchingCloser(t *testing.T) {
	src := "~~~~\n```\nstill code\n~~~~\nprose\n"

	segs := proseText(src, ScanOptions{})
	require.Equal(t, []string{"prose\n"}, segs)
}

func TestProseSegments_SkipsInlineCodeSpans(t *testing.T) {
	src := "use `==x==` or ``a ` b`` here"

	segs := proseText(src, ScanOptions{})
	require.Equal(t, []string{"use ", " or ", " here"}, segs)
}

func TestProseSegments_UnmatchedBacktickIsText(t *testing.T) {
	segs := proseText("a ` b", ScanOptions{})
	require.Equal(t, []string{"a ` b"}, segs)
}

func TestProseSegments_SkipsIndentedCodeAfterBlankLine(t *testing.T) {
	src := "para\n    continuation\n\n    code line\n\nnext\n"

	segs := strings.Join(proseText(src, ScanOptions{}), "")
	require.Contains(t, segs, "    continuation")
	require.NotContains(t, segs, "code line")
	require.Contains(t, segs, "next")
}

func TestProseSegments_HTMLBlocks(t *testing.T) {
	src := "text\n\n<div>\n[[link]]\n</div>\n\nmore\n"

	with := strings.Join(proseText(src, ScanOptions{}), "")
	require.Contains(t, with, "[[link]]")

	without := strings.Join(proseText(src, ScanOptions{SkipHTML: true}), "")
	require.NotContains(t, without, "[[link]]")
	require.Contains(t, without, "more")
}

func TestProseSegments_MultilineBlockStaysContiguous(t *testing.T) {
	src := "$$\na + b\n$$\n"
	segs := proseText(src, ScanOptions{})
	require.Equal(t, []string{src}, segs)
}

func TestRewriteProse(t *testing.T) {
	re := regexp.MustCompile(`==([^=]+)==`)
	src := []byte("==a== and `==b==`\n```\n==c==\n```\n")

	out, err := RewriteProse(src, ScanOptions{}, func(seg []byte, offset int) []Edit {
		var edits []Edit
		for _, m := range re.FindAllSubmatchIndex(seg, -1) {
			edits = append(edits, Replace(offset+m[0], offset+m[1], "<mark>"+string(seg[m[2]:m[3]])+"</mark>"))
		}
		return edits
	})
	require.NoError(t, err)
	require.Equal(t, "<mark>a</mark> and `==b==`\n```\n==c==\n```\n", string(out))
}
