package transforms

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

var frontmatterThenFilesystem = plugin.Options{"priority": []any{"frontmatter", "filesystem"}}

func TestCreatedModifiedDate_FrontmatterBeforeFilesystem(t *testing.T) {
	mtime := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	pc, _ := newTestContext()

	withDate := page.New("/c/a.md", "a.md", []byte("---\ndate: 2024-01-02\n---\nbody\n"), mtime)
	run(t, pc, withDate, NewFrontMatter, withOptions(NewCreatedModifiedDate, frontmatterThenFilesystem))

	created, ok := withDate.Metadata.Time(page.KeyCreated)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), created)
	published, _ := withDate.Metadata.Time(page.KeyPublished)
	assert.Equal(t, created, published)
	modified, _ := withDate.Metadata.Time(page.KeyModified)
	assert.Equal(t, mtime, modified, "frontmatter has no modified field, filesystem fills it")

	without := page.New("/c/b.md", "b.md", []byte("body\n"), mtime)
	run(t, pc, without, NewFrontMatter, withOptions(NewCreatedModifiedDate, frontmatterThenFilesystem))
	created, ok = without.Metadata.Time(page.KeyCreated)
	require.True(t, ok)
	assert.Equal(t, mtime, created)
	assert.False(t, without.Metadata.Has(page.KeyPublished))
}

func TestCreatedModifiedDate_FilesystemFirstWins(t *testing.T) {
	mtime := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	pc, _ := newTestContext()
	p := page.New("/c/a.md", "a.md", []byte("---\ncreated: 2020-01-01\nlastmod: 2020-02-02\n---\n"), mtime)

	run(t, pc, p, NewFrontMatter, withOptions(NewCreatedModifiedDate, plugin.Options{"priority": []any{"filesystem", "frontmatter"}}))

	created, _ := p.Metadata.Time(page.KeyCreated)
	assert.Equal(t, mtime, created)
}

func TestCreatedModifiedDate_UnparsableFrontmatterDateWarns(t *testing.T) {
	pc, diags := newTestContext()
	p := page.New("/c/a.md", "a.md", []byte("---\ncreated: someday\n---\n"), time.Time{})
	run(t, pc, p, NewFrontMatter, withOptions(NewCreatedModifiedDate, frontmatterThenFilesystem))

	assert.False(t, p.Metadata.Has(page.KeyCreated))
	require.Equal(t, 1, diags.Len())
	assert.Equal(t, ferrors.SeverityWarning, diags.List()[0].Severity)
}

func TestCreatedModifiedDate_Git(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	file := filepath.Join(dir, "note.md")
	first := time.Date(2022, 3, 4, 10, 0, 0, 0, time.UTC)
	second := time.Date(2022, 5, 6, 10, 0, 0, 0, time.UTC)
	commit := func(content string, when time.Time) {
		require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
		_, err := wt.Add("note.md")
		require.NoError(t, err)
		sig := &object.Signature{Name: "Gardener", Email: "garden@example.org", When: when}
		_, err = wt.Commit("update", &git.CommitOptions{Author: sig, Committer: sig})
		require.NoError(t, err)
	}
	commit("one\n", first)
	commit("two\n", second)

	pc, _ := newTestContext()
	pc.ContentDir = dir
	p := page.New(file, "note.md", []byte("two\n"), time.Time{})
	run(t, pc, p, withOptions(NewCreatedModifiedDate, plugin.Options{"priority": []any{"git"}}))

	created, ok := p.Metadata.Time(page.KeyCreated)
	require.True(t, ok)
	assert.True(t, first.Equal(created), "created %v", created)
	modified, _ := p.Metadata.Time(page.KeyModified)
	assert.True(t, second.Equal(modified), "modified %v", modified)
}

func TestCreatedModifiedDate_NoRepositoryLeavesDatesUnset(t *testing.T) {
	pc, _ := newTestContext()
	pc.ContentDir = t.TempDir()
	p := page.New(filepath.Join(pc.ContentDir, "a.md"), "a.md", nil, time.Time{})
	run(t, pc, p, withOptions(NewCreatedModifiedDate, plugin.Options{"priority": []any{"git"}}))
	assert.Empty(t, p.Metadata.Keys())
}

func TestCreatedModifiedDate_InvalidPriority(t *testing.T) {
	_, err := NewCreatedModifiedDate(plugin.Options{"priority": []any{"frontmatter", "mtime"}})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	_, err = NewCreatedModifiedDate(plugin.Options{"priority": []any{}})
	require.Error(t, err)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, in := range []any{"2024-03-05", "2024/03/05", "2024-03-05T00:00:00Z", "2024-03-05T01:00:00+01:00", "March 5, 2024", want} {
		got, err := ParseDate(in)
		require.NoError(t, err, "%v", in)
		assert.True(t, want.Equal(got), "%v", in)
	}
	_, err := ParseDate(42)
	require.Error(t, err)
}
