package transforms

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

// Date sources accepted by CreatedModifiedDate.
const (
	SourceFrontmatter = "frontmatter"
	SourceGit         = "git"
	SourceFilesystem  = "filesystem"
)

// CreatedModifiedDateOptions configures CreatedModifiedDate.
type CreatedModifiedDateOptions struct {
	Priority []string `yaml:"priority"`
}

// CreatedModifiedDate sets created, modified and published dates. For each
// date the first source in priority order that yields a value wins. Dates
// no source provides stay unset.
type CreatedModifiedDate struct {
	opts CreatedModifiedDateOptions

	repoOnce sync.Once
	repo     *git.Repository
	repoRoot string
	repoErr  error

	mu    sync.Mutex
	cache map[string]gitDates
}

type gitDates struct {
	first time.Time
	last  time.Time
}

type pageDates struct {
	created, modified, published time.Time
}

func defaultCreatedModifiedDateOptions() CreatedModifiedDateOptions {
	return CreatedModifiedDateOptions{Priority: []string{SourceFrontmatter, SourceGit, SourceFilesystem}}
}

// NewCreatedModifiedDate builds the transformer from raw options.
func NewCreatedModifiedDate(raw plugin.Options) (plugin.Plugin, error) {
	opts := defaultCreatedModifiedDateOptions()
	if err := raw.Decode("CreatedModifiedDate", &opts); err != nil {
		return nil, err
	}
	if len(opts.Priority) == 0 {
		return nil, plugin.InvalidOption("CreatedModifiedDate", "priority", "priority must list at least one source")
	}
	for _, src := range opts.Priority {
		if err := plugin.Enum("CreatedModifiedDate", "priority", src, SourceFrontmatter, SourceGit, SourceFilesystem); err != nil {
			return nil, err
		}
	}
	return &CreatedModifiedDate{opts: opts, cache: make(map[string]gitDates)}, nil
}

// CreatedModifiedDateRegistration registers CreatedModifiedDate.
func CreatedModifiedDateRegistration() plugin.Registration {
	return plugin.Registration{
		Name:        "CreatedModifiedDate",
		Stage:       plugin.StageTransformer,
		Description: "Derives created, modified and published dates",
		Defaults:    func() any { return defaultCreatedModifiedDateOptions() },
		New:         NewCreatedModifiedDate,
	}
}

func (c *CreatedModifiedDate) Name() string { return "CreatedModifiedDate" }

func (c *CreatedModifiedDate) Transform(pc *plugin.Context, p *page.Page) error {
	var d pageDates
	for _, src := range c.opts.Priority {
		switch src {
		case SourceFrontmatter:
			c.fromFrontmatter(pc, p, &d)
		case SourceFilesystem:
			if !p.ModTime.IsZero() {
				fill(&d.created, p.ModTime.UTC())
				fill(&d.modified, p.ModTime.UTC())
			}
		case SourceGit:
			gd, ok := c.gitDates(pc, p)
			if ok {
				fill(&d.created, gd.first)
				fill(&d.modified, gd.last)
			}
		}
	}

	set := func(key string, t time.Time) {
		if !t.IsZero() {
			p.Metadata.Set(key, t)
		}
	}
	set(page.KeyCreated, d.created)
	set(page.KeyModified, d.modified)
	set(page.KeyPublished, d.published)
	return nil
}

func (c *CreatedModifiedDate) fromFrontmatter(pc *plugin.Context, p *page.Page, d *pageDates) {
	fm, _ := p.Metadata.Get(page.KeyFrontmatter)
	fields, ok := fm.(map[string]any)
	if !ok {
		return
	}
	pick := func(dst *time.Time, keys ...string) {
		for _, k := range keys {
			v, ok := fields[k]
			if !ok || v == nil {
				continue
			}
			t, err := ParseDate(v)
			if err != nil {
				pc.Warn(p, "ignoring frontmatter %s: %v", k, err)
				continue
			}
			fill(dst, t)
			return
		}
	}
	pick(&d.created, "created", "date")
	pick(&d.modified, "modified", "lastmod", "updated", "last-modified")
	pick(&d.published, "published", "publishDate", "date")
}

// gitDates returns the first and last commit times touching the page.
// Results are cached per page path for the lifetime of the instance.
func (c *CreatedModifiedDate) gitDates(pc *plugin.Context, p *page.Page) (gitDates, bool) {
	c.repoOnce.Do(func() { c.openRepo(pc.ContentDir) })
	if c.repoErr != nil {
		return gitDates{}, false
	}

	c.mu.Lock()
	if gd, ok := c.cache[p.FilePath]; ok {
		c.mu.Unlock()
		return gd, !gd.last.IsZero()
	}
	c.mu.Unlock()

	gd, err := c.lookup(p.FilePath)
	if err != nil {
		pc.Logger.Debug("git dates unavailable", "page", p.RelativePath, "error", err)
	}

	c.mu.Lock()
	c.cache[p.FilePath] = gd
	c.mu.Unlock()
	return gd, !gd.last.IsZero()
}

func (c *CreatedModifiedDate) openRepo(dir string) {
	if dir == "" {
		c.repoErr = errors.New("no content directory")
		return
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		c.repoErr = err
		return
	}
	wt, err := repo.Worktree()
	if err != nil {
		c.repoErr = err
		return
	}
	root, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		c.repoErr = err
		return
	}
	c.repo = repo
	c.repoRoot = root
}

func (c *CreatedModifiedDate) lookup(filePath string) (gitDates, error) {
	abs, err := filepath.EvalSymlinks(filePath)
	if err != nil {
		return gitDates{}, err
	}
	rel, err := filepath.Rel(c.repoRoot, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return gitDates{}, errors.New("file is outside the repository")
	}
	rel = filepath.ToSlash(rel)

	// go-git repositories are not safe for concurrent log walks.
	c.mu.Lock()
	defer c.mu.Unlock()

	iter, err := c.repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return gitDates{}, err
	}
	defer iter.Close()

	var gd gitDates
	err = iter.ForEach(func(commit *object.Commit) error {
		when := commit.Committer.When.UTC()
		if gd.last.IsZero() || when.After(gd.last) {
			gd.last = when
		}
		if gd.first.IsZero() || when.Before(gd.first) {
			gd.first = when
		}
		return nil
	})
	return gd, err
}

func fill(dst *time.Time, t time.Time) {
	if dst.IsZero() && !t.IsZero() {
		*dst = t
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate converts a frontmatter value into a UTC time. YAML dates
// arrive as strings or time.Time values.
func ParseDate(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
	default:
		return time.Time{}, errors.New("date must be a string")
	}
}
