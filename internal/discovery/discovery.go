// Package discovery finds the pages and assets below a content directory.
package discovery

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"git.home.luguber.info/inful/sitegarden/internal/logfields"
)

// File is a discovered page or asset.
type File struct {
	Path         string    // Absolute path to the file
	RelativePath string    // Slash-separated path relative to the content directory
	ModTime      time.Time // Filesystem modification time
	IsPage       bool      // Markdown (or, when enabled, HTML) source page
	IsHTML       bool      // Page source is HTML and is converted on load
	Content      []byte    // File content (loaded on demand)
}

// Options tune discovery.
type Options struct {
	// IgnorePatterns exclude files and whole directories.
	IgnorePatterns []string
	// HTMLPages treats .html and .htm files as pages, converted to Markdown
	// on load, instead of assets.
	HTMLPages bool
}

// Discovery walks a content directory.
type Discovery struct {
	contentDir string
	ignore     *Matcher
	htmlPages  bool
	logger     *slog.Logger
}

// New creates a discovery instance for contentDir.
func New(contentDir string, opts Options, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{
		contentDir: contentDir,
		ignore:     NewMatcher(opts.IgnorePatterns),
		htmlPages:  opts.HTMLPages,
		logger:     logger,
	}
}

// Discover returns every non-ignored, non-hidden file sorted by relative
// path.
func (d *Discovery) Discover() ([]File, error) {
	info, err := os.Stat(d.contentDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrContentDirNotFound, d.contentDir)
	}

	var files []File
	ignored := 0
	err = filepath.WalkDir(d.contentDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == d.contentDir {
			return nil
		}

		relPath, err := filepath.Rel(d.contentDir, path)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRelativePath, err)
		}
		rel := filepath.ToSlash(relPath)

		// Hidden files and directories (.git, .obsidian) are never content.
		if strings.HasPrefix(entry.Name(), ".") || d.ignore.Match(rel) {
			ignored++
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}

		fi, err := entry.Info()
		if err != nil {
			return err
		}
		f := File{
			Path:         path,
			RelativePath: rel,
			ModTime:      fi.ModTime(),
		}
		switch {
		case isMarkdownFile(rel):
			f.IsPage = true
		case d.htmlPages && isHTMLFile(rel):
			f.IsPage = true
			f.IsHTML = true
		}
		files = append(files, f)

		fileType := "asset"
		if f.IsPage {
			fileType = "page"
		}
		d.logger.Debug("Discovered file", logfields.Path(rel), slog.String("type", fileType))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWalkFailed, d.contentDir, err)
	}

	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.RelativePath, b.RelativePath) })
	d.logger.Info("Content discovered",
		logfields.Path(d.contentDir),
		slog.Int("files", len(files)),
		slog.Int("ignored", ignored))
	return files, nil
}

// LoadContent loads the content of a file. HTML pages are converted to
// Markdown.
func (f *File) LoadContent() error {
	if f.Content != nil {
		return nil // Already loaded
	}

	content, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileReadFailed, f.Path, err)
	}
	if f.IsHTML {
		md, err := htmltomarkdown.ConvertString(string(content))
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrHTMLConversionFailed, f.Path, err)
		}
		content = []byte(md)
	}

	f.Content = content
	return nil
}

// Pages returns the page files of files, in order.
func Pages(files []File) []File {
	var out []File
	for _, f := range files {
		if f.IsPage {
			out = append(out, f)
		}
	}
	return out
}

// Assets returns the relative paths of the non-page files, in order.
func Assets(files []File) []string {
	var out []string
	for _, f := range files {
		if !f.IsPage {
			out = append(out, f.RelativePath)
		}
	}
	return out
}

func isMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown"
}

func isHTMLFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".html" || ext == ".htm"
}
