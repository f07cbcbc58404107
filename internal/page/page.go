package page

import (
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/sitegarden/internal/markdown"
)

// TOCEntry is one heading listed in a page's table of contents.
type TOCEntry struct {
	Depth int    `json:"depth" yaml:"depth"`
	Text  string `json:"text" yaml:"text"`
	Slug  string `json:"slug" yaml:"slug"`
}

// Page is one content unit: a source file plus the metadata transformers
// derive from it.
type Page struct {
	// FilePath is the absolute path of the source file.
	FilePath string
	// RelativePath is the slash-separated path below the content directory.
	RelativePath string
	// Slug is the output path of the page without extension.
	Slug    string
	ModTime time.Time
	// Raw holds the original file bytes, frontmatter included.
	Raw      []byte
	Metadata *Metadata

	mu     sync.Mutex
	body   []byte
	mdOpts markdown.Options
	tree   gmast.Node
	treeOf markdown.Options
}

// New creates a page whose body is the full raw content. The FrontMatter
// transformer later strips the frontmatter block from the body.
func New(filePath, relativePath string, raw []byte, modTime time.Time) *Page {
	rel := path.Clean(strings.ReplaceAll(relativePath, "\\", "/"))
	return &Page{
		FilePath:     filePath,
		RelativePath: rel,
		Slug:         Slugify(rel),
		ModTime:      modTime,
		Raw:          raw,
		Metadata:     NewMetadata(),
		body:         slices.Clone(raw),
	}
}

// Body returns the current Markdown body. Callers must not modify it.
func (p *Page) Body() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.body
}

// SetBody replaces the Markdown body and drops the parsed tree.
func (p *Page) SetBody(body []byte) {
	p.mustBeMutable()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.body = body
	p.tree = nil
}

// Markdown returns the goldmark options the page renders with.
func (p *Page) Markdown() markdown.Options {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mdOpts
}

// ConfigureMarkdown lets a transformer switch goldmark features on or off.
func (p *Page) ConfigureMarkdown(fn func(*markdown.Options)) {
	p.mustBeMutable()
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.mdOpts)
}

// Tree returns the parsed content tree, parsing lazily. The tree is
// re-parsed when the body or the markdown options changed since the last call.
func (p *Page) Tree() gmast.Node {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree == nil || p.treeOf != p.mdOpts {
		p.tree = markdown.Parse(p.body, p.mdOpts)
		p.treeOf = p.mdOpts
	}
	return p.tree
}

// RenderHTML renders the body to HTML with the page's markdown options.
func (p *Page) RenderHTML() ([]byte, error) {
	doc := p.Tree()
	p.mu.Lock()
	defer p.mu.Unlock()
	return markdown.RenderHTML(p.body, doc, p.mdOpts)
}

// Title returns the title metadata, falling back to the file name.
func (p *Page) Title() string {
	if t := p.Metadata.String(KeyTitle); t != "" {
		return t
	}
	base := path.Base(p.RelativePath)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Tags returns the page tags.
func (p *Page) Tags() []string {
	return p.Metadata.Strings(KeyTags)
}

// Date returns the date selected by dateType (created, modified or published).
func (p *Page) Date(dateType string) (time.Time, bool) {
	return p.Metadata.Time(dateType)
}

// Freeze makes the page read-only for the emitter stage.
func (p *Page) Freeze() {
	p.Metadata.Freeze()
}

// Frozen reports whether the page is read-only.
func (p *Page) Frozen() bool {
	return p.Metadata.Frozen()
}

func (p *Page) mustBeMutable() {
	if p.Metadata.Frozen() {
		panic(ErrFrozen)
	}
}
