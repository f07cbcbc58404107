package page

import (
	"path"
	"strings"
)

var slugReplacer = strings.NewReplacer(
	" ", "-",
	"\t", "-",
	"&", "-and-",
	"%", "-percent",
	"?", "",
	"#", "",
)

// Slugify turns a content-relative Markdown path into a page slug: the
// extension is dropped and each segment is made URL safe.
// "notes/Hello World.md" becomes "notes/Hello-World".
func Slugify(relativePath string) string {
	p := strings.TrimPrefix(path.Clean(relativePath), "./")
	ext := path.Ext(p)
	switch strings.ToLower(ext) {
	case ".md", ".markdown", ".html", ".htm":
		p = strings.TrimSuffix(p, ext)
	}
	s := slugifySegments(p)
	if s == "_index" || strings.HasSuffix(s, "/_index") {
		s = strings.TrimSuffix(s, "_index") + "index"
	}
	return s
}

// SlugifyAsset slugifies a non-page file path, keeping its extension.
func SlugifyAsset(relativePath string) string {
	p := strings.TrimPrefix(path.Clean(relativePath), "./")
	ext := path.Ext(p)
	return slugifySegments(strings.TrimSuffix(p, ext)) + ext
}

// SlugifyTag normalizes a tag into a slug path segment list.
func SlugifyTag(tag string) string {
	return slugifySegments(strings.Trim(strings.TrimPrefix(tag, "#"), "/"))
}

func slugifySegments(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = slugReplacer.Replace(s)
	}
	return strings.TrimSuffix(strings.Join(segs, "/"), "/")
}

// IsIndex reports whether slug names a folder index page.
func IsIndex(slug string) bool {
	return slug == "index" || strings.HasSuffix(slug, "/index")
}

// Folder returns the folder a slug lives in, "" for the root.
func Folder(slug string) string {
	dir := path.Dir(slug)
	if dir == "." {
		return ""
	}
	return dir
}

// PathToRoot returns the relative prefix leading from slug to the site
// root, "." for top-level slugs.
func PathToRoot(slug string) string {
	depth := strings.Count(strings.Trim(slug, "/"), "/")
	if depth == 0 {
		return "."
	}
	return strings.TrimSuffix(strings.Repeat("../", depth), "/")
}

// RelativeURL returns the link from the page at fromSlug to target, where
// target is a slug or site-root-relative output path. Index pages link to
// their folder with a trailing slash.
func RelativeURL(fromSlug, target string) string {
	target = strings.TrimPrefix(target, "/")
	if target == "index" {
		target = ""
	} else if strings.HasSuffix(target, "/index") {
		target = strings.TrimSuffix(target, "index")
	}
	rel := path.Join(PathToRoot(fromSlug), target)
	if rel != "." && rel != ".." && !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel + trailingSlash(target)
}

func trailingSlash(target string) string {
	if target == "" || strings.HasSuffix(target, "/") {
		return "/"
	}
	return ""
}

// HTMLPath returns the output artifact path for a page slug.
func HTMLPath(slug string) string {
	return slug + ".html"
}
