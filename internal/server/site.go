package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// siteHandler resolves pretty URLs the way the generated links expect:
// "/notes/a" serves notes/a.html, "/notes/" serves notes/index.html and
// anything missing gets 404.html with status 404.
type siteHandler struct {
	root string
}

func newSiteHandler(root string) *siteHandler {
	return &siteHandler{root: root}
}

func (h *siteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if file, ok := h.resolve(r.URL.Path); ok {
		http.ServeFile(w, r, file)
		return
	}
	h.notFound(w, r)
}

// resolve maps a URL path to a file below root.
func (h *siteHandler) resolve(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	rel := strings.TrimPrefix(clean, "/")

	var candidates []string
	switch {
	case strings.HasSuffix(urlPath, "/") || rel == "":
		candidates = []string{path.Join(rel, "index.html")}
	case path.Ext(rel) == "":
		candidates = []string{rel + ".html", path.Join(rel, "index.html")}
	default:
		candidates = []string{rel}
	}

	for _, c := range candidates {
		full := filepath.Join(h.root, filepath.FromSlash(c))
		if st, err := os.Stat(full); err == nil && !st.IsDir() {
			return full, true
		}
	}
	return "", false
}

func (h *siteHandler) notFound(w http.ResponseWriter, _ *http.Request) {
	body, err := os.ReadFile(filepath.Join(h.root, "404.html"))
	if err != nil {
		http.Error(w, "404 page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(body)
}
