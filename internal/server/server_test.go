package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegarden/internal/build"
	"git.home.luguber.info/inful/sitegarden/internal/metrics"
)

func siteRoot(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func get(t *testing.T, h http.Handler, target string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestSiteRoutes(t *testing.T) {
	root := siteRoot(t, map[string]string{
		"index.html":        "home",
		"notes/a.html":      "note a",
		"notes/index.html":  "notes folder",
		"tags/index.html":   "all tags",
		"static/icon.svg":   "<svg/>",
		"404.html":          "missing",
		"notes/img/cat.png": "png",
	})
	s := NewServer(":0", root, nil, nil)

	tests := []struct {
		target string
		code   int
		body   string
	}{
		{"/", http.StatusOK, "home"},
		{"/notes/a", http.StatusOK, "note a"},
		{"/notes/", http.StatusOK, "notes folder"},
		{"/notes", http.StatusOK, "notes folder"},
		{"/tags/", http.StatusOK, "all tags"},
		{"/static/icon.svg", http.StatusOK, "<svg/>"},
		{"/notes/img/cat.png", http.StatusOK, "png"},
		{"/nope", http.StatusNotFound, "missing"},
		{"/../../etc/passwd", http.StatusNotFound, "missing"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			code, body := get(t, s.Handler(), tt.target)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestNotFoundWithoutPage(t *testing.T) {
	s := NewServer(":0", siteRoot(t, map[string]string{"index.html": "home"}), nil, nil)
	code, body := get(t, s.Handler(), "/missing")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, "404 page not found")
}

func TestHealth(t *testing.T) {
	s := NewServer(":0", t.TempDir(), nil, nil)

	code, body := get(t, s.Handler(), "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"healthy"}`, body)

	s.SetResult(&build.Result{
		BuildID:     "b-1",
		Status:      build.StatusWarning,
		Published:   2,
		Artifacts:   []build.ArtifactInfo{{Path: "index.html"}},
		ContentHash: "abc",
	})
	_, body = get(t, s.Handler(), "/health")
	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotNil(t, resp.Build)
	assert.Equal(t, buildInfo{ID: "b-1", Status: "warning", Pages: 2, Artifacts: 1, ContentHash: "abc"}, *resp.Build)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prom.NewRegistry()
	metrics.NewPrometheusRecorder(reg).IncBuildOutcome(metrics.OutcomeSuccess)

	withMetrics := NewServer(":0", t.TempDir(), reg, nil)
	code, body := get(t, withMetrics.Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "sitegarden_build_outcomes_total")

	without := NewServer(":0", siteRoot(t, map[string]string{"404.html": "missing"}), nil, nil)
	code, _ = get(t, without.Handler(), "/metrics")
	assert.Equal(t, http.StatusNotFound, code)
}
