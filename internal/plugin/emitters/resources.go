package emitters

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"git.home.luguber.info/inful/sitegarden/internal/config"
	"git.home.luguber.info/inful/sitegarden/internal/page"
	"git.home.luguber.info/inful/sitegarden/internal/plugin"
)

//go:embed resources/base.css
var baseCSS string

//go:embed resources/prescript.js
var prescriptJS string

//go:embed resources/postscript.js
var postscriptJS string

// ComponentResources writes the site stylesheet and scripts: index.css
// with the theme tokens, prescript.js and postscript.js with the client
// settings and analytics loader.
type ComponentResources struct{}

// NewComponentResources builds the emitter. It accepts no options.
func NewComponentResources(raw plugin.Options) (plugin.Plugin, error) {
	var none struct{}
	if err := raw.Decode("ComponentResources", &none); err != nil {
		return nil, err
	}
	return ComponentResources{}, nil
}

func (ComponentResources) Name() string { return "ComponentResources" }

func (ComponentResources) Emit(pc *plugin.Context, _ []*page.Page) ([]plugin.Artifact, error) {
	s := site(pc)
	if s.Theme.FontOrigin == config.FontOriginGoogle && !s.Theme.CDNCaching {
		pc.Warn(nil, "self-hosted Google fonts are not supported, loading them from the Google CDN")
	}
	post, err := postscript(s)
	if err != nil {
		return nil, err
	}
	return []plugin.Artifact{
		{Path: "index.css", Content: []byte(stylesheet(s.Theme))},
		{Path: "prescript.js", Content: []byte(prescriptJS)},
		{Path: "postscript.js", Content: post},
	}, nil
}

// stylesheet renders the theme tokens as CSS variables ahead of the base
// stylesheet.
func stylesheet(t config.ThemeConfig) string {
	var b strings.Builder
	if t.FontOrigin == config.FontOriginGoogle {
		fmt.Fprintf(&b, "@import url(\"%s\");\n\n", googleFontsURL(t.Typography))
	}
	b.WriteString(":root {\n")
	writeScheme(&b, t.Colors.LightMode)
	fmt.Fprintf(&b, "  --headerFont: \"%s\", system-ui, sans-serif;\n", t.Typography.Header)
	fmt.Fprintf(&b, "  --bodyFont: \"%s\", system-ui, sans-serif;\n", t.Typography.Body)
	fmt.Fprintf(&b, "  --codeFont: \"%s\", ui-monospace, monospace;\n", t.Typography.Code)
	b.WriteString("}\n\n:root[saved-theme=\"dark\"] {\n")
	writeScheme(&b, t.Colors.DarkMode)
	b.WriteString("}\n\n")
	b.WriteString(baseCSS)
	return b.String()
}

var schemeTokens = []string{"light", "lightgray", "gray", "darkgray", "dark", "secondary", "tertiary", "highlight"}

func writeScheme(b *strings.Builder, c config.ColorScheme) {
	tokens := c.Tokens()
	for _, name := range schemeTokens {
		fmt.Fprintf(b, "  --%s: %s;\n", name, tokens[name])
	}
}

func googleFontsURL(t config.Typography) string {
	families := []string{
		t.Header + ":wght@400;700",
		t.Body + ":ital,wght@0,400;0,600;1,400;1,600",
		t.Code + ":wght@400;600",
	}
	q := make([]string, 0, len(families))
	for _, f := range families {
		q = append(q, "family="+strings.ReplaceAll(f, " ", "+"))
	}
	return "https://fonts.googleapis.com/css2?" + strings.Join(q, "&") + "&display=swap"
}

type clientSettings struct {
	PageTitle      string `json:"pageTitle"`
	EnableSPA      bool   `json:"enableSPA"`
	EnablePopovers bool   `json:"enablePopovers"`
	Locale         string `json:"locale"`
	BaseURL        string `json:"baseUrl,omitempty"`
}

func postscript(s config.SiteConfig) ([]byte, error) {
	settings, err := json.Marshal(clientSettings{
		PageTitle:      s.PageTitle,
		EnableSPA:      s.EnableSPA,
		EnablePopovers: s.EnablePopovers,
		Locale:         s.Locale,
		BaseURL:        s.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "window.sitegarden = %s;\n", settings)
	b.WriteString(postscriptJS)
	if s.Analytics != nil {
		b.WriteString(analyticsScript(s))
	}
	return []byte(b.String()), nil
}

// analyticsScript returns a loader that injects the provider's tracking
// script.
func analyticsScript(s config.SiteConfig) string {
	a := s.Analytics
	var src string
	attrs := map[string]string{}
	switch a.Provider {
	case config.AnalyticsPlausible:
		src = strings.TrimRight(orDefault(a.Host, "https://plausible.io"), "/") + "/js/script.js"
		if host, _, _ := strings.Cut(s.BaseURL, "/"); host != "" {
			attrs["data-domain"] = host
		}
	case config.AnalyticsGoogle:
		src = "https://www.googletagmanager.com/gtag/js?id=" + url.QueryEscape(a.TagID)
	case config.AnalyticsUmami:
		src = strings.TrimRight(orDefault(a.Host, "https://analytics.umami.is"), "/") + "/script.js"
		attrs["data-website-id"] = a.WebsiteID
	default:
		return ""
	}

	var b strings.Builder
	b.WriteString("(function () {\n  var s = document.createElement(\"script\");\n")
	fmt.Fprintf(&b, "  s.src = %q;\n  s.async = true;\n", src)
	for _, k := range []string{"data-domain", "data-website-id"} {
		if v, ok := attrs[k]; ok {
			fmt.Fprintf(&b, "  s.setAttribute(%q, %q);\n", k, v)
		}
	}
	b.WriteString("  document.head.appendChild(s);\n")
	if a.Provider == config.AnalyticsGoogle {
		fmt.Fprintf(&b, "  window.dataLayer = window.dataLayer || [];\n  function gtag() { dataLayer.push(arguments); }\n  gtag(\"js\", new Date());\n  gtag(\"config\", %q);\n", a.TagID)
	}
	b.WriteString("})();\n")
	return b.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
