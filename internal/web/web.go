// Package web holds the HTML templates and static assets of the labeling UI.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var funcs = template.FuncMap{
	"lines": func(spans []string) string { return strings.Join(spans, "\n") },
	// The posting is escaped by the highlighter before markers are inserted.
	"trusted": func(s string) template.HTML { return template.HTML(s) }, //nolint:gosec
}

// Templates parses every embedded page template.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// Static returns the static asset tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
