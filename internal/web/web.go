// Package web holds the dashboard's HTML templates.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"pct": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// Templates parses every page; each file is registered under its base name.
func Templates() (*template.Template, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}
