// Package web holds the HTML templates for the public pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var files embed.FS

var functions = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("January 2, 2006")
	},
	"lower": func(v interface{}) string {
		return strings.ToLower(fmt.Sprint(v))
	},
}

// Templates parses every page template together with the shared layout.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(functions).ParseFS(files, "templates/*.html")
}
