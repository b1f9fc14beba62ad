// Package templates embeds the HTML pages. Each page is parsed together with
// its layout so pages can define their own "title" and "content" blocks.
package templates

import (
	"embed"
	"fmt"
	"html/template"

	"overtimepay/export"
)

//go:embed *.html
var files embed.FS

var layouts = map[string]string{
	"login":           "base.html",
	"setup":           "base.html",
	"change-password": "base.html",
	"dashboard":       "base.html",
	"employees":       "base.html",
	"employee-edit":   "base.html",
	"employees-batch": "base.html",
	"overtime":        "base.html",
	"overtime-form":   "base.html",
	"overtime-batch":  "base.html",
	"receipts":        "base.html",
	"users":           "base.html",
	"overtime-print":  "print.html",
	"receipts-print":  "print.html",
}

var funcMap = template.FuncMap{
	"money": func(v float64, confidential bool) string {
		return export.MaskedMoney(v, confidential)
	},
	"hours": export.Hours,
	"number": func(v float64, places int) string {
		return export.Number(v, int32(places))
	},
	"dateBR": export.DateBR,
	"add":    func(a, b int) int { return a + b },
	// percent of max, for the inline bar charts
	"percent": func(v, max float64) float64 {
		if max <= 0 {
			return 0
		}
		return v / max * 100
	},
}

// Parse returns one template set per page, each executed through "base".
func Parse() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(layouts))
	for page, layout := range layouts {
		t, err := template.New("").Funcs(funcMap).ParseFS(files, layout, page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		pages[page] = t
	}
	return pages, nil
}
