package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
)

//go:embed templates
var templateFS embed.FS

// pages are parsed separately so each can define its own "title" and
// "content" blocks against the shared layout and components.
var pages = []string{"login", "dashboard", "admin", "forbidden", "not-found"}

var funcMap = template.FuncMap{
	"pageURL": pageURL,
	"editURL": func(path, query string, page int, id int64) string {
		return pageURL(path, query, page) + "&edit=" + strconv.FormatInt(id, 10)
	},
}

func pageURL(path, query string, page int) string {
	v := url.Values{}
	v.Set("q", query)
	v.Set("page", strconv.Itoa(page))
	return path + "?" + v.Encode()
}

func loadTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcMap).ParseFS(templateFS,
			"templates/layouts/*.html",
			"templates/components/*.html",
			"templates/pages/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s templates: %w", page, err)
		}
		templates[page] = tmpl
	}
	return templates, nil
}
