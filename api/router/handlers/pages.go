package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"estateadmin/core"
	"estateadmin/logger"
	"estateadmin/models"
)

//go:embed templates/*.html
var pageFS embed.FS

var (
	loginPage     = template.Must(template.ParseFS(pageFS, "templates/layout.html", "templates/login.html"))
	dashboardPage = template.Must(template.ParseFS(pageFS, "templates/layout.html", "templates/dashboard.html", "templates/screen.html"))
	screenPage    = template.Must(template.ParseFS(pageFS, "templates/layout.html", "templates/screen.html"))
)

var pageSizes = []int{5, 10, 20, 50}

type navItem struct {
	Key   string
	Label string
}

type pageData struct {
	Title  string
	Error  string
	Nav    []navItem
	Screen core.Screen
	State  models.ViewState
	Counts models.DashboardCounts

	Columns   []models.Column
	Rows      []models.Row
	Pager     core.Pager
	PageSizes []int
	PageURL   func(page int) string

	Appointments *pageData
}

func navigation() []navItem {
	if deps.Screens == nil {
		return nil
	}
	screens := deps.Screens.All()
	items := make([]navItem, 0, len(screens))
	for _, s := range screens {
		items = append(items, navItem{Key: s.Key, Label: s.Label})
	}
	return items
}

// pageLinker keeps the current query and swaps the page number.
func pageLinker(path string, q url.Values) func(int) string {
	return pageParamLinker(path, q, "page")
}

func pageParamLinker(path string, q url.Values, param string) func(int) string {
	return func(page int) string {
		next := url.Values{}
		for k, v := range q {
			next[k] = v
		}
		next.Set(param, strconv.Itoa(page))
		return path + "?" + next.Encode()
	}
}

func render(w http.ResponseWriter, tpl *template.Template, status int, data pageData) {
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.Error("render: executing %s: %v", tpl.Name(), err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func renderLogin(w http.ResponseWriter, status int, msg string) {
	render(w, loginPage, status, pageData{Title: "Sign in", Error: msg})
}
