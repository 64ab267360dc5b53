package http

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"

	"fintrack/internal/domain"
)

// pageRenderer keeps one template set per page so every page can define
// its own "title" and "content" blocks on top of the shared layout.
type pageRenderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006")
	},
	"lower": func(v any) string {
		return strings.ToLower(fmt.Sprint(v))
	},
	"categoryLabel": func(value string) string {
		for _, c := range domain.Categories {
			if c.Value == value {
				return c.Label
			}
		}
		return value
	},
}

func newPageRenderer(fsys fs.FS) (*pageRenderer, error) {
	partials, err := fs.Glob(fsys, "templates/_*.html")
	if err != nil {
		return nil, fmt.Errorf("glob partials: %w", err)
	}
	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	r := &pageRenderer{pages: make(map[string]*template.Template)}
	for _, file := range files {
		base := path.Base(file)
		if strings.HasPrefix(base, "_") {
			continue
		}
		name := strings.TrimSuffix(base, ".html")
		patterns := append(append([]string{}, partials...), file)
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(fsys, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	for _, required := range []string{pageNotFound, pageServerError} {
		if _, ok := r.pages[required]; !ok {
			return nil, fmt.Errorf("template %s missing", required)
		}
	}
	return r, nil
}

// Instance implements render.HTMLRender.
func (r *pageRenderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		tmpl = r.pages[pageServerError]
	}
	return render.HTML{Template: tmpl, Name: "layout", Data: data}
}
