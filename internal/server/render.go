package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"etfDashboard/internal/dashboard"
)

//go:embed templates/*.html
var templateFS embed.FS

type renderer struct {
	pages map[string]*template.Template
	md    goldmark.Markdown
}

func newRenderer() (*renderer, error) {
	funcs := template.FuncMap{
		"format2": dashboard.Format2,
	}
	pages := map[string]*template.Template{}
	for _, page := range []string{"login", "dashboard"} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, err
		}
		pages[page] = t
	}
	return &renderer{
		pages: pages,
		md:    goldmark.New(goldmark.WithExtensions(extension.Table)),
	}, nil
}

// page writes a full HTML page with the given status.
func (r *renderer) page(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.pages[name]
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		log.Error().Err(err).Str("page", name).Msg("http: template failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// markdown converts markdown to HTML. Raw HTML in the source is not passed through.
func (r *renderer) markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		log.Warn().Err(err).Msg("http: markdown conversion failed")
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}
