package httpserver

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dmitrijs2005/mixmini/internal/server/models"
)

//go:embed templates
var templateFS embed.FS

var pageFiles = []string{
	"index.html",
	"login.html",
	"register.html",
	"catalog.html",
	"inventory.html",
	"recipes/list.html",
	"recipes/form.html",
	"recipes/detail.html",
}

// cardView is what the paint_card partial renders, for both the catalog and
// the inventory.
type cardView struct {
	Context string
	Paint   models.Paint
	Owned   bool
	Status  models.PaintStatus
}

var funcs = template.FuncMap{
	"card": func(context string, p models.Paint, owned bool, status models.PaintStatus) cardView {
		return cardView{Context: context, Paint: p, Owned: owned, Status: status}
	},
	"statuses": func() []models.PaintStatus { return models.Statuses },
}

// pageData wraps every full page. Data is page specific.
type pageData struct {
	Title string
	User  *models.User
	Error string
	Data  any
}

type views struct {
	pages    map[string]*template.Template
	partials *template.Template
}

func loadViews() (*views, error) {
	partials, err := template.New("partials").Funcs(funcs).ParseFS(templateFS, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing partials: %w", err)
	}

	v := &views{pages: make(map[string]*template.Template, len(pageFiles)), partials: partials}
	for _, name := range pageFiles {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/base.html", "templates/partials/*.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

func (s *HTTPServer) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	t, ok := s.views.pages[name]
	if !ok {
		s.fail(w, r, fmt.Errorf("unknown page %q", name), "")
		return
	}
	if data.User == nil {
		data.User = userFrom(r.Context())
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", data); err != nil {
		s.fail(w, r, fmt.Errorf("error rendering %s: %w", name, err), "")
		return
	}
	writeHTML(w, status, buf.Bytes())
}

func (s *HTTPServer) renderPartial(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.views.partials.ExecuteTemplate(&buf, name, data); err != nil {
		s.fail(w, r, fmt.Errorf("error rendering %s: %w", name, err), "")
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
