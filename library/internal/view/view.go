package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-management/library/internal/model"
)

//go:embed templates/*.html
var templateFiles embed.FS

const layoutFile = "templates/layout.html"

// Page is the data every template receives.
type Page struct {
	Title  string
	User   *model.User
	CSRF   string
	Form   any
	Errors map[string]string
	Error  string
	Data   any
	// Base prefixes catalog links so one template serves /books/,
	// /librarian/books/ and /admin/books/.
	Base   string
	Action string
	Cancel string
}

// ErrorData fills the error page.
type ErrorData struct {
	Code    int
	Message string
}

// Renderer implements echo.Renderer over the embedded templates. Each page
// is parsed together with the layout.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"role": func(u *model.User) string {
		if u == nil {
			return ""
		}
		return string(u.Role())
	},
	"yesno": func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	},
	"date": func(v any) string {
		switch t := v.(type) {
		case interface{ Format(string) string }:
			return t.Format("2006-01-02")
		}
		return ""
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"money": func(f float64) string {
		return fmt.Sprintf("%.2f", f)
	},
}

func NewRenderer() (*Renderer, error) {
	names, err := fs.Glob(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		if name == layoutFile {
			continue
		}
		t, err := template.New(path.Base(layoutFile)).Funcs(funcs).ParseFS(templateFiles, layoutFile, name)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", name)
		}
		r.pages[strings.TrimPrefix(name, "templates/")] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
