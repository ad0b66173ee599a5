package ui // import "github.com/Xunop/e-library/internal/ui"

import (
	"bytes"
	"embed"
	"html/template"
	"net/url"

	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/model"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pageNames = []string{"home", "add_author", "add_book", "delete_book", "redirect"}

// templateEngine holds one template set per page, each made of the layout plus the page.
type templateEngine struct {
	templates map[string]*template.Template
}

func newTemplateEngine() (*templateEngine, error) {
	layout, err := template.New("layout.html").Funcs(template.FuncMap{
		"sortURL": sortURL,
	}).ParseFS(templateFiles, "templates/layout.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse layout template")
	}

	engine := &templateEngine{templates: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tpl, err := layout.Clone()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to clone layout for %s", name)
		}
		if _, err := tpl.ParseFS(templateFiles, "templates/"+name+".html"); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s template", name)
		}
		engine.templates[name] = tpl
	}
	return engine, nil
}

func (e *templateEngine) render(name string, data *pageData) ([]byte, error) {
	tpl, ok := e.templates[name]
	if !ok {
		return nil, errors.Errorf("unknown template %q", name)
	}

	var b bytes.Buffer
	if err := tpl.ExecuteTemplate(&b, "layout", data); err != nil {
		return nil, errors.Wrapf(err, "failed to render %s", name)
	}
	return b.Bytes(), nil
}

// sortURL links the home page sorted by key. Clicking the active key flips the order.
func sortURL(search string, key, currentKey model.SortKey, currentOrder model.SortOrder) string {
	order := model.OrderAsc
	if key == currentKey && currentOrder == model.OrderAsc {
		order = model.OrderDesc
	}

	values := url.Values{}
	if search != "" {
		values.Set("search", search)
	}
	values.Set("sort", string(key))
	values.Set("order", string(order))
	return "/home?" + values.Encode()
}
