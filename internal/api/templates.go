package api

import (
	"html/template"
	"io/fs"

	"github.com/vytor/loginlab/web"
)

func LoadTemplates() (*template.Template, error) {
	return ParseTemplates(web.Templates())
}

// ParseTemplates parses partials and pages from fsys.
func ParseTemplates(fsys fs.FS) (*template.Template, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}

	t := template.New("base").Funcs(funcs)

	patterns := []string{
		"partials/*.html",
		"pages/*.html",
	}
	for _, p := range patterns {
		if matches, _ := fs.Glob(fsys, p); len(matches) == 0 {
			continue
		}
		if _, err := t.ParseFS(fsys, p); err != nil {
			return nil, err
		}
	}

	return t, nil
}
