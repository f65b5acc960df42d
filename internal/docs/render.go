package docs

import (
	"bytes"
	"html/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/chroniclecms/chronicle/internal/dto"
)

// Endpoint is one documented route with its parameter schema
type Endpoint struct {
	Method  string
	Path    string
	Summary string
	Schema  dto.SchemaEnvelope
}

// Document is the data the reference page is rendered from
type Document struct {
	Title     string
	Version   string
	Endpoints []Endpoint
}

// Renderer turns the parameter descriptors of the API views into a
// static HTML reference page.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("docs").Funcs(sprig.FuncMap()).Parse(pageTemplate)
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 60rem; color: #1f2933; }
h1 { border-bottom: 2px solid #e4e7eb; padding-bottom: .5rem; }
h2 { margin-top: 2.5rem; }
code { background: #f5f7fa; padding: .1rem .3rem; border-radius: 3px; }
table { border-collapse: collapse; width: 100%; margin-top: .75rem; }
th, td { border: 1px solid #e4e7eb; padding: .4rem .6rem; text-align: left; vertical-align: top; }
th { background: #f5f7fa; }
.method { font-weight: 600; color: #2f6f4f; }
.muted { color: #7b8794; }
</style>
</head>
<body>
<h1>{{ .Title }} <span class="muted">{{ .Version }}</span></h1>
{{ range .Endpoints }}
<h2><span class="method">{{ upper .Method }}</span> <code>{{ .Path }}</code></h2>
<p>{{ .Summary }}</p>
{{ if .Schema.Fields }}
<table>
<tr><th>Parameter</th><th>In</th><th>Type</th><th>Required</th><th>Description</th></tr>
{{ range .Schema.Fields }}
<tr>
<td><code>{{ .Name }}</code><br><span class="muted">{{ default (title .Name) .Title }}</span></td>
<td>{{ .Location }}</td>
<td>{{ .Type }}</td>
<td>{{ if .Required }}yes{{ else }}no{{ end }}</td>
<td>{{ default "" .Description }}</td>
</tr>
{{ end }}
</table>
{{ else }}
<p class="muted">No query parameters.</p>
{{ end }}
{{ end }}
</body>
</html>
`
