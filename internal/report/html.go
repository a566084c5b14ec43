package report

import (
	"fmt"
	"html/template"
	"io"
)

var htmlTmpl = template.Must(template.New("report").Parse(`<html>
<head>
<title>{{.Title}}</title>
<style>
table {
    border: 1px solid;
    border-collapse: collapse;
    border-spacing: 0;
}
th, td {
    border-bottom: 1px solid black;
    text-align: center;
    padding: 2px 6px;
}
.odd { background-color: #ddd; }
.good { background-color: #0f0; }
.moderate { background-color: #ff0; }
.usg { background-color: #f80; }
.unhealthy { background-color: #f00; }
.veryunhealthy { background-color: #f0f; }
.hazardous { background-color: #f0f; }
</style>
</head>
<body>
<table>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr{{if .Odd}} class="odd"{{end}}>{{range .Cells}}<td{{with .Class}} class="{{.}}"{{end}}>{{.Text}}</td>{{end}}</tr>
{{end}}</table></body></html>
`))

// HTML renders a self-contained HTML document with severity-coloured cells.
type HTML struct{}

func (HTML) Render(w io.Writer, t Table) error {
	if err := htmlTmpl.Execute(w, t); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func (HTML) ContentType() string {
	return "text/html; charset=utf-8"
}
