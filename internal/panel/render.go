package panel

import (
	"fmt"
	"html/template"
	"io"

	"product-panel/internal/table"
)

var pageTemplate = template.Must(template.New("panel").Funcs(template.FuncMap{
	"cells":    cells,
	"widthCSS": widthCSS,
	"pct":      func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Products</title>
<style>
body { background: {{.Theme.Colors.Background.Canvas}}; color: {{.Theme.Colors.Text.Primary}}; font-family: sans-serif; }
.panel { width: 1200px; height: 600px; margin: 10px auto; overflow: hidden; border-radius: 10px; border: 1px solid #aaa; background: {{.Theme.Colors.Background.Primary}}; }
.panel div { box-sizing: border-box; }
.alert { margin: 8px; padding: 8px 12px; border-left: 4px solid {{.Theme.Colors.Error}}; background: {{.Theme.Colors.Background.Secondary}}; color: #fff; }
.alert h4 { margin: 0 0 4px 0; }
.spinner { margin: 8px; width: 16px; height: 16px; border: 2px solid {{.Theme.Colors.Text.Secondary}}; border-top-color: transparent; border-radius: 50%; animation: spin 1s linear infinite; }
@keyframes spin { to { transform: rotate(360deg); } }
.table { height: 100%; overflow: auto; }
table { border-collapse: collapse; width: 100%; }
th { position: sticky; top: 0; background: {{.Theme.Colors.Background.Secondary}}; color: #fff; text-align: left; padding: 6px; }
td { padding: 6px; border-bottom: 1px solid {{.Theme.Colors.Border}}; }
.gauge { height: 14px; border-radius: 3px; }
</style>
</head>
<body>
<div class="panel">
{{- with .Error}}
<div class="alert" role="alert"><h4>{{.Title}}</h4>{{.Message}}</div>
{{- end}}
{{- if .Loading}}
<div class="spinner" aria-label="Loading"></div>
{{- end}}
{{- if .ShowTable}}
<div class="table">
<table>
<thead><tr>{{range .Table.Fields}}<th{{widthCSS .}}>{{.Name}}</th>{{end}}</tr></thead>
<tbody>
{{- range cells .Table}}
<tr>{{range .}}{{if .Gauge}}<td><div class="gauge" title="{{.Value.Text}}" style="width: {{pct .Value.Percent}}; background: {{.Value.Color}};"></div></td>{{else}}<td>{{.Value.Text}}</td>{{end}}{{end}}</tr>
{{- end}}
</tbody>
</table>
</div>
{{- end}}
</div>
</body>
</html>
`))

// Cell is one rendered table cell.
type Cell struct {
	Value table.DisplayValue
	Gauge bool
}

// cells renders every row of t through the field display processors.
// Absent values render as empty cells, without a gauge.
func cells(t *table.Table) [][]Cell {
	rows := make([][]Cell, t.Len())
	for i := range rows {
		row := make([]Cell, len(t.Fields))
		for j, f := range t.Fields {
			row[j] = Cell{
				Value: f.Display(i),
				Gauge: f.Config.Custom.DisplayMode == table.DisplayModeGradientGauge && f.Values[i] != nil,
			}
		}
		rows[i] = row
	}
	return rows
}

func widthCSS(f *table.Field) template.HTMLAttr {
	if f.Config.Custom.Width == 0 {
		return ""
	}
	return template.HTMLAttr(fmt.Sprintf(` style="width: %dpx"`, f.Config.Custom.Width))
}

// Render writes v as a standalone HTML page.
func Render(w io.Writer, v View) error {
	if err := pageTemplate.Execute(w, v); err != nil {
		return fmt.Errorf("failed to render panel: %w", err)
	}
	return nil
}
