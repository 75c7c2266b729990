package report

import (
	"html/template"
	"io"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
)

const htmlReportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Taguchi Analysis Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; margin-bottom: 1.5rem; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: right; }
th { background: #eee; }
td.name, th.name { text-align: left; }
h2 { border-bottom: 2px solid #333; padding-bottom: 0.2rem; }
.pooled { color: #888; font-style: italic; }
.warning { color: #a00; }
</style>
</head>
<body>
<h1>Taguchi Analysis Report</h1>
<p>Design: {{.Design.Designation}} ({{.Design.Runs}} runs)</p>

{{range .Reports}}
<h2>Metric: {{.Metric.Name}} ({{.Metric.Mode}})</h2>

<h3>Optimal Factor Levels</h3>
<table>
<tr><th class="name">Factor</th><th>Level</th></tr>
{{range $factor, $idx := .Effects.OptimalLevels}}
<tr><td class="name">{{$factor}}</td><td>{{inc $idx}}</td></tr>
{{end}}
</table>

<h3>Main Effects (mean S/N per level)</h3>
<table>
<tr><th class="name">Factor</th><th>Levels</th></tr>
{{range $factor, $levels := .Effects.SNByLevel}}
<tr><td class="name">{{$factor}}</td><td>{{range $levels}}{{printf "%.4f " .}}{{end}}</td></tr>
{{end}}
</table>

<h3>ANOVA</h3>
{{$table := anovaTable .}}
<table>
<tr><th class="name">Source</th><th>SS</th><th>DF</th><th>MS</th><th>F</th><th>P</th><th>Contribution%</th></tr>
{{range $table.Sources}}
<tr{{if .Pooled}} class="pooled"{{end}}><td class="name">{{.Name}}</td><td>{{printf "%.4f" .SS}}</td><td>{{.DF}}</td><td>{{printf "%.4f" .MS}}</td><td>{{printf "%.4f" .F}}</td><td>{{printf "%.4f" .P}}</td><td>{{printf "%.2f" .Contribution}}</td></tr>
{{end}}
<tr><td class="name">Error</td><td>{{printf "%.4f" $table.Error.SS}}</td><td>{{$table.Error.DF}}</td><td>{{printf "%.4f" $table.Error.MS}}</td><td colspan="3"></td></tr>
<tr><td class="name">Total</td><td>{{printf "%.4f" $table.Total.SS}}</td><td>{{$table.Total.DF}}</td><td colspan="4"></td></tr>
</table>

<h3>Prediction at Optimal Configuration</h3>
<p>Predicted S/N: {{printf "%.4f" .Prediction.PredictedSN}} [{{printf "%.4f" .Prediction.SNLower}}, {{printf "%.4f" .Prediction.SNUpper}}]</p>
<p>Predicted raw: {{printf "%.4f" .Prediction.PredictedRaw}} [{{printf "%.4f" .Prediction.RawLower}}, {{printf "%.4f" .Prediction.RawUpper}}]</p>
{{range .Prediction.Notes}}<p><em>{{.}}</em></p>{{end}}

{{if .Warnings}}
<h3 class="warning">Warnings</h3>
<ul>
{{range .Warnings}}<li class="warning">{{if .Source}}[{{.Source}}] {{end}}{{.Message}}</li>{{end}}
</ul>
{{end}}
{{end}}
</body>
</html>
`

var htmlFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"anovaTable": func(r model.MetricReport) model.ANOVATable {
		if r.PooledANOVA != nil {
			return *r.PooledANOVA
		}
		return r.InitialANOVA
	},
}

// WriteHTML renders state's reports as a single self-contained HTML
// document to w.
func WriteHTML(w io.Writer, state model.ExperimentState) error {
	tmpl, err := template.New("report").Funcs(htmlFuncs).Parse(htmlReportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, state)
}
