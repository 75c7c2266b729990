package report

import (
	"io"
	"text/template"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
)

const markdownReportTemplate = `# Taguchi Analysis Report

Design: {{.Design.Designation}} ({{.Design.Runs}} runs)
{{range .Reports}}
## Metric: {{.Metric.Name}} ({{.Metric.Mode}})

### Optimal Factor Levels

| Factor | Level |
|---|---|
{{range $factor, $idx := .Effects.OptimalLevels}}| {{$factor}} | {{inc $idx}} |
{{end}}
### Main Effects (mean S/N per level)

| Factor | Levels |
|---|---|
{{range $factor, $levels := .Effects.SNByLevel}}| {{$factor}} | {{range $levels}}{{printf "%.4f " .}}{{end}} |
{{end}}
### ANOVA

{{$table := anovaTable .}}
| Source | SS | DF | MS | F | P | Contribution% |
|---|---|---|---|---|---|---|
{{range $table.Sources}}| {{.Name}}{{if .Pooled}} (pooled){{end}} | {{printf "%.4f" .SS}} | {{.DF}} | {{printf "%.4f" .MS}} | {{printf "%.4f" .F}} | {{printf "%.4f" .P}} | {{printf "%.2f" .Contribution}} |
{{end}}| Error | {{printf "%.4f" $table.Error.SS}} | {{$table.Error.DF}} | {{printf "%.4f" $table.Error.MS}} | | | |
| Total | {{printf "%.4f" $table.Total.SS}} | {{$table.Total.DF}} | | | | |

### Prediction at Optimal Configuration

Predicted S/N: {{printf "%.4f" .Prediction.PredictedSN}} [{{printf "%.4f" .Prediction.SNLower}}, {{printf "%.4f" .Prediction.SNUpper}}]

Predicted raw: {{printf "%.4f" .Prediction.PredictedRaw}} [{{printf "%.4f" .Prediction.RawLower}}, {{printf "%.4f" .Prediction.RawUpper}}]
{{range .Prediction.Notes}}
> {{.}}
{{end}}
{{if .Warnings}}
### Warnings
{{range .Warnings}}
- {{if .Source}}**{{.Source}}**: {{end}}{{.Message}}
{{end}}
{{end}}
{{end}}
`

var markdownFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"anovaTable": func(r model.MetricReport) model.ANOVATable {
		if r.PooledANOVA != nil {
			return *r.PooledANOVA
		}
		return r.InitialANOVA
	},
}

// WriteMarkdown renders state's reports as Markdown to w.
func WriteMarkdown(w io.Writer, state model.ExperimentState) error {
	tmpl, err := template.New("report").Funcs(markdownFuncs).Parse(markdownReportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, state)
}
