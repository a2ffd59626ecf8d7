package export

import (
	"html/template"
	"os"

	"github.com/rotisserie/eris"

	"github.com/belmarfabian/ranking-ciencias-sociales-chile/internal/model"
)

var htmlTmpl = template.Must(template.New("ranking").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f0f0f0; }
tr:nth-child(even) { background: #fafafa; }
td.num { text-align: right; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Count}} investigadores · generado {{.Generated}}</p>
<table>
<tr><th>#</th><th>Nombre</th><th>Afiliación</th><th>Disciplina</th><th>h</th><th>Citas</th><th>Impacto</th></tr>
{{range .Entries}}<tr>
<td class="num">{{.Rank}}</td>
<td>{{.Name}}</td>
<td>{{.Affiliation}}</td>
<td>{{.Discipline}}</td>
<td class="num">{{.Metrics.HIndex}}</td>
<td class="num">{{.Metrics.Citations}}</td>
<td class="num">{{printf "%.2f" .Impact}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))

// HTMLOptions configure the standalone HTML report.
type HTMLOptions struct {
	Title     string
	Generated string
}

// WriteHTML writes the ranking as a self-contained HTML page.
func WriteHTML(path string, entries []model.RankingEntry, opts HTMLOptions) error {
	if opts.Title == "" {
		opts.Title = "Ranking de investigadores"
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	data := struct {
		Title     string
		Generated string
		Count     int
		Entries   []model.RankingEntry
	}{opts.Title, opts.Generated, len(entries), entries}

	if err := htmlTmpl.Execute(f, data); err != nil {
		return eris.Wrap(err, "export: render html")
	}
	return nil
}
