package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Token Guardian - {{.Token.Symbol}}</title>
<style>
  body { background: #0d1117; color: #c9d1d9; font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; padding: 2rem; }
  .banner { padding: 1.5rem 2rem; border-radius: 8px; margin-bottom: 2rem; }
  .banner h1 { margin: 0 0 .25rem; font-size: 1.6rem; }
  .LOW { background: #0f2e1c; border: 1px solid #2ea043; }
  .MEDIUM { background: #2e2a0f; border: 1px solid #d29922; }
  .HIGH { background: #2e1a0f; border: 1px solid #f0883e; }
  .CRITICAL { background: #2e0f12; border: 1px solid #f85149; }
  .cards { display: flex; flex-wrap: wrap; gap: 1rem; margin-bottom: 2rem; }
  .card { background: #161b22; border: 1px solid #30363d; border-radius: 8px; padding: 1rem 1.5rem; min-width: 160px; }
  .card .value { font-size: 1.5rem; font-weight: 600; }
  .card .label { color: #8b949e; font-size: .8rem; text-transform: uppercase; }
  table { border-collapse: collapse; width: 100%; margin-bottom: 2rem; }
  th, td { text-align: left; padding: .5rem .75rem; border-bottom: 1px solid #30363d; }
  th { color: #8b949e; font-size: .8rem; text-transform: uppercase; }
  .mono { font-family: ui-monospace, monospace; font-size: .85rem; }
  a { color: #58a6ff; }
</style>
</head>
<body>
<div class="banner {{.Risk.RiskLevel}}">
  <h1>{{.Token.Name}} ({{.Token.Symbol}})</h1>
  <div class="mono">{{.Mint}}</div>
  <p><strong>Risk score: {{.Risk.TotalScore}}/100 - {{.Risk.RiskLevel}}</strong></p>
</div>

<div class="cards">
  <div class="card"><div class="value">{{.Trader.TotalWallets}}</div><div class="label">Wallets</div></div>
  <div class="card"><div class="value">{{printf "%.2f" .Trader.BotPercentage}}%</div><div class="label">Bots</div></div>
  <div class="card"><div class="value">{{.Bundles.TotalBundles}}</div><div class="label">Bundles</div></div>
  <div class="card"><div class="value">{{printf "%.2f" .Bundles.BundledWalletPercentage}}%</div><div class="label">Bundled wallets</div></div>
  <div class="card"><div class="value">{{printf "%.2f" .Risk.Top10Concentration}}%</div><div class="label">Top-10 holders</div></div>
</div>

<h2>Risk factors</h2>
{{if .Risk.Factors}}
<table>
  <tr><th>Factor</th><th>Points</th><th>Description</th></tr>
  {{range .Risk.Factors}}
  <tr><td class="mono">{{.Name}}</td><td>+{{.Points}}</td><td>{{.Description}}</td></tr>
  {{end}}
</table>
{{else}}
<p>No risk factors triggered.</p>
{{end}}

{{if .ChartFiles}}
<h2>Charts</h2>
<ul>
  {{range .ChartFiles}}<li><a href="{{.}}">{{.}}</a></li>{{end}}
</ul>
{{end}}

<p class="mono">run {{.RunID}} &middot; generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</p>
</body>
</html>
`

var htmlTmpl = template.Must(template.New("report").Parse(htmlTemplate))

// htmlData is the template context: the analysis plus chart file names.
type htmlData struct {
	Analysis
	ChartFiles []string
}

// WriteHTML writes the self-contained HTML report and returns its path.
func (w *Writer) WriteHTML(a Analysis, chartFiles []string) (string, error) {
	// Link charts by file name so the page works when the directory moves.
	names := make([]string, 0, len(chartFiles))
	for _, p := range chartFiles {
		names = append(names, filepath.Base(p))
	}

	path := filepath.Join(w.outputDir, w.filename(a, "report", "html"))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create html report: %w", err)
	}
	defer f.Close()

	if err := htmlTmpl.Execute(f, htmlData{Analysis: a, ChartFiles: names}); err != nil {
		return "", fmt.Errorf("render html report: %w", err)
	}

	log.Info().Str("path", path).Msg("report: html written")
	return path, nil
}
