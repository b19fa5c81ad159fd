// Package renderer turns dashboards, quotes and backtests into markdown.
//
// Every report is a main template assembling partials, all embedded in the
// binary. The markdown is printed to the terminal or converted to HTML.
package renderer

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed *.md
var templates embed.FS

// RenderDashboard renders the Dashboard struct to a markdown string.
func RenderDashboard(d *Dashboard) string {
	partials := map[string]string{
		"dashboard_title":      "dashboard_title.md",
		"dashboard_status":     "dashboard_status.md",
		"dashboard_allocation": "dashboard_allocation.md",
		"dashboard_breakdown":  "dashboard_breakdown.md",
		"dashboard_holdings":   "dashboard_holdings.md",
		"dashboard_picks":      "dashboard_picks.md",
	}
	return renderTemplate("dashboard", "dashboard.md", partials, d)
}

// RenderQuotes renders a list of quotes as a markdown table.
func RenderQuotes(q *Quotes) string {
	return renderTemplate("quotes", "quotes.md", nil, q)
}

// RenderPicks renders investment suggestions.
func RenderPicks(p *Picks) string {
	return renderTemplate("picks", "picks.md", map[string]string{"dashboard_picks": "dashboard_picks.md"}, p)
}

// RenderBacktest renders the outcome of a backtest.
func RenderBacktest(b *Backtest) string {
	partials := map[string]string{
		"backtest_config":  "backtest_config.md",
		"backtest_metrics": "backtest_metrics.md",
	}
	return renderTemplate("backtest", "backtest.md", partials, b)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

var funcs = template.FuncMap{
	"join": strings.Join,
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts markdown to an HTML fragment, tables included.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
