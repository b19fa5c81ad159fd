package server

import (
	_ "embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/renderer"
)

//go:embed page.html
var pageHTML string

var page = template.Must(template.New("page").Parse(pageHTML))

// pageData fills the page template.
type pageData struct {
	Currency  string
	Amount    string
	Target    string
	Tolerance string
	Holdings  string
	Export    string
	Error     string
	Dashboard template.HTML
}

// handlePage renders the dashboard page. Errors are displayed inline, the
// page itself is always served.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data := formData(s.portfolio)
	data.Export = "/export.csv"
	if r.URL.RawQuery != "" {
		data.Export += "?" + r.URL.RawQuery
	}

	p, err := s.portfolioFromForm(r)
	if err != nil {
		// keep what the user typed
		q := r.URL.Query()
		for field, v := range map[string]*string{
			"amount":    &data.Amount,
			"target":    &data.Target,
			"tolerance": &data.Tolerance,
			"holdings":  &data.Holdings,
		} {
			if q.Has(field) {
				*v = q.Get(field)
			}
		}
		data.Error = err.Error()
		s.writePage(w, data)
		return
	}
	data = formData(p)
	data.Export = "/export.csv?" + formValues(p).Encode()

	d := wealth.Refresh(r.Context(), s.sources, p)
	if d.Err != nil {
		s.log.Warn().Err(d.Err).Msg("Refresh failed")
	}
	view := renderer.NewDashboard(d)
	view.Picks = s.picks(r.Context())
	html, err := renderer.HTML(renderer.RenderDashboard(view))
	if err != nil {
		data.Error = err.Error()
	}
	data.Dashboard = template.HTML(html)
	s.writePage(w, data)
}

func (s *Server) writePage(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, data); err != nil {
		s.log.Error().Err(err).Msg("Failed to render page")
	}
}

// formData returns the form fields describing p.
func formData(p *wealth.Portfolio) pageData {
	return pageData{
		Currency:  p.Currency,
		Amount:    p.Amount.Decimal().String(),
		Target:    p.Target.High.Percentage().String(),
		Tolerance: p.Tolerance.Percentage().String(),
		Holdings:  wealth.FormatHoldings(p.Holdings),
	}
}

// formValues is the query string that describes p.
func formValues(p *wealth.Portfolio) url.Values {
	d := formData(p)
	return url.Values{
		"amount":    {d.Amount},
		"target":    {d.Target},
		"tolerance": {d.Tolerance},
		"holdings":  {d.Holdings},
	}
}
