package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/etnz/wealth"
	"github.com/go-chi/chi/v5"
	"github.com/gocarina/gocsv"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "hsw",
		"providers": s.sources.Names(),
	})
}

// handleDashboard refreshes the portfolio described by the query and returns
// the whole dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	p, err := s.portfolioFromForm(r)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	d := wealth.Refresh(r.Context(), s.sources, p)
	status := http.StatusOK
	if d.Err != nil {
		status = statusOf(d.Err)
	}
	s.writeJSON(w, status, d)
}

// handleQuote returns the quote of a single symbol.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	a := wealth.Asset{
		Symbol:   chi.URLParam(r, "symbol"),
		Provider: strings.ToLower(r.URL.Query().Get("provider")),
	}
	q, err := s.sources.Quote(r.Context(), a)
	if err != nil {
		s.writeError(w, statusOf(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, q)
}

// exportRow is a line of the CSV export.
type exportRow struct {
	Symbol   string `csv:"symbol"`
	Risk     string `csv:"risk"`
	Quantity string `csv:"quantity"`
	Price    string `csv:"price"`
	Value    string `csv:"value"`
	Weight   string `csv:"weight"`
	Currency string `csv:"currency"`
	Source   string `csv:"source"`
}

// handleExport writes the valuation of every holding as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	p, err := s.portfolioFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	d := wealth.Refresh(r.Context(), s.sources, p)
	if d.Err != nil {
		http.Error(w, d.Err.Error(), statusOf(d.Err))
		return
	}
	rows := make([]exportRow, 0, len(d.Snapshot.Lines))
	for _, l := range d.Snapshot.Lines {
		rows = append(rows, exportRow{
			Symbol:   l.Holding.Symbol(),
			Risk:     l.Holding.Asset.Risk.String(),
			Quantity: l.Holding.Quantity.String(),
			Price:    l.Quote.Price.Decimal().String(),
			Value:    l.Value.Decimal().String(),
			Weight:   d.Snapshot.Weight(l).Decimal().String(),
			Currency: l.Value.Currency(),
			Source:   l.Quote.Source,
		})
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio.csv"`)
	if err := gocsv.Marshal(rows, w); err != nil {
		s.log.Error().Err(err).Msg("Failed to write CSV export")
	}
}

// portfolioFromForm applies the query values to a copy of the default portfolio.
//
// Percentages are accepted with or without the '%' sign ("75" is 75%).
func (s *Server) portfolioFromForm(r *http.Request) (*wealth.Portfolio, error) {
	p := s.portfolio.Clone()
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("amount")); v != "" {
		amount, err := wealth.ParseMoney(v, p.Currency)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", wealth.ErrInvalidAmount, err)
		}
		p.Amount = amount
	}
	if v := strings.TrimSpace(q.Get("target")); v != "" {
		high, err := parsePercent(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", wealth.ErrInvalidRatio, err)
		}
		p.Target = wealth.Target{High: high}
	}
	if v := strings.TrimSpace(q.Get("tolerance")); v != "" {
		tolerance, err := parsePercent(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", wealth.ErrInvalidTolerance, err)
		}
		p.Tolerance = tolerance
	}
	if q.Has("holdings") {
		holdings, err := wealth.ParseHoldings(q.Get("holdings"), p.Currency)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", wealth.ErrInvalidHolding, err)
		}
		p.Holdings = holdings
	}
	return p, nil
}

func parsePercent(v string) (wealth.Ratio, error) {
	return wealth.ParseRatio(strings.TrimSuffix(v, "%") + "%")
}

// statusOf maps refresh errors to HTTP status codes: provider failures are
// a bad gateway, everything else comes from the user input.
func statusOf(err error) int {
	var fetch *wealth.PriceFetchError
	if errors.As(err, &fetch) {
		return http.StatusBadGateway
	}
	return http.StatusUnprocessableEntity
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
