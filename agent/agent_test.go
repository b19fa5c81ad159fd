package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/etnz/wealth"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"
)

// fakeGenerator answers every request with text and records the last prompt.
type fakeGenerator struct {
	text   string
	err    error
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.prompt = contents[0].Parts[0].Text
	f.config = config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.text, genai.RoleModel)}},
	}, nil
}

func TestAdvisor_Picks(t *testing.T) {
	testCases := []struct {
		name    string
		text    string
		want    *Picks
		wantErr bool
	}{
		{
			name: "json",
			text: `{"high": ["BTC", "ETH", "SOL"], "low": ["VTI", "BND"], "rationale": "diversify"}`,
			want: &Picks{High: []string{"BTC", "ETH", "SOL"}, Low: []string{"VTI", "BND"}, Rationale: "diversify"},
		},
		{
			name: "fenced and too many",
			text: "```json\n{\"high\": [\"BTC\", \"ETH\", \"SOL\", \"DOGE\"], \"low\": [\"VTI\", \"BND\", \"AAPL\"], \"rationale\": \"\"}\n```",
			want: &Picks{High: []string{"BTC", "ETH", "SOL"}, Low: []string{"VTI", "BND"}},
		},
		{name: "empty bucket", text: `{"high": ["BTC"], "low": [], "rationale": ""}`, wantErr: true},
		{name: "not json", text: "Buy bitcoin.", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := &fakeGenerator{text: tc.text}
			a := &Advisor{Model: "test", Generator: g}
			got, err := a.Picks(context.Background(), nil)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Picks() error = %v, wantErr %v", err, tc.wantErr)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Picks() mismatch (-want +got):\n%s", diff)
			}
			if g.config.ResponseMIMEType != "application/json" {
				t.Errorf("Picks() asked for %q, want json", g.config.ResponseMIMEType)
			}
		})
	}
}

func TestAdvisor_Picks_Error(t *testing.T) {
	cause := errors.New("quota exceeded")
	a := &Advisor{Model: "test", Generator: &fakeGenerator{err: cause}}
	if _, err := a.Picks(context.Background(), nil); !errors.Is(err, cause) {
		t.Errorf("Picks() error = %v, want %v", err, cause)
	}
}

func TestPicksPrompt(t *testing.T) {
	got := picksPrompt(nil)
	for _, want := range []string{"Suggest 3 high-risk and 2 low-risk assets", "BTC, ETH, TSLA, DOGE, SOL", "AAPL, MSFT, BND, VTI, GOOGL"} {
		if !strings.Contains(got, want) {
			t.Errorf("picksPrompt(nil) missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "dashboard") {
		t.Errorf("picksPrompt(nil) mentions a dashboard:\n%s", got)
	}

	p := wealth.NewPortfolio("USD", wealth.M(1000, "USD"))
	got = picksPrompt(&wealth.Dashboard{Portfolio: p, Err: wealth.ErrEmptyPortfolio})
	for _, want := range []string{"current dashboard", "# High-Stakes Wealth Dashboard", "add holdings to compute allocation"} {
		if !strings.Contains(got, want) {
			t.Errorf("picksPrompt() missing %q in:\n%s", want, got)
		}
	}
}

// quoter is a QuoteSource for a single symbol.
type quoter struct{}

func (quoter) Name() string { return wealth.ProviderYahoo }
func (quoter) Quote(ctx context.Context, symbol string) (wealth.PriceQuote, error) {
	if symbol != "SPY" {
		return wealth.PriceQuote{}, fmt.Errorf("unknown symbol %q", symbol)
	}
	return wealth.PriceQuote{Symbol: symbol, Price: wealth.M(500, "USD"), Source: "yahoo"}, nil
}

func TestQuoteFunc(t *testing.T) {
	f := quoteFunc(wealth.NewSources(quoter{}))
	testCases := []struct {
		name string
		args map[string]any
		want map[string]any
	}{
		{
			name: "quote",
			args: map[string]any{"symbol": "SPY"},
			want: map[string]any{"output": "SPY: $500.00 from yahoo"},
		},
		{
			name: "missing symbol",
			args: map[string]any{},
			want: map[string]any{"error": "argument 'symbol' is required"},
		},
		{
			name: "unknown provider",
			args: map[string]any{"symbol": "SPY", "provider": "nasdaq"},
			want: map[string]any{"error": `cannot fetch price for SPY: unknown provider "nasdaq"`},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := f.Call(context.Background(), "id", tc.args)
			if got.ID != "id" || got.Name != "Quote" {
				t.Errorf("Call() = %s/%s, want id/Quote", got.ID, got.Name)
			}
			if diff := cmp.Diff(tc.want, got.Response); diff != "" {
				t.Errorf("Call() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDashboardFunc(t *testing.T) {
	p := wealth.NewPortfolio("USD", wealth.M(1000, "USD"))
	f := dashboardFunc(func(context.Context) *wealth.Dashboard {
		return &wealth.Dashboard{Portfolio: p, Err: wealth.ErrEmptyPortfolio}
	})
	got := f.Call(context.Background(), "id", nil)
	out, _ := got.Response["output"].(string)
	if !strings.Contains(out, "add holdings to compute allocation") {
		t.Errorf("Call() = %v, want the dashboard with its error", got.Response)
	}
}

func TestNewLibrary(t *testing.T) {
	lib := NewLibrary([]Function{quoteFunc(wealth.NewSources(quoter{}))})

	got := lib(context.Background(), &genai.FunctionCall{ID: "1", Name: "Quote", Args: map[string]any{"symbol": "SPY"}})
	if got.Response["output"] != "SPY: $500.00 from yahoo" {
		t.Errorf("library Quote = %v", got.Response)
	}
	got = lib(context.Background(), &genai.FunctionCall{ID: "2", Name: "Sell"})
	if got.Response["error"] != "unknown function Sell" {
		t.Errorf("library Sell = %v", got.Response)
	}
}

func TestExpert_Call(t *testing.T) {
	e := NewTrader()
	if d := e.Declaration(); d.Name != "Trader" || d.Parameters.Required[0] != "question" {
		t.Errorf("Declaration() = %+v", d)
	}
	got := e.Call(context.Background(), "id", map[string]any{"question": 42})
	if got.Response["error"] != "invalid type got int, expected string" {
		t.Errorf("Call() = %v", got.Response)
	}
	// not started
	got = e.Call(context.Background(), "id", map[string]any{"question": "news?"})
	if _, ok := got.Response["error"]; !ok {
		t.Errorf("Call() = %v, want an error", got.Response)
	}
}

func TestAgent_next(t *testing.T) {
	var out bytes.Buffer
	a := New(&out, strings.NewReader("typed\nlast"))
	prompts := []string{" first "}

	var got []string
	for {
		input, err := a.next(&prompts)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next() unexpected error: %v", err)
		}
		got = append(got, input)
	}
	if diff := cmp.Diff([]string{"first", "typed", "last"}, got); diff != "" {
		t.Errorf("next() mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(out.String(), "assist> first\nassist> ") {
		t.Errorf("next() printed %q", out.String())
	}
}
