package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/renderer"
	"google.golang.org/genai"
)

// Generator generates content, genai.Client.Models implements it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Advisor suggests assets to buy in each risk bucket.
type Advisor struct {
	Model     string
	Generator Generator
}

// NewAdvisor returns an Advisor using the Gemini client.
func NewAdvisor(client *genai.Client) *Advisor {
	return &Advisor{Model: model, Generator: client.Models}
}

// Picks are the suggestions of the advisor.
type Picks struct {
	High      []string `json:"high"`
	Low       []string `json:"low"`
	Rationale string   `json:"rationale"`
}

const (
	highPicks = 3
	lowPicks  = 2
)

var picksSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"high":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "High-risk symbols."},
		"low":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Low-risk symbols."},
		"rationale": {Type: genai.TypeString, Description: "One short paragraph explaining the picks."},
	},
	Required: []string{"high", "low", "rationale"},
}

// Picks asks the model for high risk and low risk picks. The dashboard is
// optional, it lets the model know what is already held.
func (a *Advisor) Picks(ctx context.Context, d *wealth.Dashboard) (*Picks, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
		You are an investment advisor for a high-risk / low-risk allocation strategy.
		High-risk assets are crypto currencies and growth stocks, low-risk assets are
		large caps and bond or index ETFs. Answer with ticker symbols only, the ones
		Yahoo Finance uses, or CoinGecko coin ids for crypto currencies.
		`}}},
		ResponseMIMEType: "application/json",
		ResponseSchema:   picksSchema,
	}
	resp, err := a.Generator.GenerateContent(ctx, a.Model, genai.Text(picksPrompt(d)), config)
	if err != nil {
		return nil, fmt.Errorf("cannot get picks: %w", err)
	}
	return parsePicks(resp.Text())
}

// picksPrompt asks for picks, with the dashboard as context.
func picksPrompt(d *wealth.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d high-risk and %d low-risk assets to invest in today.\n", highPicks, lowPicks)
	fmt.Fprintf(&b, "Typical high-risk picks are %s.\n", strings.Join(wealth.HighRiskPicks, ", "))
	fmt.Fprintf(&b, "Typical low-risk picks are %s.\n", strings.Join(wealth.LowRiskPicks, ", "))
	if d != nil && d.Portfolio != nil {
		fmt.Fprintf(&b, "\nHere is my current dashboard, favor what rebalances it:\n\n%s", renderer.RenderDashboard(renderer.NewDashboard(d)))
	}
	return b.String()
}

// parsePicks decodes the model answer, keeping at most the requested number
// of picks per bucket.
func parsePicks(text string) (*Picks, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.Trim(text, "`\n ")
	var p Picks
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, fmt.Errorf("invalid picks %q: %w", text, err)
	}
	if len(p.High) == 0 || len(p.Low) == 0 {
		return nil, fmt.Errorf("invalid picks %q: both buckets need a pick", text)
	}
	if len(p.High) > highPicks {
		p.High = p.High[:highPicks]
	}
	if len(p.Low) > lowPicks {
		p.Low = p.Low[:lowPicks]
	}
	return &p, nil
}
