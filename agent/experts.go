package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/renderer"
	"google.golang.org/genai"
)

// newFacilitator creates the expert talking to the user.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and keep context of your previous questions.

			The user follows a high-risk / low-risk allocation strategy and wants to know
			whether to rebalance, what to buy and what happened to the assets they hold.
			Check the dashboard first to understand what they own.

			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.
			You never execute trades, you only explain and suggest.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader creates an expert grounded on Google Search.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		very well aware of the financial products, crypto currencies and markets,
		and of the latest news about companies, funds and coins.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in trading, you can search and find about anything related to
			companies, markets, funds and crypto currencies. You leverage Google Search to
			ground your assertions in a solid truth.
			`}}},
		},
	}
}

// NewAnalyst creates the expert in charge of the user's dashboard.
//
// refresh computes the dashboard of the user's portfolio, sources are used
// to quote any symbol.
func NewAnalyst(refresh func(context.Context) *wealth.Dashboard, sources *wealth.Sources) *Expert {
	lib := []Function{dashboardFunc(refresh), quoteFunc(sources)}
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. They read the user's portfolio dashboard:
		holdings, live prices, current and target allocation, drift and rebalancing advice.
		They can also get the live price of any symbol.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an analyst in charge of the user's portfolio dashboard.
			Use the available tools to answer questions about the portfolio value,
			the high-risk and low-risk buckets, the drift from the target and the
			amount to move to rebalance. Quote any symbol when asked for a price.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// dashboardFunc returns the markdown dashboard of the user's portfolio.
func dashboardFunc(refresh func(context.Context) *wealth.Dashboard) *Func {
	const name = "Dashboard"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Dashboard refreshes the prices of the user's holdings and evaluates the allocation against the target.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report with the allocation, the rebalancing advice and a table of the holdings.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			d := refresh(ctx)
			return outputResponse(id, name, renderer.RenderDashboard(renderer.NewDashboard(d)))
		},
	}
}

// quoteFunc returns the live price of a symbol.
func quoteFunc(sources *wealth.Sources) *Func {
	const name = "Quote"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Quote returns the latest price of an asset.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"symbol": {
						Type:        genai.TypeString,
						Description: "Exchange ticker (AAPL, ARN.AX) or CoinGecko coin id (bitcoin).",
					},
					"provider": {
						Type:        genai.TypeString,
						Description: "Optional price provider.",
						Enum:        []string{wealth.ProviderYahoo, wealth.ProviderCoinGecko},
					},
				},
				Required: []string{"symbol"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The price, its time and its source.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			symbol, _ := args["symbol"].(string)
			provider, _ := args["provider"].(string)
			if strings.TrimSpace(symbol) == "" {
				return errorResponse(id, name, fmt.Errorf("argument 'symbol' is required"))
			}
			q, err := sources.Quote(ctx, wealth.Asset{Symbol: symbol, Provider: provider})
			if err != nil {
				return errorResponse(id, name, err)
			}
			out := fmt.Sprintf("%s: %s from %s", q.Symbol, q.Price, q.Source)
			if !q.Time.IsZero() {
				out += " at " + q.Time.UTC().Format("2006-01-02 15:04 MST")
			}
			return outputResponse(id, name, out)
		},
	}
}
