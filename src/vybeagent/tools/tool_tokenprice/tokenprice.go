package tool_tokenprice

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/vybeagent/toolsutil"
)

// Tool name constant
const Name = "getTokenPrice"

const tokenPricePrompt = `Get the current price of any Solana token in USDC, including detailed information like buy/sell prices and confidence level.`

const defaultBaseURL = "https://api.jup.ag"

// TokenPrice is the price entry returned by the price API.
type TokenPrice struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Price string `json:"price"`
}

type priceResponse struct {
	Data map[string]*TokenPrice `json:"data"`
}

// TokenPriceInput represents the parameters for getTokenPrice
type TokenPriceInput struct {
	TokenAddress  string `json:"tokenAddress" required:"true" description:"The token's mint address"`
	ShowExtraInfo bool   `json:"showExtraInfo,omitempty" description:"Whether to show additional price information like buy/sell prices and confidence level"`
}

// TokenPriceOutput represents the response from getTokenPrice
type TokenPriceOutput struct {
	Price TokenPrice `json:"price"`
}

// Config holds the tool's dependencies.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Tool returns the getTokenPrice tool definition.
func Tool(cfg Config) (agent.Tool, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return agent.NewGenericTool(Name, tokenPricePrompt, func(ctx context.Context, input TokenPriceInput) (TokenPriceOutput, error) {
		if !toolsutil.IsSolanaAddress(input.TokenAddress) {
			return TokenPriceOutput{}, fmt.Errorf("invalid Solana address format, must be a base58 encoded string")
		}

		endpoint := fmt.Sprintf("%s/price/v2?ids=%s&showExtraInfo=%t",
			cfg.BaseURL, url.QueryEscape(input.TokenAddress), input.ShowExtraInfo)

		var resp priceResponse
		if err := toolsutil.GetJSON(ctx, cfg.HTTPClient, endpoint, &resp); err != nil {
			return TokenPriceOutput{}, fmt.Errorf("failed to fetch price data: %w", err)
		}

		price, ok := resp.Data[input.TokenAddress]
		if !ok || price == nil {
			return TokenPriceOutput{}, fmt.Errorf("price data not available")
		}
		return TokenPriceOutput{Price: *price}, nil
	})
}
