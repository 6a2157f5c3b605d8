package tool_tokenorders

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/vybeagent/toolsutil"
)

// Tool name constant
const Name = "getTokenOrders"

const tokenOrdersPrompt = `Check if a token has paid for DexScreener promotional services. Use this to verify if a token has invested in marketing or visibility on DexScreener, which can indicate the team's commitment to marketing and visibility. Returns order types (tokenProfile, communityTakeover, etc.) and their statuses.`

const defaultBaseURL = "https://api.dexscreener.com"

// Order is one promotional order on DexScreener.
type Order struct {
	Type             string `json:"type"`
	Status           string `json:"status"`
	PaymentTimestamp int64  `json:"paymentTimestamp"`
}

// TokenOrdersInput represents the parameters for getTokenOrders
type TokenOrdersInput struct {
	ChainID      string `json:"chainId" required:"true" description:"The blockchain identifier (e.g. 'solana', 'ethereum')"`
	TokenAddress string `json:"tokenAddress" required:"true" description:"The token address to check"`
}

// TokenOrdersOutput represents the response from getTokenOrders.
type TokenOrdersOutput struct {
	SuppressFollowUp bool    `json:"suppressFollowUp"`
	Data             []Order `json:"data"`
}

// Config holds the tool's dependencies.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Tool returns the getTokenOrders tool definition.
func Tool(cfg Config) (agent.Tool, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return agent.NewGenericTool(Name, tokenOrdersPrompt, func(ctx context.Context, input TokenOrdersInput) (TokenOrdersOutput, error) {
		endpoint := fmt.Sprintf("%s/orders/v1/%s/%s",
			cfg.BaseURL, url.PathEscape(input.ChainID), url.PathEscape(input.TokenAddress))

		var orders []Order
		if err := toolsutil.GetJSON(ctx, cfg.HTTPClient, endpoint, &orders); err != nil {
			return TokenOrdersOutput{}, fmt.Errorf("failed to get token orders: %w", err)
		}
		return TokenOrdersOutput{SuppressFollowUp: true, Data: orders}, nil
	})
}
