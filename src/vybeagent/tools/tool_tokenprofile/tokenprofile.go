package tool_tokenprofile

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/vybeagent/toolsutil"
)

// Tool name constant
const Name = "getTokenProfile"

const tokenProfilePrompt = `Get comprehensive information about a token from DexScreener. Use this when users want to know more about a token, including its price, liquidity, market cap, and social links (Telegram, Twitter, Website). This is particularly useful for due diligence or when users ask about token details, social presence, or market metrics.`

const defaultBaseURL = "https://api.dexscreener.com"

// Pair is one trading pair on DexScreener.
type Pair struct {
	ChainID     string   `json:"chainId"`
	DexID       string   `json:"dexId"`
	URL         string   `json:"url"`
	PairAddress string   `json:"pairAddress"`
	Labels      []string `json:"labels,omitempty"`
	BaseToken   struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	QuoteToken struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"quoteToken"`
	PriceNative string `json:"priceNative"`
	PriceUsd    string `json:"priceUsd"`
	Liquidity   *struct {
		USD   float64 `json:"usd"`
		Base  float64 `json:"base"`
		Quote float64 `json:"quote"`
	} `json:"liquidity,omitempty"`
	FDV           float64 `json:"fdv"`
	MarketCap     float64 `json:"marketCap"`
	PairCreatedAt int64   `json:"pairCreatedAt"`
	Info          *struct {
		ImageURL string `json:"imageUrl,omitempty"`
		Websites []struct {
			Label string `json:"label"`
			URL   string `json:"url"`
		} `json:"websites,omitempty"`
		Socials []struct {
			Type string `json:"type"`
			URL  string `json:"url"`
		} `json:"socials,omitempty"`
	} `json:"info,omitempty"`
}

type pairResponse struct {
	SchemaVersion string `json:"schemaVersion"`
	Pairs         []Pair `json:"pairs"`
}

// TokenProfileInput represents the parameters for getTokenProfile
type TokenProfileInput struct {
	Mint string `json:"mint" required:"true" description:"The token's mint/contract address to check"`
}

// TokenProfileOutput represents the response from getTokenProfile.
type TokenProfileOutput struct {
	SuppressFollowUp bool `json:"suppressFollowUp"`
	Data             Pair `json:"data"`
}

// Config holds the tool's dependencies.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Tool returns the getTokenProfile tool definition.
func Tool(cfg Config) (agent.Tool, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return agent.NewGenericTool(Name, tokenProfilePrompt, func(ctx context.Context, input TokenProfileInput) (TokenProfileOutput, error) {
		endpoint := cfg.BaseURL + "/latest/dex/tokens/" + url.PathEscape(input.Mint)

		var resp pairResponse
		if err := toolsutil.GetJSON(ctx, cfg.HTTPClient, endpoint, &resp); err != nil {
			return TokenProfileOutput{}, fmt.Errorf("failed to get token profile: %w", err)
		}
		if len(resp.Pairs) == 0 {
			return TokenProfileOutput{}, fmt.Errorf("no pair data found")
		}

		// The pair with the deepest liquidity is the canonical one.
		sort.SliceStable(resp.Pairs, func(i, j int) bool {
			return liquidityUSD(resp.Pairs[i]) > liquidityUSD(resp.Pairs[j])
		})
		return TokenProfileOutput{SuppressFollowUp: true, Data: resp.Pairs[0]}, nil
	})
}

func liquidityUSD(p Pair) float64 {
	if p.Liquidity == nil {
		return 0
	}
	return p.Liquidity.USD
}
