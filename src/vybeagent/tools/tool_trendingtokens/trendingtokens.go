package tool_trendingtokens

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/vybeagent/toolsutil"
)

// Tool name constant
const Name = "filterTrendingTokens"

const trendingTokensPrompt = `Filter and search for trending Solana tokens based on various criteria like volume, liquidity, market cap, and age.`

const (
	defaultEndpoint = "https://graph.codex.io/graphql"

	// solanaNetworkID is the Codex network id for Solana mainnet.
	solanaNetworkID = 1399811149

	// requestTimeout caps the upstream GraphQL call independently of the
	// turn deadline.
	requestTimeout = 10 * time.Second

	fetchLimit = 100
)

const filterTokensQuery = `query FilterTokens($filters: TokenFilters, $statsType: TokenPairStatisticsType, $rankings: [TokenRanking], $limit: Int, $offset: Int) {
  filterTokens(filters: $filters, statsType: $statsType, rankings: $rankings, limit: $limit, offset: $offset) {
    results {
      token { address name symbol imageThumbUrl }
      marketCap
      volume24
      liquidity
      uniqueTransactions24
      holders
      createdAt
      change1
      change4
      change12
      change24
    }
  }
}`

// TrendingTokensInput represents the parameters for filterTrendingTokens
type TrendingTokensInput struct {
	MaxVolume24h       float64 `json:"maxVolume24h,omitempty" description:"Maximum 24-hour trading volume in USD"`
	MinVolume24h       float64 `json:"minVolume24h,omitempty" description:"Minimum 24-hour trading volume in USD"`
	MaxLiquidity       float64 `json:"maxLiquidity,omitempty" description:"Maximum liquidity in USD"`
	MinLiquidity       float64 `json:"minLiquidity,omitempty" description:"Minimum liquidity in USD"`
	MaxMarketCap       float64 `json:"maxMarketCap,omitempty" description:"Maximum market cap in USD"`
	MinMarketCap       float64 `json:"minMarketCap,omitempty" description:"Minimum market cap in USD"`
	CreatedWithinHours int     `json:"createdWithinHours,omitempty" description:"Only show tokens created within the last N hours (default 48)"`
	SortBy             string  `json:"sortBy,omitempty" description:"Sort by one of: trendingScore24, marketCap, volume24, liquidity, transactions24h, change1, change4, change12, change24"`
	SortDirection      string  `json:"sortDirection,omitempty" description:"ASC or DESC (default DESC)"`
	Limit              int     `json:"limit,omitempty" description:"Maximum number of results to return (1-20, default 10)"`
}

// TrendingToken is one filtered result.
type TrendingToken struct {
	Address         string  `json:"address"`
	Name            string  `json:"name"`
	Symbol          string  `json:"symbol"`
	MarketCap       string  `json:"marketCap"`
	Volume24        string  `json:"volume24"`
	Liquidity       string  `json:"liquidity"`
	Transactions24h int     `json:"transactions24h"`
	Image           string  `json:"image,omitempty"`
	ListedAt        string  `json:"listedAt,omitempty"`
	HoldersCount    int     `json:"holdersCount"`
	Change1         float64 `json:"change1"`
	Change4         float64 `json:"change4"`
	Change12        float64 `json:"change12"`
	Change24        float64 `json:"change24"`
}

// TrendingTokensOutput represents the response from filterTrendingTokens.
// Results render client-side as a token grid.
type TrendingTokensOutput struct {
	SuppressFollowUp bool            `json:"suppressFollowUp"`
	Data             []TrendingToken `json:"data"`
}

// Config holds the tool's dependencies.
type Config struct {
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
}

type filterTokensResponse struct {
	Data struct {
		FilterTokens struct {
			Results []struct {
				Token struct {
					Address       string `json:"address"`
					Name          string `json:"name"`
					Symbol        string `json:"symbol"`
					ImageThumbURL string `json:"imageThumbUrl"`
				} `json:"token"`
				MarketCap            string `json:"marketCap"`
				Volume24             string `json:"volume24"`
				Liquidity            string `json:"liquidity"`
				UniqueTransactions24 int    `json:"uniqueTransactions24"`
				Holders              int    `json:"holders"`
				CreatedAt            int64  `json:"createdAt"`
				Change1              string `json:"change1"`
				Change4              string `json:"change4"`
				Change12             string `json:"change12"`
				Change24             string `json:"change24"`
			} `json:"results"`
		} `json:"filterTokens"`
	} `json:"data"`
}

// Tool returns the filterTrendingTokens tool definition.
func Tool(cfg Config) (agent.Tool, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	return agent.NewGenericTool(Name, trendingTokensPrompt, func(ctx context.Context, input TrendingTokensInput) (TrendingTokensOutput, error) {
		applyDefaults(&input)

		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		variables := map[string]any{
			"filters":   buildFilters(input),
			"statsType": "FILTERED",
			"offset":    0,
			"limit":     fetchLimit,
			"rankings": []map[string]any{
				{"attribute": "trendingScore24", "direction": "DESC"},
			},
		}

		body := map[string]any{"query": filterTokensQuery, "variables": variables}
		headers := map[string]string{"Authorization": "Bearer " + cfg.APIKey}

		var resp filterTokensResponse
		if err := toolsutil.PostJSON(ctx, cfg.HTTPClient, cfg.Endpoint, body, headers, &resp); err != nil {
			return TrendingTokensOutput{}, fmt.Errorf("failed to filter trending tokens: %w", err)
		}

		tokens := transform(resp)
		sortTokens(tokens, input.SortBy, input.SortDirection)
		if len(tokens) > input.Limit {
			tokens = tokens[:input.Limit]
		}

		return TrendingTokensOutput{SuppressFollowUp: true, Data: tokens}, nil
	})
}

func applyDefaults(input *TrendingTokensInput) {
	if input.CreatedWithinHours <= 0 {
		input.CreatedWithinHours = 48
	}
	if input.SortBy == "" {
		input.SortBy = "trendingScore24"
	}
	if input.SortDirection == "" {
		input.SortDirection = "DESC"
	}
	if input.Limit <= 0 || input.Limit > 20 {
		input.Limit = 10
	}
}

func buildFilters(input TrendingTokensInput) map[string]any {
	filters := map[string]any{
		"potentialScam": false,
		"network":       []int{solanaNetworkID},
	}

	if rangeFilter := boundedRange(input.MinVolume24h, input.MaxVolume24h); rangeFilter != nil {
		filters["volume24"] = rangeFilter
	}
	if rangeFilter := boundedRange(input.MinLiquidity, input.MaxLiquidity); rangeFilter != nil {
		filters["liquidity"] = rangeFilter
	}
	if rangeFilter := boundedRange(input.MinMarketCap, input.MaxMarketCap); rangeFilter != nil {
		filters["marketCap"] = rangeFilter
	}
	filters["createdAt"] = map[string]any{
		"gte": time.Now().Add(-time.Duration(input.CreatedWithinHours) * time.Hour).Unix(),
	}
	return filters
}

func boundedRange(min, max float64) map[string]any {
	if min == 0 && max == 0 {
		return nil
	}
	rangeFilter := map[string]any{}
	if min != 0 {
		rangeFilter["gte"] = min
	}
	if max != 0 {
		rangeFilter["lte"] = max
	}
	return rangeFilter
}

func transform(resp filterTokensResponse) []TrendingToken {
	results := resp.Data.FilterTokens.Results
	tokens := make([]TrendingToken, 0, len(results))
	for _, r := range results {
		token := TrendingToken{
			Address:         r.Token.Address,
			Name:            r.Token.Name,
			Symbol:          r.Token.Symbol,
			MarketCap:       r.MarketCap,
			Volume24:        r.Volume24,
			Liquidity:       r.Liquidity,
			Transactions24h: r.UniqueTransactions24,
			Image:           r.Token.ImageThumbURL,
			HoldersCount:    r.Holders,
			Change1:         percent(r.Change1),
			Change4:         percent(r.Change4),
			Change12:        percent(r.Change12),
			Change24:        percent(r.Change24),
		}
		if r.CreatedAt > 0 {
			token.ListedAt = time.Unix(r.CreatedAt, 0).UTC().Format(time.RFC3339)
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func percent(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v * 100
}

func sortTokens(tokens []TrendingToken, sortBy, direction string) {
	value := func(t TrendingToken) float64 {
		switch sortBy {
		case "change1":
			return t.Change1
		case "change4":
			return t.Change4
		case "change12":
			return t.Change12
		case "change24":
			return t.Change24
		case "marketCap":
			return parse(t.MarketCap)
		case "volume24":
			return parse(t.Volume24)
		case "liquidity":
			return parse(t.Liquidity)
		default: // trendingScore24, transactions24h
			return float64(t.Transactions24h)
		}
	}
	sort.SliceStable(tokens, func(i, j int) bool {
		if direction == "ASC" {
			return value(tokens[i]) < value(tokens[j])
		}
		return value(tokens[i]) > value(tokens[j])
	})
}

func parse(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
