package tool_popularcollections

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/vybeagent/toolsutil"
)

// Tool name constant
const Name = "getPopularCollections"

const popularCollectionsPrompt = `Get the most popular collections on Magic Eden based on volume and activity. Time range must be one of: 1h, 1d, 7d, 30d.`

const (
	defaultBaseURL = "https://api-mainnet.magiceden.dev"
	fetchLimit     = 50
	defaultLimit   = 10
)

// Collection is one popular collection entry.
type Collection struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	FloorPrice  float64 `json:"floorPrice"`
	VolumeAll   float64 `json:"volumeAll"`
	HasCNFTs    bool    `json:"hasCNFTs"`
}

// PopularCollectionsInput represents the parameters for getPopularCollections
type PopularCollectionsInput struct {
	TimeRange string `json:"timeRange" required:"true" description:"Time range for popularity metrics: 1h, 1d, 7d, or 30d"`
	Limit     int    `json:"limit,omitempty" description:"Maximum number of collections to return (default 10)"`
}

// PopularCollectionsOutput represents the response from getPopularCollections.
type PopularCollectionsOutput struct {
	SuppressFollowUp bool         `json:"suppressFollowUp"`
	Data             []Collection `json:"data"`
}

// Config holds the tool's dependencies.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

var validTimeRanges = map[string]bool{"1h": true, "1d": true, "7d": true, "30d": true}

// Tool returns the getPopularCollections tool definition.
func Tool(cfg Config) (agent.Tool, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return agent.NewGenericTool(Name, popularCollectionsPrompt, func(ctx context.Context, input PopularCollectionsInput) (PopularCollectionsOutput, error) {
		if !validTimeRanges[input.TimeRange] {
			return PopularCollectionsOutput{}, fmt.Errorf("timeRange must be one of: 1h, 1d, 7d, 30d")
		}
		if input.Limit <= 0 {
			input.Limit = defaultLimit
		}

		endpoint := fmt.Sprintf("%s/v2/marketplace/popular_collections?time_range=%s&limit=%d",
			cfg.BaseURL, url.QueryEscape(input.TimeRange), fetchLimit)

		var collections []Collection
		if err := toolsutil.GetJSON(ctx, cfg.HTTPClient, endpoint, &collections); err != nil {
			return PopularCollectionsOutput{}, fmt.Errorf("failed to get popular collections: %w", err)
		}

		// The API repeats collections across marketplaces; keep the first
		// entry per symbol.
		seen := make(map[string]bool, len(collections))
		unique := collections[:0]
		for _, c := range collections {
			if seen[c.Symbol] {
				continue
			}
			seen[c.Symbol] = true
			unique = append(unique, c)
		}
		if len(unique) > input.Limit {
			unique = unique[:input.Limit]
		}
		return PopularCollectionsOutput{SuppressFollowUp: true, Data: unique}, nil
	})
}
