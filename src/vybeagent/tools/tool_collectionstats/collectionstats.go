package tool_collectionstats

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/vybeagent/toolsutil"
)

// Tool name constant
const Name = "getCollectionStats"

const collectionStatsPrompt = `Get detailed statistics for a Magic Eden collection including floor price, listed count, average price, and total volume.`

const defaultBaseURL = "https://api-mainnet.magiceden.dev"

// Stats holds Magic Eden collection statistics. Prices are lamports.
type Stats struct {
	Symbol       string  `json:"symbol"`
	FloorPrice   float64 `json:"floorPrice"`
	ListedCount  int     `json:"listedCount"`
	AvgPrice24hr float64 `json:"avgPrice24hr"`
	VolumeAll    float64 `json:"volumeAll"`
}

// CollectionStatsInput represents the parameters for getCollectionStats
type CollectionStatsInput struct {
	Symbol string `json:"symbol" required:"true" description:"The collection symbol/slug to check"`
}

// CollectionStatsOutput represents the response from getCollectionStats.
type CollectionStatsOutput struct {
	SuppressFollowUp bool  `json:"suppressFollowUp"`
	Data             Stats `json:"data"`
}

// Config holds the tool's dependencies.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Tool returns the getCollectionStats tool definition.
func Tool(cfg Config) (agent.Tool, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return agent.NewGenericTool(Name, collectionStatsPrompt, func(ctx context.Context, input CollectionStatsInput) (CollectionStatsOutput, error) {
		endpoint := fmt.Sprintf("%s/v2/collections/%s/stats", cfg.BaseURL, url.PathEscape(input.Symbol))

		var stats Stats
		if err := toolsutil.GetJSON(ctx, cfg.HTTPClient, endpoint, &stats); err != nil {
			return CollectionStatsOutput{}, fmt.Errorf("failed to get collection stats: %w", err)
		}
		return CollectionStatsOutput{SuppressFollowUp: true, Data: stats}, nil
	})
}
