package tool_collectionactivities

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/vybeagent/toolsutil"
)

// Tool name constant
const Name = "getCollectionActivities"

const collectionActivitiesPrompt = `Get recent trading activities for a Magic Eden collection including bids, listings, and sales.`

const defaultBaseURL = "https://api-mainnet.magiceden.dev"

// maxActivities caps how many recent activities are returned.
const maxActivities = 10

// Activity is one marketplace event for a collection.
type Activity struct {
	Signature        string  `json:"signature"`
	Type             string  `json:"type"`
	Source           string  `json:"source"`
	Collection       string  `json:"collection"`
	CollectionSymbol string  `json:"collectionSymbol"`
	Slot             int64   `json:"slot"`
	BlockTime        int64   `json:"blockTime"`
	Buyer            string  `json:"buyer,omitempty"`
	Seller           string  `json:"seller,omitempty"`
	Price            float64 `json:"price"`
}

// CollectionActivitiesInput represents the parameters for getCollectionActivities
type CollectionActivitiesInput struct {
	Symbol string `json:"symbol" required:"true" description:"The collection symbol/slug to check"`
}

// CollectionActivitiesOutput represents the response from getCollectionActivities.
type CollectionActivitiesOutput struct {
	SuppressFollowUp bool       `json:"suppressFollowUp"`
	Data             []Activity `json:"data"`
}

// Config holds the tool's dependencies.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Tool returns the getCollectionActivities tool definition.
func Tool(cfg Config) (agent.Tool, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return agent.NewGenericTool(Name, collectionActivitiesPrompt, func(ctx context.Context, input CollectionActivitiesInput) (CollectionActivitiesOutput, error) {
		endpoint := fmt.Sprintf("%s/v2/collections/%s/activities", cfg.BaseURL, url.PathEscape(input.Symbol))

		var activities []Activity
		if err := toolsutil.GetJSON(ctx, cfg.HTTPClient, endpoint, &activities); err != nil {
			return CollectionActivitiesOutput{}, fmt.Errorf("failed to get collection activities: %w", err)
		}
		if len(activities) > maxActivities {
			activities = activities[:maxActivities]
		}
		return CollectionActivitiesOutput{SuppressFollowUp: true, Data: activities}, nil
	})
}
