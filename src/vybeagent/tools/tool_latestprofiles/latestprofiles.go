package tool_latestprofiles

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/vybeagent/toolsutil"
)

// Tool name constant
const Name = "getLatestTokenProfiles"

const latestProfilesPrompt = `Get the latest token profiles from DexScreener, focusing on Solana tokens. This shows tokens with verified profiles including their descriptions, social links, and branding assets.`

const defaultBaseURL = "https://api.dexscreener.com"

// Profile is one token profile on DexScreener.
type Profile struct {
	URL          string `json:"url"`
	ChainID      string `json:"chainId"`
	TokenAddress string `json:"tokenAddress"`
	Icon         string `json:"icon,omitempty"`
	Header       string `json:"header,omitempty"`
	Description  string `json:"description,omitempty"`
	Links        []struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	} `json:"links,omitempty"`
}

// LatestProfilesInput represents the parameters for getLatestTokenProfiles
type LatestProfilesInput struct{}

// LatestProfilesOutput represents the response from getLatestTokenProfiles.
type LatestProfilesOutput struct {
	SuppressFollowUp bool      `json:"suppressFollowUp"`
	Data             []Profile `json:"data"`
}

// Config holds the tool's dependencies.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Tool returns the getLatestTokenProfiles tool definition.
func Tool(cfg Config) (agent.Tool, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return agent.NewGenericTool(Name, latestProfilesPrompt, func(ctx context.Context, input LatestProfilesInput) (LatestProfilesOutput, error) {
		var profiles []Profile
		if err := toolsutil.GetJSON(ctx, cfg.HTTPClient, cfg.BaseURL+"/token-profiles/latest/v1", &profiles); err != nil {
			return LatestProfilesOutput{}, fmt.Errorf("failed to get token profiles: %w", err)
		}

		// Only Solana profiles are relevant here.
		solana := profiles[:0]
		for _, p := range profiles {
			if p.ChainID == "solana" {
				solana = append(solana, p)
			}
		}
		return LatestProfilesOutput{SuppressFollowUp: true, Data: solana}, nil
	})
}
