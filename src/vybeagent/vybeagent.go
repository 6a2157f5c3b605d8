// Package vybeagent assembles the Solana assistant: its tool registry and
// its system prompt.
package vybeagent

import (
	"fmt"
	"net/http"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/vybeagent/tools"
	"github.com/vybelabs/vybe/src/vybeagent/tools/tool_collectionactivities"
	"github.com/vybelabs/vybe/src/vybeagent/tools/tool_collectionstats"
	"github.com/vybelabs/vybe/src/vybeagent/tools/tool_latestprofiles"
	"github.com/vybelabs/vybe/src/vybeagent/tools/tool_popularcollections"
	"github.com/vybelabs/vybe/src/vybeagent/tools/tool_searchtoken"
	"github.com/vybelabs/vybe/src/vybeagent/tools/tool_swaptokens"
	"github.com/vybelabs/vybe/src/vybeagent/tools/tool_tokenorders"
	"github.com/vybelabs/vybe/src/vybeagent/tools/tool_tokenprice"
	"github.com/vybelabs/vybe/src/vybeagent/tools/tool_tokenprofile"
	"github.com/vybelabs/vybe/src/vybeagent/tools/tool_trendingtokens"
	"github.com/vybelabs/vybe/src/vybeagent/tools/tool_walletportfolio"
	"github.com/vybelabs/vybe/src/vybeagent/tools/tool_webreader"
)

// Config holds the credentials and dependencies the tool groups need.
type Config struct {
	// HeliusRPCURL is a Solana RPC endpoint with DAS support.
	HeliusRPCURL string

	// CodexAPIKey authorizes the trending-token GraphQL API.
	CodexAPIKey string

	// Swapper executes swaps for the user's embedded wallet. Nil disables
	// the swap tool.
	Swapper tool_swaptokens.Swapper

	// HTTPClient overrides the shared client used by all tools.
	HTTPClient *http.Client
}

// DefaultRegistry builds the full tool registry and freezes it.
func DefaultRegistry(cfg Config) (*agent.Registry, error) {
	registry := agent.NewRegistry()

	groups := []struct {
		name  string
		build func(Config) ([]agent.Tool, error)
	}{
		{"wallet", WalletTools},
		{"market", MarketTools},
		{"nft", NFTTools},
		{"web", WebTools},
	}

	for _, group := range groups {
		groupTools, err := group.build(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s tools: %w", group.name, err)
		}
		if err := registry.RegisterGroup(groupTools); err != nil {
			return nil, fmt.Errorf("failed to register %s tools: %w", group.name, err)
		}
	}

	registry.Freeze()
	return registry, nil
}

// WalletTools builds the wallet group: portfolio lookup and swaps.
func WalletTools(cfg Config) ([]agent.Tool, error) {
	portfolio, err := tools.WalletPortfolioTool(tool_walletportfolio.Config{
		RPCURL:     cfg.HeliusRPCURL,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	out := []agent.Tool{portfolio}
	if cfg.Swapper != nil {
		swap, err := tools.SwapTokensTool(cfg.Swapper)
		if err != nil {
			return nil, err
		}
		out = append(out, swap)
	}
	return out, nil
}

// MarketTools builds the market-data group: token search, prices, trending
// tokens, and DexScreener lookups.
func MarketTools(cfg Config) ([]agent.Tool, error) {
	search, err := tools.SearchTokenTool(tool_searchtoken.Config{HTTPClient: cfg.HTTPClient})
	if err != nil {
		return nil, err
	}
	price, err := tools.TokenPriceTool(tool_tokenprice.Config{HTTPClient: cfg.HTTPClient})
	if err != nil {
		return nil, err
	}
	trending, err := tools.TrendingTokensTool(tool_trendingtokens.Config{
		APIKey:     cfg.CodexAPIKey,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}
	orders, err := tools.TokenOrdersTool(tool_tokenorders.Config{HTTPClient: cfg.HTTPClient})
	if err != nil {
		return nil, err
	}
	profile, err := tools.TokenProfileTool(tool_tokenprofile.Config{HTTPClient: cfg.HTTPClient})
	if err != nil {
		return nil, err
	}
	latest, err := tools.LatestProfilesTool(tool_latestprofiles.Config{HTTPClient: cfg.HTTPClient})
	if err != nil {
		return nil, err
	}
	return []agent.Tool{search, price, trending, orders, profile, latest}, nil
}

// NFTTools builds the Magic Eden group.
func NFTTools(cfg Config) ([]agent.Tool, error) {
	stats, err := tools.CollectionStatsTool(tool_collectionstats.Config{HTTPClient: cfg.HTTPClient})
	if err != nil {
		return nil, err
	}
	activities, err := tools.CollectionActivitiesTool(tool_collectionactivities.Config{HTTPClient: cfg.HTTPClient})
	if err != nil {
		return nil, err
	}
	popular, err := tools.PopularCollectionsTool(tool_popularcollections.Config{HTTPClient: cfg.HTTPClient})
	if err != nil {
		return nil, err
	}
	return []agent.Tool{stats, activities, popular}, nil
}

// WebTools builds the web group.
func WebTools(cfg Config) ([]agent.Tool, error) {
	reader, err := tools.WebReaderTool(tool_webreader.Config{HTTPClient: cfg.HTTPClient})
	if err != nil {
		return nil, err
	}
	return []agent.Tool{reader}, nil
}
