package tool_walletportfolio

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/vybeagent/toolsutil"
)

// Tool name constant
const Name = "getWalletPortfolio"

const walletPortfolioPrompt = `Get the portfolio of a Solana wallet, including detailed token information & total value, SOL value etc.`

const (
	wrappedSolMint = "So11111111111111111111111111111111111111112"

	// Tokens worth less than this are dust and dropped from the portfolio.
	minTokenValueUSD = 10

	// SOL plus at most this many other tokens.
	maxOtherTokens = 9
)

// WalletPortfolioInput represents the parameters for getWalletPortfolio
type WalletPortfolioInput struct {
	WalletAddress string `json:"walletAddress" required:"true" description:"A valid Solana wallet address (base58 encoded)"`
}

// PortfolioToken is one holding in the portfolio.
type PortfolioToken struct {
	Mint          string  `json:"mint"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	Balance       float64 `json:"balance"`
	PricePerToken float64 `json:"pricePerToken"`
	Decimals      int     `json:"decimals"`
}

// Portfolio is the transformed wallet view.
type Portfolio struct {
	Address      string           `json:"address"`
	TotalBalance float64          `json:"totalBalance"`
	Tokens       []PortfolioToken `json:"tokens"`
}

// WalletPortfolioOutput represents the response from getWalletPortfolio.
// The portfolio renders client-side, so no follow-up text is wanted.
type WalletPortfolioOutput struct {
	SuppressFollowUp bool      `json:"suppressFollowUp"`
	Data             Portfolio `json:"data"`
}

// Config holds the tool's dependencies.
type Config struct {
	// RPCURL is a Helius RPC endpoint with DAS support.
	RPCURL     string
	HTTPClient *http.Client
}

// asset is the subset of a DAS asset the portfolio needs.
type asset struct {
	ID        string `json:"id"`
	Interface string `json:"interface"`
	Content   struct {
		Metadata struct {
			Name   string `json:"name"`
			Symbol string `json:"symbol"`
		} `json:"metadata"`
		Links struct {
			Image string `json:"image"`
		} `json:"links"`
		Files []struct {
			URI string `json:"uri"`
		} `json:"files"`
	} `json:"content"`
	TokenInfo struct {
		Balance   float64 `json:"balance"`
		Decimals  int     `json:"decimals"`
		PriceInfo struct {
			PricePerToken float64 `json:"price_per_token"`
		} `json:"price_info"`
	} `json:"token_info"`
}

type searchAssetsResult struct {
	Result struct {
		Items []asset `json:"items"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Tool returns the getWalletPortfolio tool definition.
func Tool(cfg Config) (agent.Tool, error) {
	return agent.NewGenericTool(Name, walletPortfolioPrompt, func(ctx context.Context, input WalletPortfolioInput) (WalletPortfolioOutput, error) {
		if !toolsutil.IsSolanaAddress(input.WalletAddress) {
			return WalletPortfolioOutput{}, fmt.Errorf("invalid Solana address format, must be a base58 encoded string")
		}

		assets, err := searchWalletAssets(ctx, cfg, input.WalletAddress)
		if err != nil {
			return WalletPortfolioOutput{}, fmt.Errorf("failed to get wallet portfolio: %w", err)
		}

		return WalletPortfolioOutput{
			SuppressFollowUp: true,
			Data:             buildPortfolio(input.WalletAddress, assets),
		}, nil
	})
}

// searchWalletAssets queries the DAS searchAssets method for all fungible
// assets owned by the wallet.
func searchWalletAssets(ctx context.Context, cfg Config, walletAddress string) ([]asset, error) {
	request := map[string]any{
		"jsonrpc": "2.0",
		"id":      "request-id",
		"method":  "searchAssets",
		"params": map[string]any{
			"ownerAddress": walletAddress,
			"tokenType":    "all",
			"displayOptions": map[string]any{
				"showNativeBalance":      true,
				"showInscription":        false,
				"showCollectionMetadata": false,
			},
		},
	}

	var result searchAssetsResult
	if err := toolsutil.PostJSON(ctx, cfg.HTTPClient, cfg.RPCURL, request, nil, &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, fmt.Errorf("rpc error: %s", result.Error.Message)
	}

	var fungible []asset
	for _, item := range result.Result.Items {
		if item.Interface == "FungibleToken" || item.Interface == "FungibleAsset" {
			fungible = append(fungible, item)
		}
	}
	return fungible, nil
}

// buildPortfolio converts raw assets into the portfolio shape: SOL first,
// then the most valuable holdings above the dust threshold.
func buildPortfolio(address string, assets []asset) Portfolio {
	var solToken *PortfolioToken
	var others []PortfolioToken

	for _, a := range assets {
		token := PortfolioToken{
			Mint:          a.ID,
			Name:          a.Content.Metadata.Name,
			Symbol:        a.Content.Metadata.Symbol,
			ImageURL:      assetImage(a),
			Balance:       a.TokenInfo.Balance / math.Pow10(a.TokenInfo.Decimals),
			PricePerToken: a.TokenInfo.PriceInfo.PricePerToken,
			Decimals:      a.TokenInfo.Decimals,
		}

		if a.ID == wrappedSolMint {
			token.Name = "Solana"
			if solToken == nil {
				solToken = &token
			}
			continue
		}
		if token.Balance*token.PricePerToken > minTokenValueUSD {
			others = append(others, token)
		}
	}

	sort.SliceStable(others, func(i, j int) bool {
		return others[i].Balance*others[i].PricePerToken > others[j].Balance*others[j].PricePerToken
	})
	if len(others) > maxOtherTokens {
		others = others[:maxOtherTokens]
	}

	tokens := others
	if solToken != nil {
		tokens = append([]PortfolioToken{*solToken}, others...)
	}

	total := 0.0
	for _, token := range tokens {
		total += token.Balance * token.PricePerToken
	}

	return Portfolio{Address: address, TotalBalance: total, Tokens: tokens}
}

func assetImage(a asset) string {
	if len(a.Content.Files) > 0 && a.Content.Files[0].URI != "" {
		return a.Content.Files[0].URI
	}
	return a.Content.Links.Image
}
