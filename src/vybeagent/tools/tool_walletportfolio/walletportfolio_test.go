package tool_walletportfolio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vybelabs/vybe/src/aisdk"
)

const walletAddress = "DRiP2Pn2K6fuMLKQmt5rZWyHiUZ6WK3GChEySUpHSS2r"

func dasAsset(id, name, symbol string, balance float64, decimals int, price float64) map[string]any {
	return map[string]any{
		"id":        id,
		"interface": "FungibleToken",
		"content": map[string]any{
			"metadata": map[string]any{"name": name, "symbol": symbol},
		},
		"token_info": map[string]any{
			"balance":    balance,
			"decimals":   decimals,
			"price_info": map[string]any{"price_per_token": price},
		},
	}
}

func executePortfolio(t *testing.T, items []map[string]any) Portfolio {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "searchAssets", req["method"])

		params := req["params"].(map[string]any)
		assert.Equal(t, walletAddress, params["ownerAddress"])
		assert.Equal(t, "all", params["tokenType"])

		json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{"items": items},
		})
	}))
	t.Cleanup(server.Close)

	tool, err := Tool(Config{RPCURL: server.URL})
	require.NoError(t, err)

	args, err := json.Marshal(map[string]string{"walletAddress": walletAddress})
	require.NoError(t, err)

	resp, err := tool.Execute(context.Background(), &aisdk.ToolCall{
		Function: aisdk.FunctionCall{Name: Name, Arguments: args},
	})
	require.NoError(t, err)
	require.False(t, resp.IsError, "unexpected error payload: %s", resp.Content)

	var out WalletPortfolioOutput
	require.NoError(t, json.Unmarshal(resp.Content, &out))
	assert.True(t, out.SuppressFollowUp)
	return out.Data
}

func TestWalletPortfolioSolFirst(t *testing.T) {
	portfolio := executePortfolio(t, []map[string]any{
		dasAsset("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", "USD Coin", "USDC", 500e6, 6, 1.0),
		dasAsset(wrappedSolMint, "Wrapped SOL", "SOL", 2e9, 9, 150.0),
	})

	require.Len(t, portfolio.Tokens, 2)
	assert.Equal(t, "Solana", portfolio.Tokens[0].Name)
	assert.Equal(t, wrappedSolMint, portfolio.Tokens[0].Mint)
	assert.InDelta(t, 2.0, portfolio.Tokens[0].Balance, 1e-9)
	assert.InDelta(t, 800.0, portfolio.TotalBalance, 1e-6)
}

func TestWalletPortfolioDropsDust(t *testing.T) {
	portfolio := executePortfolio(t, []map[string]any{
		dasAsset("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", "USD Coin", "USDC", 100e6, 6, 1.0),
		// $0.50 holding, below the dust threshold.
		dasAsset("JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN", "Jupiter", "JUP", 1e6, 6, 0.5),
	})

	require.Len(t, portfolio.Tokens, 1)
	assert.Equal(t, "USDC", portfolio.Tokens[0].Symbol)
}

func TestWalletPortfolioSortsByValue(t *testing.T) {
	portfolio := executePortfolio(t, []map[string]any{
		dasAsset("JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN", "Jupiter", "JUP", 100e6, 6, 0.8),
		dasAsset("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", "USD Coin", "USDC", 500e6, 6, 1.0),
	})

	require.Len(t, portfolio.Tokens, 2)
	assert.Equal(t, "USDC", portfolio.Tokens[0].Symbol)
	assert.Equal(t, "JUP", portfolio.Tokens[1].Symbol)
}

func TestWalletPortfolioRejectsInvalidAddress(t *testing.T) {
	tool, err := Tool(Config{RPCURL: "http://unused.invalid"})
	require.NoError(t, err)

	args, err := json.Marshal(map[string]string{"walletAddress": "nope"})
	require.NoError(t, err)

	resp, err := tool.Execute(context.Background(), &aisdk.ToolCall{
		Function: aisdk.FunctionCall{Name: Name, Arguments: args},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsError)
	assert.Contains(t, string(resp.Content), "invalid Solana address")
}
