package vybeagent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vybelabs/vybe/src/aisdk"
	"github.com/vybelabs/vybe/src/vybeagent/tools"
)

type fakeSwapper struct{}

func (fakeSwapper) Trade(ctx context.Context, outputMint string, amount float64, inputMint string, slippageBps int) (string, error) {
	return "signature", nil
}

func TestDefaultRegistry(t *testing.T) {
	registry, err := DefaultRegistry(Config{
		HeliusRPCURL: "http://localhost:8899",
		CodexAPIKey:  "key",
		Swapper:      fakeSwapper{},
	})
	require.NoError(t, err)

	expected := []string{
		tools.SearchTokenName,
		tools.TokenPriceName,
		tools.WalletPortfolioName,
		tools.SwapTokensName,
		tools.TrendingTokensName,
		tools.TokenOrdersName,
		tools.TokenProfileName,
		tools.LatestProfilesName,
		tools.CollectionStatsName,
		tools.CollectionActivitiesName,
		tools.PopularCollectionsName,
		tools.WebReaderName,
	}
	assert.Len(t, registry.Tools(), len(expected))
	for _, name := range expected {
		_, ok := registry.Lookup(name)
		assert.True(t, ok, "missing tool %q", name)
	}

	// The registry is frozen after assembly.
	tool, _ := registry.Lookup(tools.SearchTokenName)
	assert.Error(t, registry.Register(tool))
}

func TestDefaultRegistryWithoutSwapper(t *testing.T) {
	registry, err := DefaultRegistry(Config{HeliusRPCURL: "http://localhost:8899"})
	require.NoError(t, err)

	_, ok := registry.Lookup(tools.SwapTokensName)
	assert.False(t, ok)
	assert.Len(t, registry.Tools(), 11)
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt("DRiP2Pn2K6fuMLKQmt5rZWyHiUZ6WK3GChEySUpHSS2r", []aisdk.Attachment{
		{Name: "chart.png", URL: "https://files.example.com/chart.png", ContentType: "image/png"},
	})

	assert.Contains(t, prompt, DefaultSystemPrompt)
	assert.Contains(t, prompt, "History of attachments:")
	assert.Contains(t, prompt, "chart.png")
	assert.Contains(t, prompt, "User Solana wallet public key: DRiP2Pn2K6fuMLKQmt5rZWyHiUZ6WK3GChEySUpHSS2r")
}

func TestBuildSystemPromptBareIsDefault(t *testing.T) {
	assert.Equal(t, DefaultSystemPrompt, BuildSystemPrompt("", nil))
}
