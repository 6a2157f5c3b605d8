package tool_swaptokens

import (
	"context"
	"fmt"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/vybeagent/toolsutil"
)

// Tool name constant
const Name = "swapTokens"

const swapTokensPrompt = `Swap tokens using Jupiter Exchange with the embedded wallet.`

// defaultSlippageBps is 3% slippage.
const defaultSlippageBps = 300

// Swapper executes a token swap on behalf of the user's embedded wallet and
// returns the transaction signature.
type Swapper interface {
	Trade(ctx context.Context, outputMint string, amount float64, inputMint string, slippageBps int) (string, error)
}

// SwapTokensInput represents the parameters for swapTokens
type SwapTokensInput struct {
	InputMint   string  `json:"inputMint" required:"true" description:"Source token mint address (base58 encoded)"`
	OutputMint  string  `json:"outputMint" required:"true" description:"Target token mint address (base58 encoded)"`
	Amount      float64 `json:"amount" required:"true" description:"Amount to swap"`
	SlippageBps int     `json:"slippageBps,omitempty" description:"Slippage tolerance in basis points (0-10000)"`
}

// SwapTokensOutput represents the response from swapTokens
type SwapTokensOutput struct {
	Signature   string  `json:"signature" description:"Transaction signature, viewable on Solscan"`
	InputMint   string  `json:"inputMint"`
	OutputMint  string  `json:"outputMint"`
	Amount      float64 `json:"amount"`
	SlippageBps int     `json:"slippageBps"`
}

// Tool returns the swapTokens tool definition.
func Tool(swapper Swapper) (agent.Tool, error) {
	return agent.NewGenericTool(Name, swapTokensPrompt, func(ctx context.Context, input SwapTokensInput) (SwapTokensOutput, error) {
		if swapper == nil {
			return SwapTokensOutput{}, fmt.Errorf("no wallet available for swaps")
		}
		if !toolsutil.IsSolanaAddress(input.InputMint) {
			return SwapTokensOutput{}, fmt.Errorf("invalid input mint address")
		}
		if !toolsutil.IsSolanaAddress(input.OutputMint) {
			return SwapTokensOutput{}, fmt.Errorf("invalid output mint address")
		}
		if input.Amount <= 0 {
			return SwapTokensOutput{}, fmt.Errorf("amount must be positive")
		}
		if input.SlippageBps < 0 || input.SlippageBps > 10000 {
			return SwapTokensOutput{}, fmt.Errorf("slippageBps must be between 0 and 10000")
		}
		if input.SlippageBps == 0 {
			input.SlippageBps = defaultSlippageBps
		}

		logger := toolsutil.GetLogger()
		logger.Info("executing swap",
			"input_mint", input.InputMint,
			"output_mint", input.OutputMint,
			"amount", input.Amount,
			"slippage_bps", input.SlippageBps)

		signature, err := swapper.Trade(ctx, input.OutputMint, input.Amount, input.InputMint, input.SlippageBps)
		if err != nil {
			return SwapTokensOutput{}, fmt.Errorf("failed to execute swap: %w", err)
		}

		return SwapTokensOutput{
			Signature:   signature,
			InputMint:   input.InputMint,
			OutputMint:  input.OutputMint,
			Amount:      input.Amount,
			SlippageBps: input.SlippageBps,
		}, nil
	})
}
