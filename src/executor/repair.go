package executor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/aisdk"
)

const repairPrompt = `The model called the tool %q with arguments that failed validation.

Tool description: %s

Arguments given:
%s

Validation error: %v

Produce corrected arguments for this tool call.`

// repairToolCall asks the model to regenerate arguments for a call that
// failed validation, constrained to the tool's parameter schema. One attempt
// only: if the regenerated arguments still fail validation the error is
// returned and the call is surfaced to the model as a failed result.
func (s *Service) repairToolCall(ctx context.Context, modelClient aisdk.ModelClient, tool agent.Tool, call *aisdk.ToolCall, cause error) (*aisdk.ToolCall, error) {
	prompt := fmt.Sprintf(repairPrompt, tool.Name(), tool.Description(), string(call.Function.Arguments), cause)

	repaired, err := modelClient.GenerateStructured(ctx, prompt, "repaired_arguments", tool.Parameters())
	if err != nil {
		return nil, fmt.Errorf("repair generation failed: %w", err)
	}

	if err := tool.CheckArgs(repaired); err != nil {
		return nil, fmt.Errorf("repaired arguments still invalid: %w", err)
	}

	s.logger.Info("repaired tool call arguments", "tool", tool.Name(), "call_id", call.ID)

	return &aisdk.ToolCall{
		ID:   call.ID,
		Type: call.Type,
		Function: aisdk.FunctionCall{
			Name:      call.Function.Name,
			Arguments: json.RawMessage(repaired),
		},
	}, nil
}
