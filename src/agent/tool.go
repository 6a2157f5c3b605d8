// Package agent provides the tool abstraction and the name-keyed registry
// the orchestrator dispatches against.
package agent

import (
	"context"
	"encoding/json"

	jsonschema "github.com/swaggest/jsonschema-go"

	"github.com/vybelabs/vybe/src/aisdk"
)

// Tool is a named, schema-validated action the model may invoke.
type Tool interface {
	// Name returns the tool's unique name.
	Name() string

	// Description returns the tool's description shown to the model.
	Description() string

	// Parameters returns the JSON schema for the tool's arguments.
	Parameters() *jsonschema.Schema

	// CheckArgs validates raw arguments against the tool's input shape
	// without executing. A non-nil error marks the call as repairable.
	CheckArgs(args json.RawMessage) error

	// Execute runs the tool. Execution failures are reported through
	// ToolResponse.IsError, not the error return, so a turn can continue.
	Execute(ctx context.Context, call *aisdk.ToolCall) (*aisdk.ToolResponse, error)
}

// ToChatTool converts a Tool to the wire definition sent to chat APIs.
func ToChatTool(tool Tool) *aisdk.ChatTool {
	return &aisdk.ChatTool{
		Type: "function",
		Function: aisdk.ChatToolFunction{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		},
	}
}

// ToChatTools converts a slice of tools to wire definitions.
func ToChatTools(tools []Tool) []*aisdk.ChatTool {
	chatTools := make([]*aisdk.ChatTool, len(tools))
	for i, tool := range tools {
		chatTools[i] = ToChatTool(tool)
	}
	return chatTools
}
