package agent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybelabs/vybe/src/aisdk"
)

func toolCall(id, name, args string) *aisdk.ToolCall {
	return &aisdk.ToolCall{
		ID:   id,
		Type: "function",
		Function: aisdk.FunctionCall{
			Name:      name,
			Arguments: json.RawMessage(args),
		},
	}
}

type echoInput struct {
	Query string `json:"query" required:"true" description:"text to echo"`
}

type echoOutput struct {
	Echo string `json:"echo"`
}

func newEchoTool(t *testing.T, name string) Tool {
	t.Helper()
	tool, err := NewGenericTool(name, "echoes its input", func(ctx context.Context, in echoInput) (echoOutput, error) {
		return echoOutput{Echo: in.Query}, nil
	})
	require.NoError(t, err)
	return tool
}

func TestRegistryDuplicateNameIsError(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newEchoTool(t, "echo")))

	err := reg.Register(newEchoTool(t, "echo"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistryFrozenAfterInit(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newEchoTool(t, "echo")))
	reg.Freeze()

	err := reg.Register(newEchoTool(t, "other"))
	require.Error(t, err)

	tool, ok := reg.Lookup("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", tool.Name())

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistryToolsSorted(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterGroup([]Tool{
		newEchoTool(t, "zeta"),
		newEchoTool(t, "alpha"),
	}))

	tools := reg.Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, "alpha", tools[0].Name())
	assert.Equal(t, "zeta", tools[1].Name())
}

func TestGenericToolCheckArgs(t *testing.T) {
	tool := newEchoTool(t, "echo")

	assert.NoError(t, tool.CheckArgs(json.RawMessage(`{"query":"bonk"}`)))
	assert.Error(t, tool.CheckArgs(json.RawMessage(`{}`)), "missing required field")
	assert.Error(t, tool.CheckArgs(json.RawMessage(`{"query":`)), "truncated JSON")
}

func TestGenericToolExecuteErrorBecomesPayload(t *testing.T) {
	tool, err := NewGenericTool("boom", "always fails", func(ctx context.Context, in echoInput) (echoOutput, error) {
		return echoOutput{}, assert.AnError
	})
	require.NoError(t, err)

	resp, err := tool.Execute(context.Background(), toolCall("c1", "boom", `{"query":"x"}`))
	require.NoError(t, err)
	assert.True(t, resp.IsError)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(resp.Content, &payload))
	assert.NotEmpty(t, payload["error"])
}

func TestChatToolConversion(t *testing.T) {
	tool := newEchoTool(t, "echo")
	chatTool := ToChatTool(tool)

	assert.Equal(t, "function", chatTool.Type)
	assert.Equal(t, "echo", chatTool.Function.Name)
	require.NotNil(t, chatTool.Function.Parameters)
	assert.Contains(t, chatTool.Function.Parameters.Required, "query")
}
