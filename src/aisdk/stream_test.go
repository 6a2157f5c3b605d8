package aisdk

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceStream struct {
	chunks []*StreamChunk
	pos    int
}

func (s *sliceStream) Read() (*StreamChunk, error) {
	if s.pos >= len(s.chunks) {
		return nil, io.EOF
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return chunk, nil
}

func (s *sliceStream) Close() error { return nil }

func TestStreamAggregatorAssemblesToolCalls(t *testing.T) {
	stream := &sliceStream{chunks: []*StreamChunk{
		{ID: "cmpl-1", Model: "test-model", Choices: []Choice{{Delta: &DeltaMessage{Content: "Let me "}}}},
		{Choices: []Choice{{Delta: &DeltaMessage{Content: "check."}}}},
		{Choices: []Choice{{Delta: &DeltaMessage{ToolCalls: []ToolCallDelta{
			{Index: 0, ID: "call_1", Type: "function", Function: &FunctionCallDelta{Name: "getTokenPrice", Arguments: `{"token`}},
		}}}}},
		{Choices: []Choice{{Delta: &DeltaMessage{ToolCalls: []ToolCallDelta{
			{Index: 0, Function: &FunctionCallDelta{Arguments: `Address":"abc"}`}},
		}}}}},
		{Choices: []Choice{{FinishReason: "tool_calls"}}},
	}}

	agg := NewStreamAggregator()
	err := StreamToCallback(stream, func(chunk *StreamChunk) error {
		agg.AddChunk(chunk)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "cmpl-1", agg.ID)
	assert.Equal(t, "Let me check.", agg.Content.String())
	assert.Equal(t, "tool_calls", agg.FinishReason)

	calls := agg.ToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "call_1", calls[0].ID)
	assert.Equal(t, "function", calls[0].Type)
	assert.Equal(t, "getTokenPrice", calls[0].Function.Name)
	assert.JSONEq(t, `{"tokenAddress":"abc"}`, string(calls[0].Function.Arguments))
}

func TestStreamAggregatorInterleavedIndexes(t *testing.T) {
	agg := NewStreamAggregator()
	agg.AddChunk(&StreamChunk{Choices: []Choice{{Delta: &DeltaMessage{ToolCalls: []ToolCallDelta{
		{Index: 1, ID: "call_b", Function: &FunctionCallDelta{Name: "b", Arguments: `{}`}},
		{Index: 0, ID: "call_a", Function: &FunctionCallDelta{Name: "a", Arguments: `{}`}},
	}}}}})

	calls := agg.ToolCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "call_a", calls[0].ID)
	assert.Equal(t, "call_b", calls[1].ID)
}
