package aisdk

import (
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"
)

// StreamCallback is invoked for each chunk read from a stream.
type StreamCallback func(chunk *StreamChunk) error

// StreamToCallback drains a stream, invoking the callback per chunk. The
// stream is closed before returning.
func StreamToCallback(stream StreamInterface, callback StreamCallback) error {
	defer stream.Close()

	for {
		chunk, err := stream.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if chunk == nil {
			return nil
		}
		if err := callback(chunk); err != nil {
			return err
		}
	}
}

// StreamAggregator assembles a streamed response: text deltas concatenate
// into content, and tool-call deltas accumulate per index until complete.
type StreamAggregator struct {
	ID           string
	Model        string
	Created      int64
	Content      strings.Builder
	FinishReason string

	toolCalls map[int]*toolCallAccumulator
}

type toolCallAccumulator struct {
	id   string
	typ  string
	name string
	args strings.Builder
}

// NewStreamAggregator creates an empty aggregator.
func NewStreamAggregator() *StreamAggregator {
	return &StreamAggregator{
		toolCalls: make(map[int]*toolCallAccumulator),
	}
}

// AddChunk merges one streamed chunk into the aggregate.
func (a *StreamAggregator) AddChunk(chunk *StreamChunk) {
	if a.ID == "" {
		a.ID = chunk.ID
	}
	if a.Model == "" {
		a.Model = chunk.Model
	}
	if a.Created == 0 {
		a.Created = chunk.Created
	}
	if len(chunk.Choices) == 0 {
		return
	}

	choice := chunk.Choices[0]
	if choice.FinishReason != "" {
		a.FinishReason = choice.FinishReason
	}
	if choice.Delta == nil {
		return
	}

	if choice.Delta.Content != "" {
		a.Content.WriteString(choice.Delta.Content)
	}
	for _, delta := range choice.Delta.ToolCalls {
		acc, ok := a.toolCalls[delta.Index]
		if !ok {
			acc = &toolCallAccumulator{}
			a.toolCalls[delta.Index] = acc
		}
		if delta.ID != "" {
			acc.id = delta.ID
		}
		if delta.Type != "" {
			acc.typ = delta.Type
		}
		if delta.Function != nil {
			if delta.Function.Name != "" {
				acc.name = delta.Function.Name
			}
			acc.args.WriteString(delta.Function.Arguments)
		}
	}
}

// ToolCalls returns the completed tool calls in index order.
func (a *StreamAggregator) ToolCalls() []ToolCall {
	if len(a.toolCalls) == 0 {
		return nil
	}

	indexes := make([]int, 0, len(a.toolCalls))
	for idx := range a.toolCalls {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	calls := make([]ToolCall, 0, len(indexes))
	for _, idx := range indexes {
		acc := a.toolCalls[idx]
		typ := acc.typ
		if typ == "" {
			typ = "function"
		}
		calls = append(calls, ToolCall{
			ID:   acc.id,
			Type: typ,
			Function: FunctionCall{
				Name:      acc.name,
				Arguments: json.RawMessage(acc.args.String()),
			},
		})
	}
	return calls
}

// Message returns the aggregated assistant message.
func (a *StreamAggregator) Message() *Message {
	return &Message{
		Role:      "assistant",
		Content:   a.Content.String(),
		ToolCalls: a.ToolCalls(),
	}
}
