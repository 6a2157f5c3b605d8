package aisdk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeContentShapes(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, parts Parts)
	}{
		{
			name: "bare string becomes one text part",
			raw:  `"hello there"`,
			check: func(t *testing.T, parts Parts) {
				require.Len(t, parts, 1)
				assert.Equal(t, TextPart{Text: "hello there"}, parts[0])
			},
		},
		{
			name: "part array",
			raw:  `[{"type":"text","text":"hi"},{"type":"tool-call","toolCallId":"c1","toolName":"searchToken","args":{"query":"bonk"}}]`,
			check: func(t *testing.T, parts Parts) {
				require.Len(t, parts, 2)
				call, ok := parts[1].(ToolCallPart)
				require.True(t, ok)
				assert.Equal(t, "c1", call.ToolCallID)
				assert.Equal(t, "searchToken", call.ToolName)
			},
		},
		{
			name: "legacy nested object unwraps once",
			raw:  `{"content":[{"type":"text","text":"nested"}]}`,
			check: func(t *testing.T, parts Parts) {
				require.Len(t, parts, 1)
				assert.Equal(t, TextPart{Text: "nested"}, parts[0])
			},
		},
		{
			name: "unknown tag preserved",
			raw:  `[{"type":"reasoning","thought":"hmm"}]`,
			check: func(t *testing.T, parts Parts) {
				require.Len(t, parts, 1)
				unknown, ok := parts[0].(UnknownPart)
				require.True(t, ok)
				assert.Equal(t, "reasoning", unknown.Type)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, err := DecodeContent(json.RawMessage(tt.raw))
			require.NoError(t, err)
			tt.check(t, parts)
		})
	}
}

func TestDecodeContentRejectsDoubleNesting(t *testing.T) {
	_, err := DecodeContent(json.RawMessage(`{"content":{"content":[]}}`))
	assert.Error(t, err)
}

func TestContentRoundTrip(t *testing.T) {
	parts := Parts{
		TextPart{Text: "swap done"},
		ToolCallPart{ToolCallID: "c1", ToolName: "swapTokens", Args: json.RawMessage(`{"amount":1}`)},
		ToolResultPart{ToolCallID: "c1", Result: json.RawMessage(`{"success":true}`)},
		ImagePart{Image: "data:image/png;base64,xyz"},
	}

	raw, err := EncodeContent(parts)
	require.NoError(t, err)

	decoded, err := DecodeContent(raw)
	require.NoError(t, err)
	assert.Equal(t, parts, decoded)
}

func TestUnknownPartSurvivesRoundTrip(t *testing.T) {
	raw := json.RawMessage(`[{"type":"reasoning","thought":"hmm"}]`)
	parts, err := DecodeContent(raw)
	require.NoError(t, err)

	encoded, err := EncodeContent(parts)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(encoded))
}
