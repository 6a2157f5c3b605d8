package llmclient

import (
	"context"
	"encoding/json"
	"fmt"

	jsonschema "github.com/swaggest/jsonschema-go"
	"github.com/vybelabs/vybe/src/aisdk"
)

var _ aisdk.ModelClient = (*BoundModel)(nil)

// BoundModel is a client bound to a specific model.
type BoundModel struct {
	client *Client
	model  string
}

// ModelID returns the bound model identifier.
func (m *BoundModel) ModelID() string {
	return m.model
}

// CreateChatCompletion creates a chat completion with the bound model.
func (m *BoundModel) CreateChatCompletion(ctx context.Context, req *aisdk.ChatCompletionRequest) (*aisdk.ChatCompletionResponse, error) {
	req.Model = m.model
	return m.client.createChatCompletion(ctx, req)
}

// CreateChatCompletionStream creates a streaming chat completion with the
// bound model.
func (m *BoundModel) CreateChatCompletionStream(ctx context.Context, req *aisdk.ChatCompletionRequest) (aisdk.StreamInterface, error) {
	req.Model = m.model
	return m.client.createChatCompletionStream(ctx, req)
}

// GenerateStructured issues a completion constrained to the given JSON schema
// and returns the raw object from the first choice.
func (m *BoundModel) GenerateStructured(ctx context.Context, prompt string, name string, schema *jsonschema.Schema) (json.RawMessage, error) {
	temperature := 0.0
	req := &aisdk.ChatCompletionRequest{
		Model:       m.model,
		Temperature: &temperature,
		Messages: []*aisdk.Message{
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &aisdk.ResponseFormat{
			Type: "json_schema",
			JSONSchema: &aisdk.JSONSchemaFormat{
				Name:   name,
				Strict: true,
				Schema: schema,
			},
		},
	}

	resp, err := m.client.createChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("structured generation returned invalid JSON: %q", content)
	}
	return json.RawMessage(content), nil
}
