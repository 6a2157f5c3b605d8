// Package aisdk defines the message model shared by the chat pipeline: the
// wire format spoken to chat-completion providers, the typed content parts
// persisted in the conversation store, and the normalized shape consumed by
// clients.
package aisdk

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	jsonschema "github.com/swaggest/jsonschema-go"
)

// Message is a single message in provider wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	// Name identifies the tool for role "tool" messages.
	Name string `json:"name,omitempty"`
	// ToolCallID references the originating call for role "tool" messages.
	ToolCallID string `json:"tool_call_id,omitempty"`
	// ToolCalls contains function calls requested by the assistant.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall represents a function call request from the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"` // always "function"
	Function FunctionCall `json:"function"`
}

// FunctionCall contains the function name and raw JSON arguments.
type FunctionCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResponse is the outcome of executing a single tool call.
type ToolResponse struct {
	Content []byte `json:"content"`
	IsError bool   `json:"is_error"`
}

// ChatCompletionRequest is a request to a chat completions endpoint.
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []*Message      `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      *int            `json:"max_tokens,omitempty"`
	Stream         bool            `json:"stream,omitempty"`
	Tools          []*ChatTool     `json:"tools,omitempty"`
	ToolChoice     string          `json:"tool_choice,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ResponseFormat constrains model output. Type "json_schema" with a schema
// attached is used for structured generation (tool-call repair, titles).
type ResponseFormat struct {
	Type       string            `json:"type"` // "text", "json_object" or "json_schema"
	JSONSchema *JSONSchemaFormat `json:"json_schema,omitempty"`
}

// JSONSchemaFormat names the schema the model output must satisfy.
type JSONSchemaFormat struct {
	Name   string             `json:"name"`
	Strict bool               `json:"strict,omitempty"`
	Schema *jsonschema.Schema `json:"schema"`
}

// ChatTool is a tool definition in the format expected by chat APIs.
type ChatTool struct {
	Type     string           `json:"type"`
	Function ChatToolFunction `json:"function"`
}

// ChatToolFunction is the function definition carried by a ChatTool.
type ChatToolFunction struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// ChatCompletionResponse is a non-streaming completion response.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is a single completion choice.
type Choice struct {
	Index        int           `json:"index"`
	Message      Message       `json:"message"`
	FinishReason string        `json:"finish_reason"`
	Delta        *DeltaMessage `json:"delta,omitempty"` // streaming only
}

// DeltaMessage is an incremental streamed fragment of an assistant message.
type DeltaMessage struct {
	Role      string          `json:"role,omitempty"`
	Content   string          `json:"content,omitempty"`
	ToolCalls []ToolCallDelta `json:"tool_calls,omitempty"`
}

// ToolCallDelta is an incremental fragment of a tool call. The id and name
// arrive on the first fragment for an index; argument JSON is streamed as
// string fragments that concatenate in order.
type ToolCallDelta struct {
	Index    int                `json:"index"`
	ID       string             `json:"id,omitempty"`
	Type     string             `json:"type,omitempty"`
	Function *FunctionCallDelta `json:"function,omitempty"`
}

// FunctionCallDelta carries partial function call data for a ToolCallDelta.
type FunctionCallDelta struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// Usage reports token accounting for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// StreamChunk is a single chunk in a streaming response.
type StreamChunk struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// Error is an API error payload.
type Error struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// ErrorResponse wraps an error returned by the API.
type ErrorResponse struct {
	Error Error `json:"error"`
}

// ClientConfig holds configuration for provider clients.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	RetryCount int
	RetryDelay time.Duration
	Logger     *slog.Logger
}

// StreamInterface reads a streaming completion chunk by chunk. Read returns
// io.EOF when the stream is complete.
type StreamInterface interface {
	Read() (*StreamChunk, error)
	Close() error
}

// ModelClient is a client bound to a specific model.
type ModelClient interface {
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
	CreateChatCompletionStream(ctx context.Context, req *ChatCompletionRequest) (StreamInterface, error)
	// GenerateStructured issues a completion constrained to the given JSON
	// schema and returns the raw object. Used for tool-call repair and
	// conversation titles.
	GenerateStructured(ctx context.Context, prompt string, name string, schema *jsonschema.Schema) (json.RawMessage, error)
	ModelID() string
}

// Provider hands out model clients by name.
type Provider interface {
	Model(ctx context.Context, modelName string) (ModelClient, error)
}
