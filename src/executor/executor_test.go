package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	jsonschema "github.com/swaggest/jsonschema-go"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/aisdk"
	"github.com/vybelabs/vybe/src/storage"
)

// fakeStream replays a fixed chunk sequence.
type fakeStream struct {
	chunks []*aisdk.StreamChunk
	pos    int
}

func (s *fakeStream) Read() (*aisdk.StreamChunk, error) {
	if s.pos >= len(s.chunks) {
		return nil, io.EOF
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return chunk, nil
}

func (s *fakeStream) Close() error { return nil }

// fakeModel scripts one chunk sequence per model step and canned structured
// generations keyed by schema name.
type fakeModel struct {
	mu         sync.Mutex
	steps      [][]*aisdk.StreamChunk
	step       int
	structured map[string]json.RawMessage

	structuredCalls []string
}

func (m *fakeModel) ModelID() string { return "fake-model" }

func (m *fakeModel) CreateChatCompletion(ctx context.Context, req *aisdk.ChatCompletionRequest) (*aisdk.ChatCompletionResponse, error) {
	return nil, fmt.Errorf("not scripted")
}

func (m *fakeModel) CreateChatCompletionStream(ctx context.Context, req *aisdk.ChatCompletionRequest) (aisdk.StreamInterface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.step >= len(m.steps) {
		return nil, fmt.Errorf("no scripted step %d", m.step)
	}
	chunks := m.steps[m.step]
	m.step++
	return &fakeStream{chunks: chunks}, nil
}

func (m *fakeModel) GenerateStructured(ctx context.Context, prompt, name string, schema *jsonschema.Schema) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.structuredCalls = append(m.structuredCalls, name)
	if out, ok := m.structured[name]; ok {
		return out, nil
	}
	return nil, fmt.Errorf("no structured output for %q", name)
}

type fakeProvider struct{ model *fakeModel }

func (p *fakeProvider) Model(ctx context.Context, name string) (aisdk.ModelClient, error) {
	return p.model, nil
}

// recordingSink collects events synchronously.
type recordingSink struct {
	mu     sync.Mutex
	events []TurnEvent
}

func (s *recordingSink) Send(event TurnEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) Close() error { return nil }

func (s *recordingSink) ofType(t EventType) []TurnEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []TurnEvent
	for _, e := range s.events {
		if e.GetType() == t {
			out = append(out, e)
		}
	}
	return out
}

func textChunk(content string) *aisdk.StreamChunk {
	return &aisdk.StreamChunk{Choices: []aisdk.Choice{{Delta: &aisdk.DeltaMessage{Content: content}}}}
}

func finishChunk(reason string) *aisdk.StreamChunk {
	return &aisdk.StreamChunk{Choices: []aisdk.Choice{{Delta: &aisdk.DeltaMessage{}, FinishReason: reason}}}
}

func toolCallChunk(id, name, args string) *aisdk.StreamChunk {
	return &aisdk.StreamChunk{Choices: []aisdk.Choice{{
		Delta: &aisdk.DeltaMessage{ToolCalls: []aisdk.ToolCallDelta{{
			Index:    0,
			ID:       id,
			Type:     "function",
			Function: &aisdk.FunctionCallDelta{Name: name, Arguments: args},
		}}},
		FinishReason: "tool_calls",
	}}}
}

type lookupInput struct {
	Address string `json:"address" required:"true"`
}

type lookupOutput struct {
	Price float64 `json:"price"`
}

func newLookupTool(t *testing.T) agent.Tool {
	t.Helper()
	tool, err := agent.NewGenericTool("lookupPrice", "Look up the price of a token.",
		func(ctx context.Context, in lookupInput) (lookupOutput, error) {
			if in.Address == "boom" {
				return lookupOutput{}, fmt.Errorf("upstream unavailable")
			}
			return lookupOutput{Price: 1.5}, nil
		})
	require.NoError(t, err)
	return tool
}

func newTestService(t *testing.T, model *fakeModel) *Service {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	registry := agent.NewRegistry()
	require.NoError(t, registry.Register(newLookupTool(t)))
	registry.Freeze()

	if model.structured == nil {
		model.structured = map[string]json.RawMessage{}
	}
	if _, ok := model.structured["conversation_title"]; !ok {
		model.structured["conversation_title"] = json.RawMessage(`{"title":"Token prices"}`)
	}

	return NewService(ServiceConfig{
		Database:     db.DB(),
		Provider:     &fakeProvider{model: model},
		Model:        "fake-model",
		Registry:     registry,
		SystemPrompt: "You are a helpful assistant.",
	})
}

func userTurn(conversationID, text string) *TurnRequest {
	return &TurnRequest{
		ConversationID: conversationID,
		OwnerID:        "owner-1",
		Messages:       []*aisdk.Message{{Role: "user", Content: text}},
	}
}

func TestRunTurnTextOnly(t *testing.T) {
	model := &fakeModel{steps: [][]*aisdk.StreamChunk{
		{textChunk("hel"), textChunk("lo"), finishChunk("stop")},
	}}
	svc := newTestService(t, model)
	sink := &recordingSink{}

	req := userTurn("conv-1", "hi there")
	req.EventSink = sink

	result, err := svc.RunTurn(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Steps)
	assert.Equal(t, "stop", result.FinishReason)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "assistant", result.Records[0].Role)

	deltas := sink.ofType(EventTextDelta)
	require.Len(t, deltas, 2)
	assert.Equal(t, "hel", deltas[0].(*TextDeltaEvent).Delta)

	// User and assistant rows persisted, in order.
	rows, err := storage.GetMessagesByConversationID(context.Background(), svc.database, "conv-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "user", rows[0].Role)
	assert.Equal(t, "assistant", rows[1].Role)
}

func TestRunTurnCreatesConversationWithTitle(t *testing.T) {
	model := &fakeModel{steps: [][]*aisdk.StreamChunk{
		{textChunk("ok"), finishChunk("stop")},
	}}
	svc := newTestService(t, model)

	_, err := svc.RunTurn(context.Background(), userTurn("conv-new", "what is SOL trading at?"))
	require.NoError(t, err)

	conv, err := storage.GetConversationByID(context.Background(), svc.database, "conv-new")
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.Equal(t, "Token prices", conv.Title)
	assert.Equal(t, "owner-1", conv.OwnerID)
}

func TestRunTurnRejectsForeignConversation(t *testing.T) {
	model := &fakeModel{steps: [][]*aisdk.StreamChunk{
		{textChunk("ok"), finishChunk("stop")},
	}}
	svc := newTestService(t, model)

	require.NoError(t, storage.CreateConversation(context.Background(), svc.database, &storage.Conversation{
		ID: "conv-x", OwnerID: "someone-else", Title: "theirs",
	}))

	_, err := svc.RunTurn(context.Background(), userTurn("conv-x", "hi"))
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestRunTurnDispatchesToolCalls(t *testing.T) {
	model := &fakeModel{steps: [][]*aisdk.StreamChunk{
		{toolCallChunk("call-1", "lookupPrice", `{"address":"So11111"}`)},
		{textChunk("SOL is at 1.5"), finishChunk("stop")},
	}}
	svc := newTestService(t, model)
	sink := &recordingSink{}

	req := userTurn("conv-2", "price of SOL?")
	req.EventSink = sink

	result, err := svc.RunTurn(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Steps)
	assert.Equal(t, "stop", result.FinishReason)

	// assistant(call), tool(result), assistant(text)
	require.Len(t, result.Records, 3)
	assert.Equal(t, "assistant", result.Records[0].Role)
	assert.Equal(t, "tool", result.Records[1].Role)
	assert.Equal(t, "assistant", result.Records[2].Role)

	results := sink.ofType(EventToolResult)
	require.Len(t, results, 1)
	toolResult := results[0].(*ToolResultEvent)
	assert.Equal(t, "call-1", toolResult.ToolCallID)
	assert.False(t, toolResult.IsError)
	assert.JSONEq(t, `{"price":1.5}`, string(toolResult.Result))
}

func TestRunTurnDropsUnknownToolCalls(t *testing.T) {
	model := &fakeModel{steps: [][]*aisdk.StreamChunk{
		{toolCallChunk("call-1", "launchRocket", `{}`)},
	}}
	svc := newTestService(t, model)
	sink := &recordingSink{}

	req := userTurn("conv-3", "launch it")
	req.EventSink = sink

	result, err := svc.RunTurn(context.Background(), req)
	require.NoError(t, err)

	// The unknown call is never dispatched and never persisted.
	assert.Equal(t, 1, result.Steps)
	assert.Empty(t, result.Records)
	assert.Empty(t, sink.ofType(EventToolCall))

	rows, err := storage.GetMessagesByConversationID(context.Background(), svc.database, "conv-3")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "user", rows[0].Role)
}

func TestRunTurnRepairsInvalidArgsOnce(t *testing.T) {
	model := &fakeModel{
		steps: [][]*aisdk.StreamChunk{
			{toolCallChunk("call-1", "lookupPrice", `{"wrong":"field"}`)},
			{textChunk("done"), finishChunk("stop")},
		},
		structured: map[string]json.RawMessage{
			"repaired_arguments": json.RawMessage(`{"address":"So11111"}`),
		},
	}
	svc := newTestService(t, model)
	sink := &recordingSink{}

	req := userTurn("conv-4", "price?")
	req.EventSink = sink

	result, err := svc.RunTurn(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "stop", result.FinishReason)

	var repairCalls int
	for _, name := range model.structuredCalls {
		if name == "repaired_arguments" {
			repairCalls++
		}
	}
	assert.Equal(t, 1, repairCalls)

	results := sink.ofType(EventToolResult)
	require.Len(t, results, 1)
	assert.False(t, results[0].(*ToolResultEvent).IsError)
}

func TestRunTurnFailedRepairDropsCall(t *testing.T) {
	model := &fakeModel{
		steps: [][]*aisdk.StreamChunk{
			{toolCallChunk("call-1", "lookupPrice", `{"wrong":"field"}`)},
		},
		structured: map[string]json.RawMessage{
			// Repair output misses the required field too.
			"repaired_arguments": json.RawMessage(`{"still":"wrong"}`),
		},
	}
	svc := newTestService(t, model)
	sink := &recordingSink{}

	req := userTurn("conv-5", "price?")
	req.EventSink = sink

	result, err := svc.RunTurn(context.Background(), req)
	require.NoError(t, err)

	// The call is abandoned after the single failed repair: never dispatched,
	// never streamed, never persisted.
	assert.Empty(t, result.Records)
	assert.Empty(t, sink.ofType(EventToolCall))
	assert.Empty(t, sink.ofType(EventToolResult))

	rows, err := storage.GetMessagesByConversationID(context.Background(), svc.database, "conv-5")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "user", rows[0].Role)
	assert.NotContains(t, rows[0].Content, "call-1")
}

func TestRunTurnExecutionErrorBecomesPayload(t *testing.T) {
	model := &fakeModel{steps: [][]*aisdk.StreamChunk{
		{toolCallChunk("call-1", "lookupPrice", `{"address":"boom"}`)},
		{textChunk("the lookup failed"), finishChunk("stop")},
	}}
	svc := newTestService(t, model)
	sink := &recordingSink{}

	req := userTurn("conv-6", "price?")
	req.EventSink = sink

	result, err := svc.RunTurn(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "stop", result.FinishReason)

	results := sink.ofType(EventToolResult)
	require.Len(t, results, 1)
	toolResult := results[0].(*ToolResultEvent)
	assert.True(t, toolResult.IsError)
	assert.Contains(t, string(toolResult.Result), "upstream unavailable")
}

func TestRunTurnStopsAtStepCeiling(t *testing.T) {
	var steps [][]*aisdk.StreamChunk
	for i := 0; i < DefaultMaxSteps+2; i++ {
		steps = append(steps, []*aisdk.StreamChunk{
			toolCallChunk(fmt.Sprintf("call-%d", i), "lookupPrice", `{"address":"So11111"}`),
		})
	}
	model := &fakeModel{steps: steps}
	svc := newTestService(t, model)

	result, err := svc.RunTurn(context.Background(), userTurn("conv-7", "loop forever"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxSteps, result.Steps)
	assert.Equal(t, "max-steps", result.FinishReason)
}

func TestRunTurnPersistsUserAttachments(t *testing.T) {
	model := &fakeModel{steps: [][]*aisdk.StreamChunk{
		{textChunk("nice chart"), finishChunk("stop")},
	}}
	svc := newTestService(t, model)

	req := userTurn("conv-9", "what is this?")
	req.Attachments = []aisdk.Attachment{{
		URL: "https://cdn.example/chart.png", Name: "chart.png", ContentType: "image/png",
	}}

	_, err := svc.RunTurn(context.Background(), req)
	require.NoError(t, err)

	// The persisted user record embeds the attachment, so a reload
	// reconstructs it through normalization.
	rows, err := storage.GetMessagesByConversationID(context.Background(), svc.database, "conv-9")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "user", rows[0].Role)

	rec, err := rows[0].ToRecord()
	require.NoError(t, err)
	msgs := aisdk.Normalize([]aisdk.Record{rec})
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].Attachments, 1)
	assert.Equal(t, "https://cdn.example/chart.png", msgs[0].Attachments[0].URL)
}

func TestRunTurnRequiresUserMessage(t *testing.T) {
	svc := newTestService(t, &fakeModel{})

	_, err := svc.RunTurn(context.Background(), &TurnRequest{
		ConversationID: "conv-8",
		Messages:       []*aisdk.Message{{Role: "assistant", Content: "hello"}},
	})
	assert.ErrorIs(t, err, ErrUserMessageRequired)
}

func TestRunTurnRequiresDatabase(t *testing.T) {
	svc := NewService(ServiceConfig{Provider: &fakeProvider{model: &fakeModel{}}})

	_, err := svc.RunTurn(context.Background(), userTurn("conv-nodb", "hi"))
	assert.ErrorIs(t, err, ErrDatabaseRequired)
}

type collectingProcessor struct {
	mu     sync.Mutex
	events []TurnEvent
	closed bool
}

func (p *collectingProcessor) Process(event TurnEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *collectingProcessor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func TestChannelEventSinkDrainsToProcessors(t *testing.T) {
	model := &fakeModel{steps: [][]*aisdk.StreamChunk{
		{textChunk("hello"), finishChunk("stop")},
	}}
	svc := newTestService(t, model)

	proc := &collectingProcessor{}
	sink := NewChannelEventSink(16, proc)

	req := userTurn("conv-sink", "hi")
	req.EventSink = sink

	_, err := svc.RunTurn(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	// Close drains the channel before closing processors, so every emitted
	// event is delivered, ending with the finish marker.
	assert.True(t, proc.closed)
	require.NotEmpty(t, proc.events)
	assert.Equal(t, EventFinish, proc.events[len(proc.events)-1].GetType())
}

func TestResultSuppressesFollowUp(t *testing.T) {
	assert.True(t, resultSuppressesFollowUp([]byte(`{"suppressFollowUp":true,"data":1}`)))
	assert.False(t, resultSuppressesFollowUp([]byte(`{"data":1}`)))
	assert.False(t, resultSuppressesFollowUp([]byte(`not json`)))
}
