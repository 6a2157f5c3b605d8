package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/aisdk"
	"github.com/vybelabs/vybe/src/storage"
)

// TurnRequest describes a single conversation turn. Messages is the client's
// view of the conversation in wire format; the latest user message in it is
// the one being answered.
type TurnRequest struct {
	ConversationID string
	OwnerID        string
	Messages       []*aisdk.Message

	// Attachments ride along with the latest user message and are embedded
	// in its persisted record as image parts.
	Attachments []aisdk.Attachment

	// SystemPrompt overrides the service prompt when non-empty. Callers use
	// it to append per-request context such as the user's wallet address.
	SystemPrompt string

	// EventSink receives streaming events. Nil disables event delivery.
	EventSink EventSink
}

// TurnResult is the outcome of a completed turn.
type TurnResult struct {
	ConversationID string
	// Records holds the sanitized assistant and tool records produced by the
	// turn, in the order they were persisted.
	Records      []aisdk.Record
	Steps        int
	FinishReason string
}

// RunTurn executes one conversation turn: it ensures the conversation row
// exists, persists the user message, then alternates model steps and tool
// dispatch until the model stops calling tools or the step ceiling is hit.
// The sanitized response records are persisted before returning.
func (s *Service) RunTurn(ctx context.Context, req *TurnRequest) (*TurnResult, error) {
	if req.ConversationID == "" {
		return nil, ErrConversationIDRequired
	}
	if s.provider == nil {
		return nil, ErrProviderRequired
	}
	if s.database == nil {
		return nil, ErrDatabaseRequired
	}

	userMsg := aisdk.MostRecentUserMessage(req.Messages)
	if userMsg == nil {
		return nil, ErrUserMessageRequired
	}

	ctx, cancel := context.WithTimeout(ctx, s.turnTimeout)
	defer cancel()

	logger := s.logger.With("conversation_id", req.ConversationID)
	emitter := NewEventEmitter(req.EventSink, req.ConversationID)

	modelClient, err := s.provider.Model(ctx, s.model)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve model: %w", err)
	}

	if err := s.ensureConversation(ctx, modelClient, req, userMsg.Content); err != nil {
		return nil, err
	}

	if err := s.persistUserMessage(ctx, req.ConversationID, userMsg, req.Attachments); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	messages := s.buildWireHistory(req)
	tools := agent.ToChatTools(s.registry.Tools())

	var turnRecords []aisdk.Record
	finishReason := "max-steps"
	steps := 0

	for steps < s.maxSteps {
		steps++
		emitter.SetStep(steps)

		stream, err := modelClient.CreateChatCompletionStream(ctx, &aisdk.ChatCompletionRequest{
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			emitter.EmitError(err, "create stream")
			s.finalize(ctx, req.ConversationID, turnRecords, logger)
			return nil, fmt.Errorf("model step %d failed: %w", steps, err)
		}

		agg := aisdk.NewStreamAggregator()
		err = aisdk.StreamToCallback(stream, func(chunk *aisdk.StreamChunk) error {
			agg.AddChunk(chunk)
			for _, choice := range chunk.Choices {
				if choice.Delta != nil && choice.Delta.Content != "" {
					emitter.EmitTextDelta(choice.Delta.Content)
				}
			}
			return nil
		})
		if err != nil {
			emitter.EmitError(err, "read stream")
			s.finalize(ctx, req.ConversationID, turnRecords, logger)
			return nil, fmt.Errorf("model step %d failed: %w", steps, err)
		}

		toolCalls := agg.ToolCalls()
		known := s.resolveCalls(ctx, modelClient, toolCalls, logger)

		assistantMsg := agg.Message()
		assistantMsg.ToolCalls = known
		messages = append(messages, assistantMsg)
		turnRecords = append(turnRecords, assistantRecord(agg.Content.String(), known))

		if len(known) == 0 {
			finishReason = agg.FinishReason
			if finishReason == "" {
				finishReason = "stop"
			}
			emitter.EmitStepFinish(finishReason)
			break
		}

		emitter.EmitStepFinish("tool-calls")

		suppressFollowUp := false
		for i := range known {
			call := &known[i]
			emitter.EmitToolCall(*call)

			start := time.Now()
			resp := s.dispatchCall(ctx, call)
			emitter.EmitToolResult(call.ID, call.Function.Name, resp.Content, resp.IsError, time.Since(start))

			messages = append(messages, &aisdk.Message{
				Role:       "tool",
				Name:       call.Function.Name,
				ToolCallID: call.ID,
				Content:    string(resp.Content),
			})
			turnRecords = append(turnRecords, toolRecord(call, resp))

			if !resp.IsError && resultSuppressesFollowUp(resp.Content) {
				suppressFollowUp = true
			}
		}

		if suppressFollowUp {
			finishReason = "tool-calls"
			break
		}
	}

	if finishReason == "max-steps" {
		logger.Warn("turn hit step ceiling", "steps", steps)
	}

	persisted := s.finalize(ctx, req.ConversationID, turnRecords, logger)
	emitter.EmitFinish(finishReason, steps)

	return &TurnResult{
		ConversationID: req.ConversationID,
		Records:        persisted,
		Steps:          steps,
		FinishReason:   finishReason,
	}, nil
}

// ensureConversation creates the conversation row on first use. Creation is
// idempotent under concurrent turns for the same id; the first writer wins.
func (s *Service) ensureConversation(ctx context.Context, modelClient aisdk.ModelClient, req *TurnRequest, firstUserText string) error {
	conversation, err := storage.GetConversationByID(ctx, s.database, req.ConversationID)
	if err != nil {
		return err
	}
	if conversation != nil {
		if req.OwnerID != "" && conversation.OwnerID != req.OwnerID {
			return ErrConversationNotFound
		}
		return nil
	}

	title := s.generateTitle(ctx, modelClient, firstUserText)
	return storage.CreateConversation(ctx, s.database, &storage.Conversation{
		ID:      req.ConversationID,
		OwnerID: req.OwnerID,
		Title:   title,
	})
}

// buildWireHistory prepends the system prompt to the client's messages.
func (s *Service) buildWireHistory(req *TurnRequest) []*aisdk.Message {
	prompt := s.systemPrompt
	if req.SystemPrompt != "" {
		prompt = req.SystemPrompt
	}

	messages := make([]*aisdk.Message, 0, len(req.Messages)+1)
	if prompt != "" {
		messages = append(messages, &aisdk.Message{Role: "system", Content: prompt})
	}
	return append(messages, req.Messages...)
}

// resolveCalls drops calls naming tools the registry does not know. Calls
// with invalid arguments get exactly one repair attempt; if repair also
// fails, the call is dropped the same way. Dropped calls never reach
// dispatch and never persist. Surviving calls carry validated arguments.
func (s *Service) resolveCalls(ctx context.Context, modelClient aisdk.ModelClient, calls []aisdk.ToolCall, logger *slog.Logger) []aisdk.ToolCall {
	known := calls[:0]
	for _, call := range calls {
		tool, ok := s.registry.Lookup(call.Function.Name)
		if !ok {
			logger.Warn("dropping call to unknown tool", "tool", call.Function.Name, "call_id", call.ID)
			continue
		}
		if err := tool.CheckArgs(call.Function.Arguments); err != nil {
			repaired, repairErr := s.repairToolCall(ctx, modelClient, tool, &call, err)
			if repairErr != nil {
				logger.Warn("dropping call after failed repair", "tool", call.Function.Name, "call_id", call.ID, "error", repairErr)
				continue
			}
			call.Function.Arguments = repaired.Function.Arguments
		}
		known = append(known, call)
	}
	return known
}

// dispatchCall executes one resolved tool call. Execution errors produce an
// error payload rather than failing the turn.
func (s *Service) dispatchCall(ctx context.Context, call *aisdk.ToolCall) *aisdk.ToolResponse {
	tool, ok := s.registry.Lookup(call.Function.Name)
	if !ok {
		return errorResponse(fmt.Errorf("unknown tool %q", call.Function.Name))
	}

	resp, err := tool.Execute(ctx, call)
	if err != nil {
		return errorResponse(err)
	}
	return resp
}

// finalize sanitizes and persists the turn's response records. Persistence is
// best effort: a failed write is logged, and the turn still streams.
func (s *Service) finalize(ctx context.Context, conversationID string, records []aisdk.Record, logger *slog.Logger) []aisdk.Record {
	sanitized := aisdk.SanitizeResponseMessages(records)
	if len(sanitized) == 0 {
		return nil
	}

	rows := make([]*storage.Message, 0, len(sanitized))
	for _, rec := range sanitized {
		row, err := storage.FromRecord(conversationID, rec)
		if err != nil {
			logger.Error("failed to encode response record", "record_id", rec.ID, "error", err)
			continue
		}
		rows = append(rows, row)
	}

	if err := storage.CreateMessages(ctx, s.database, rows); err != nil {
		logger.Error("failed to persist response messages", "error", err)
	}
	return sanitized
}

// persistUserMessage stores the user's message, embedding any attachments as
// image parts so a reload reconstructs them.
func (s *Service) persistUserMessage(ctx context.Context, conversationID string, msg *aisdk.Message, attachments []aisdk.Attachment) error {
	rec := aisdk.Record{
		ID:    uuid.NewString(),
		Role:  "user",
		Parts: aisdk.Parts{aisdk.TextPart{Text: msg.Content}},
	}
	for _, att := range attachments {
		rec.Parts = append(rec.Parts, aisdk.ImagePart{Image: att.URL})
	}
	row, err := storage.FromRecord(conversationID, rec)
	if err != nil {
		return err
	}
	return storage.CreateMessage(ctx, s.database, row)
}

func assistantRecord(content string, calls []aisdk.ToolCall) aisdk.Record {
	var parts aisdk.Parts
	if content != "" {
		parts = append(parts, aisdk.TextPart{Text: content})
	}
	for _, call := range calls {
		parts = append(parts, aisdk.ToolCallPart{
			ToolCallID: call.ID,
			ToolName:   call.Function.Name,
			Args:       call.Function.Arguments,
		})
	}
	return aisdk.Record{ID: uuid.NewString(), Role: "assistant", Parts: parts}
}

func toolRecord(call *aisdk.ToolCall, resp *aisdk.ToolResponse) aisdk.Record {
	return aisdk.Record{
		ID:   uuid.NewString(),
		Role: "tool",
		Parts: aisdk.Parts{aisdk.ToolResultPart{
			ToolCallID: call.ID,
			ToolName:   call.Function.Name,
			Result:     json.RawMessage(resp.Content),
		}},
	}
}

// errorResponse wraps an error as a tool payload the model can read.
func errorResponse(err error) *aisdk.ToolResponse {
	payload, _ := json.Marshal(map[string]string{"error": err.Error()})
	return &aisdk.ToolResponse{Content: payload, IsError: true}
}

// resultSuppressesFollowUp reports whether a tool result asked the turn to
// stop without a follow-up model step. Tools whose output is already a
// complete client-side rendering set this.
func resultSuppressesFollowUp(content []byte) bool {
	var probe struct {
		SuppressFollowUp bool `json:"suppressFollowUp"`
	}
	if err := json.Unmarshal(content, &probe); err != nil {
		return false
	}
	return probe.SuppressFollowUp
}
