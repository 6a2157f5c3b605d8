package aisdk

import (
	"encoding/json"
	"log/slog"
)

// Invocation states for a tool call surfaced to clients.
const (
	InvocationStateCall   = "call"
	InvocationStateResult = "result"
)

// ToolInvocation is the client-facing view of one tool call. It starts in
// state "call" and transitions to "result" once a matching tool-result part
// is found.
type ToolInvocation struct {
	ToolCallID string          `json:"toolCallId"`
	ToolName   string          `json:"toolName"`
	Args       json.RawMessage `json:"args"`
	State      string          `json:"state"`
	Result     json.RawMessage `json:"result,omitempty"`
}

// Attachment is ephemeral file metadata carried on a user message.
type Attachment struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}

// ChatMessage is the normalized message shape consumed by clients.
type ChatMessage struct {
	ID              string           `json:"id"`
	Role            string           `json:"role"`
	Content         string           `json:"content"`
	ToolInvocations []ToolInvocation `json:"toolInvocations,omitempty"`
	Attachments     []Attachment     `json:"attachments,omitempty"`
}

// Normalize converts persisted message records into client messages, in
// input order. Tool records are not emitted standalone: their results are
// folded into the owning assistant message's invocations, matched by tool
// call id. The function is pure and idempotent over its own output shape.
func Normalize(records []Record) []ChatMessage {
	out := make([]ChatMessage, 0, len(records))

	for _, rec := range records {
		if rec.Role == "tool" {
			foldToolResults(rec, out)
			continue
		}

		msg := ChatMessage{ID: rec.ID, Role: rec.Role}
		for _, part := range rec.Parts {
			switch p := part.(type) {
			case TextPart:
				msg.Content += p.Text
			case ToolCallPart:
				msg.ToolInvocations = append(msg.ToolInvocations, ToolInvocation{
					ToolCallID: p.ToolCallID,
					ToolName:   p.ToolName,
					Args:       p.Args,
					State:      InvocationStateCall,
				})
			case ToolResultPart:
				// Results belong in tool records; tolerate them inline.
				attachResult(msg.ToolInvocations, p)
			case ImagePart:
				msg.Attachments = append(msg.Attachments, Attachment{
					URL:         p.Image,
					Name:        "image.png",
					ContentType: "image/png",
				})
			case UnknownPart:
				slog.Warn("skipping unknown content part during normalization",
					"type", p.Type, "message_id", rec.ID)
			}
		}
		out = append(out, msg)
	}

	return out
}

// foldToolResults applies every tool-result part in rec to the already
// converted messages, flipping matching invocations to state "result".
func foldToolResults(rec Record, converted []ChatMessage) {
	for _, part := range rec.Parts {
		result, ok := part.(ToolResultPart)
		if !ok {
			if u, isUnknown := part.(UnknownPart); isUnknown {
				slog.Warn("skipping unknown content part in tool message",
					"type", u.Type, "message_id", rec.ID)
			}
			continue
		}
		for i := range converted {
			attachResult(converted[i].ToolInvocations, result)
		}
	}
}

func attachResult(invocations []ToolInvocation, result ToolResultPart) {
	for i := range invocations {
		if invocations[i].ToolCallID == result.ToolCallID {
			invocations[i].State = InvocationStateResult
			invocations[i].Result = result.Result
		}
	}
}

// ToRecord converts a normalized message back into the persisted record
// shape. Invocations in state "result" produce both the tool-call part and
// a matching tool-result part grouped into a trailing tool record by the
// caller; here only the owning message's own parts are emitted.
func (m ChatMessage) ToRecord() Record {
	rec := Record{ID: m.ID, Role: m.Role}
	if m.Content != "" {
		rec.Parts = append(rec.Parts, TextPart{Text: m.Content})
	}
	for _, inv := range m.ToolInvocations {
		rec.Parts = append(rec.Parts, ToolCallPart{
			ToolCallID: inv.ToolCallID,
			ToolName:   inv.ToolName,
			Args:       inv.Args,
		})
	}
	for _, att := range m.Attachments {
		rec.Parts = append(rec.Parts, ImagePart{Image: att.URL})
	}
	return rec
}
