package aisdk

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Persisted message content is an ordered sequence of typed parts,
// discriminated by a "type" tag. Matching over parts must be exhaustive;
// tags this package does not know are preserved as UnknownPart and logged,
// never silently discarded.

const (
	PartTypeText       = "text"
	PartTypeToolCall   = "tool-call"
	PartTypeToolResult = "tool-result"
	PartTypeImage      = "image"
)

// Part is one element of a message's content sequence.
type Part interface {
	PartType() string
}

// TextPart is a plain text segment.
type TextPart struct {
	Text string `json:"text"`
}

// ToolCallPart records a tool invocation requested by the assistant.
type ToolCallPart struct {
	ToolCallID string          `json:"toolCallId"`
	ToolName   string          `json:"toolName"`
	Args       json.RawMessage `json:"args"`
}

// ToolResultPart carries the result for a prior tool call, matched by id.
type ToolResultPart struct {
	ToolCallID string          `json:"toolCallId"`
	ToolName   string          `json:"toolName,omitempty"`
	Result     json.RawMessage `json:"result"`
}

// ImagePart references an image by URL or data URI.
type ImagePart struct {
	Image string `json:"image"`
}

// UnknownPart preserves a part whose type tag is not recognized.
type UnknownPart struct {
	Type string
	Raw  json.RawMessage
}

func (TextPart) PartType() string       { return PartTypeText }
func (ToolCallPart) PartType() string   { return PartTypeToolCall }
func (ToolResultPart) PartType() string { return PartTypeToolResult }
func (ImagePart) PartType() string      { return PartTypeImage }
func (p UnknownPart) PartType() string  { return p.Type }

func (p TextPart) MarshalJSON() ([]byte, error) {
	type alias TextPart
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{PartTypeText, alias(p)})
}

func (p ToolCallPart) MarshalJSON() ([]byte, error) {
	type alias ToolCallPart
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{PartTypeToolCall, alias(p)})
}

func (p ToolResultPart) MarshalJSON() ([]byte, error) {
	type alias ToolResultPart
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{PartTypeToolResult, alias(p)})
}

func (p ImagePart) MarshalJSON() ([]byte, error) {
	type alias ImagePart
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{PartTypeImage, alias(p)})
}

func (p UnknownPart) MarshalJSON() ([]byte, error) {
	return p.Raw, nil
}

// Parts is an ordered content sequence with tag-dispatched JSON decoding.
type Parts []Part

func (ps *Parts) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make(Parts, 0, len(raws))
	for _, raw := range raws {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		part, err := decodePart(raw)
		if err != nil {
			return err
		}
		out = append(out, part)
	}
	*ps = out
	return nil
}

func decodePart(raw json.RawMessage) (Part, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("failed to decode content part: %w", err)
	}

	switch head.Type {
	case PartTypeText:
		var p TextPart
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case PartTypeToolCall:
		var p ToolCallPart
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case PartTypeToolResult:
		var p ToolResultPart
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case PartTypeImage:
		var p ImagePart
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		slog.Warn("unknown message content part type", "type", head.Type)
		return UnknownPart{Type: head.Type, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}

// DecodeContent decodes a persisted content tree into parts. It tolerates
// three legacy shapes: a bare JSON string (one text part), a part array, and
// an object whose "content" field holds the real array (unwrapped once).
func DecodeContent(raw json.RawMessage) (Parts, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, err
		}
		if text == "" {
			return nil, nil
		}
		return Parts{TextPart{Text: text}}, nil
	case '[':
		var parts Parts
		if err := parts.UnmarshalJSON(raw); err != nil {
			return nil, err
		}
		return parts, nil
	case '{':
		var wrapper struct {
			Content json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, err
		}
		if len(wrapper.Content) == 0 {
			return nil, nil
		}
		// Unwrap exactly one level; a doubly nested object is malformed.
		if wrapper.Content[0] == '{' {
			return nil, fmt.Errorf("content nested more than one level")
		}
		return DecodeContent(wrapper.Content)
	default:
		return nil, fmt.Errorf("unsupported content shape starting with %q", raw[0])
	}
}

// EncodeContent serializes parts back into the persisted content tree.
func EncodeContent(parts Parts) (json.RawMessage, error) {
	if parts == nil {
		parts = Parts{}
	}
	return json.Marshal(parts)
}

// Record is a persisted message as seen by the normalizer and sanitizer:
// a role plus decoded content parts.
type Record struct {
	ID        string
	Role      string
	Parts     Parts
	CreatedAt time.Time
}
