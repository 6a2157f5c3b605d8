package aisdk

// SanitizeResponseMessages prepares a turn's assistant-side transcript for
// persistence. Tool-call parts without a matching tool-result anywhere in
// the transcript are dropped, empty text segments are dropped, and messages
// left with no content are discarded entirely.
func SanitizeResponseMessages(records []Record) []Record {
	resultIDs := make(map[string]bool)
	for _, rec := range records {
		if rec.Role != "tool" {
			continue
		}
		for _, part := range rec.Parts {
			if result, ok := part.(ToolResultPart); ok {
				resultIDs[result.ToolCallID] = true
			}
		}
	}

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		sanitized := rec
		if rec.Role == "assistant" {
			sanitized.Parts = sanitizeAssistantParts(rec.Parts, resultIDs)
		}
		if len(sanitized.Parts) == 0 {
			continue
		}
		out = append(out, sanitized)
	}
	return out
}

func sanitizeAssistantParts(parts Parts, resultIDs map[string]bool) Parts {
	kept := make(Parts, 0, len(parts))
	for _, part := range parts {
		switch p := part.(type) {
		case ToolCallPart:
			if resultIDs[p.ToolCallID] {
				kept = append(kept, p)
			}
		case TextPart:
			if len(p.Text) > 0 {
				kept = append(kept, p)
			}
		default:
			kept = append(kept, part)
		}
	}
	return kept
}

// MostRecentUserMessage returns the last user message in the history, or
// nil if the history contains none.
func MostRecentUserMessage(messages []*Message) *Message {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i]
		}
	}
	return nil
}
