package executor

import (
	"context"
	"encoding/json"
	"fmt"

	jsonschema "github.com/swaggest/jsonschema-go"

	"github.com/vybelabs/vybe/src/aisdk"
	"github.com/vybelabs/vybe/src/schema"
)

const maxTitleLength = 80

var titleSchema = schema.CreateObjectSchema(map[string]*jsonschema.Schema{
	"title": schema.CreateStringSchema("Short conversation title, at most 80 characters, no quotes or colons"),
}, []string{"title"})

// generateTitle produces a short title for a new conversation from its first
// user message. Falls back to a truncation of the message when generation
// fails, so conversation creation never blocks on the model.
func (s *Service) generateTitle(ctx context.Context, modelClient aisdk.ModelClient, firstUserText string) string {
	prompt := fmt.Sprintf("Summarize the following message as a conversation title. "+
		"Use at most %d characters. Do not use quotes or colons.\n\n%s", maxTitleLength, firstUserText)

	raw, err := modelClient.GenerateStructured(ctx, prompt, "conversation_title", titleSchema)
	if err == nil {
		var out struct {
			Title string `json:"title"`
		}
		if jsonErr := json.Unmarshal(raw, &out); jsonErr == nil && out.Title != "" {
			return truncateTitle(out.Title)
		}
	} else {
		s.logger.Warn("title generation failed", "error", err)
	}

	return truncateTitle(firstUserText)
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxTitleLength {
		return title
	}
	return string(runes[:maxTitleLength])
}
