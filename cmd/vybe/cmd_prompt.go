package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/vybelabs/vybe/src/aisdk"
	"github.com/vybelabs/vybe/src/app"
	"github.com/vybelabs/vybe/src/executor"
)

// PromptCmd runs a single turn against the configured model and prints the
// streamed reply. Useful for smoke-testing tools without the HTTP server.
type PromptCmd struct {
	Text           []string `arg:"" help:"The prompt text to send"`
	File           string   `short:"f" help:"Load prompt from file"`
	ConversationID string   `help:"Continue an existing conversation"`
	ShowTools      bool     `help:"Print tool calls as they happen" default:"true"`
}

func (p *PromptCmd) Run(ctx *kong.Context, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	logger := createLogger(cfg, cli.LogLevel)

	text := strings.Join(p.Text, " ")
	if p.File != "" {
		data, err := os.ReadFile(p.File)
		if err != nil {
			return fmt.Errorf("failed to read prompt file: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("prompt text is required")
	}

	runCtx := context.Background()
	application, err := app.New(runCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	conversationID := p.ConversationID
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	sink := executor.NewChannelEventSink(64, &consoleProcessor{showTools: p.ShowTools})
	result, err := application.Service.RunTurn(runCtx, &executor.TurnRequest{
		ConversationID: conversationID,
		OwnerID:        "local",
		Messages: []*aisdk.Message{
			{Role: "user", Content: text},
		},
		EventSink: sink,
	})
	sink.Close()
	if err != nil {
		return err
	}

	fmt.Printf("\n[%s, %d steps, conversation %s]\n", result.FinishReason, result.Steps, result.ConversationID)
	return nil
}

// consoleProcessor prints streamed turn events to stdout.
type consoleProcessor struct {
	showTools bool
}

func (p *consoleProcessor) Process(event executor.TurnEvent) error {
	switch e := event.(type) {
	case *executor.TextDeltaEvent:
		fmt.Print(e.Delta)
	case *executor.ToolCallEvent:
		if p.showTools {
			fmt.Printf("\n[calling %s]\n", e.ToolCall.Function.Name)
		}
	case *executor.ToolResultEvent:
		if p.showTools && e.IsError {
			fmt.Printf("[%s failed: %s]\n", e.ToolName, e.Result)
		}
	case *executor.ErrorEvent:
		fmt.Fprintf(os.Stderr, "\nerror: %s\n", e.Error)
	}
	return nil
}

func (p *consoleProcessor) Close() error { return nil }
