package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI represents the main CLI structure
type CLI struct {
	APIKey   string `env:"OPENAI_API_KEY" help:"Chat completions API key"`
	BaseURL  string `help:"Custom API base URL"`
	Model    string `help:"Override the chat model"`
	LogLevel string `default:"info" help:"Log level"`

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP server"`
	Prompt  PromptCmd  `cmd:"" help:"Execute a single prompt"`
	Migrate MigrateCmd `cmd:"" help:"Database migrations"`
	Token   TokenCmd   `cmd:"" help:"Mint a development bearer token"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("vybe"),
		kong.Description("Solana assistant chat service"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
