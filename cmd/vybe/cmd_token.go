package main

import (
	"fmt"
	"time"

	"github.com/alecthomas/kong"
	"github.com/vybelabs/vybe/src/server"
)

// TokenCmd mints a bearer token signed with the configured secret, for
// exercising the API from curl or a local frontend.
type TokenCmd struct {
	User string        `arg:"" help:"User id to put in the token subject"`
	TTL  time.Duration `default:"24h" help:"Token lifetime"`
}

func (t *TokenCmd) Run(ctx *kong.Context, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	if cfg.Server.JWTSecret == "" {
		return fmt.Errorf("server.jwt_secret is required (set VYBE_JWT_SECRET)")
	}

	token, err := server.IssueToken(cfg.Server.JWTSecret, t.User, t.TTL)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
