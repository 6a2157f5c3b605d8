package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/vybelabs/vybe/src/storage"
)

// MigrateCmd manages database migrations
type MigrateCmd struct {
	Up MigrateUpCmd `cmd:"" help:"Apply pending migrations"`
}

// MigrateUpCmd applies pending migrations. Migrations also run on normal
// startup; this exists for provisioning a database ahead of deploy.
type MigrateUpCmd struct {
	DBPath string `help:"Database path (defaults to config)"`
}

func (c *MigrateUpCmd) Run(ctx *kong.Context, cli *CLI) error {
	dbPath := c.DBPath
	if dbPath == "" {
		cfg, err := loadConfig(cli)
		if err != nil {
			return err
		}
		dbPath = cfg.Database.Path
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fmt.Printf("Database migrated: %s\n", dbPath)
	return nil
}
