package system

import (
	"fmt"

	"github.com/julianstephens/streakline/internal/cache"
	"github.com/julianstephens/streakline/internal/cli"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	// Init applies pending migrations for sql backends
	if err := ctx.Cache.Init(ctx.Ctx()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	v, ok := ctx.Cache.(cache.Versioned)
	if !ok {
		ctx.Printf("Cache %s has no schema migrations.\n", ctx.Cache.Describe())
		return nil
	}

	current, latest, err := v.SchemaVersion(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("cache schema is at version %d, expected %d", current, latest)
	}
	ctx.Printf("Cache is up to date (schema version %d).\n", current)
	return nil
}
