package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/streakline/internal/cache"
	"github.com/julianstephens/streakline/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Delete an existing cache file before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Cache.Init(ctx.Ctx()); err != nil {
		return err
	}
	ctx.Printf("Initialized streakline cache at: %s\n", ctx.Cache.Describe())

	if v, ok := ctx.Cache.(cache.Versioned); ok {
		current, _, err := v.SchemaVersion(ctx.Ctx())
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		ctx.Printf("Schema version: %d\n", current)
	}
	return nil
}

// reset removes a file-based cache. Server backends are left alone.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if ctx.Config == nil {
		return nil
	}
	path, ok, err := cache.FilePath(ctx.Config.Cache)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("--force only applies to file caches, skipping reset.")
		return nil
	}

	if _, err := os.Stat(path); err == nil {
		// close first to release sqlite file locks
		if err := ctx.Cache.Close(); err != nil {
			return fmt.Errorf("failed to close existing cache: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing cache: %w", err)
		}
		ctx.Printf("Deleted existing cache at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing cache: %w", err)
	}
	return nil
}
