package system

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/streakline/internal/cache"
	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/keyring"
	"github.com/julianstephens/streakline/internal/remote"
)

type DoctorCmd struct {
	Offline bool `help:"Skip checks that contact the remote service."`
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	cacheReachable := false

	// Check 1: cache reachable
	if err := checkCacheReachable(ctx); err != nil {
		fail(ctx, "Cache reachable", err)
		hasError = true
	} else {
		ok(ctx, "Cache reachable")
		cacheReachable = true
	}

	// Check 2: schema version (only if the cache is reachable)
	if cacheReachable {
		if err := checkSchemaVersion(ctx); err != nil {
			fail(ctx, "Schema version", err)
			hasError = true
		} else {
			ok(ctx, "Schema version")
		}
	} else {
		ctx.Printf("⊘ Schema version: SKIPPED (cache not reachable)\n")
	}

	// Check 3: keyring (warning only)
	if err := checkKeyring(); err != nil {
		warn(ctx, "Session keyring", err)
	} else {
		ok(ctx, "Session keyring")
	}

	// Check 4: remote collections
	if cmd.Offline {
		ctx.Printf("⊘ Remote setup: SKIPPED (--offline)\n")
	} else if err := checkRemoteSetup(ctx); err != nil {
		fail(ctx, "Remote setup", err)
		ctx.Println()
		ctx.Println(remote.SetupInstructions(ctx.Repo.Collections()))
		hasError = true
	} else {
		ok(ctx, "Remote setup")
	}

	// Check 5: clock/timezone sanity
	if err := checkClockTimezone(ctx); err != nil {
		fail(ctx, "Clock/timezone", err)
		hasError = true
	} else {
		ok(ctx, "Clock/timezone")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func ok(ctx *cli.Context, name string) {
	ctx.Printf("✓ %s: OK\n", name)
}

func fail(ctx *cli.Context, name string, err error) {
	ctx.Printf("❌ %s: FAIL\n", name)
	ctx.Printf("   Error: %v\n", err)
}

func warn(ctx *cli.Context, name string, err error) {
	ctx.Printf("⚠ %s: WARNING\n", name)
	ctx.Printf("   %v\n", err)
}

func checkCacheReachable(ctx *cli.Context) error {
	if err := ctx.Cache.Init(ctx.Ctx()); err != nil {
		return fmt.Errorf("failed to open cache %s: %w", ctx.Cache.Describe(), err)
	}
	if _, err := ctx.Local.LoadHabits(ctx.Ctx()); err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	v, ok := ctx.Cache.(cache.Versioned)
	if !ok {
		// key/value backends without migrations
		return nil
	}
	current, latest, err := v.SchemaVersion(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("cache schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d; run 'streakline init'", current, latest)
	}
	return nil
}

func checkKeyring() error {
	if !keyring.IsAvailable() {
		return errors.New("OS keyring is not available; you will need to sign in on every run")
	}
	return nil
}

func checkRemoteSetup(ctx *cli.Context) error {
	statuses := remote.CheckSetup(ctx.Ctx(), ctx.Remote, ctx.Repo.Collections())
	if remote.SetupOK(statuses) {
		return nil
	}
	var problems []string
	for _, s := range statuses {
		if !s.OK() {
			problems = append(problems, fmt.Sprintf("%s (%s): %v", s.Name, s.CollectionID, s.Err))
		}
	}
	return errors.New(strings.Join(problems, "; "))
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Config != nil {
		if _, err := ctx.Config.Location(); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", ctx.Config.Timezone, err)
		}
	}
	return nil
}
