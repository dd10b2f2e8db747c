package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/models"
)

type DebugCmd struct {
	CachePath       *DebugCachePathCmd       `cmd:"" help:"Show cache location."`
	DumpHabits      *DebugDumpHabitsCmd      `cmd:"" help:"Dump cached habits as JSON."`
	DumpHabit       *DebugDumpHabitCmd       `cmd:"" help:"Dump one cached habit as JSON."`
	DumpCompletions *DebugDumpCompletionsCmd `cmd:"" help:"Dump cached completions as JSON."`
	DumpUser        *DebugDumpUserCmd        `cmd:"" help:"Dump the cached user as JSON."`
}

func printJSON(ctx *cli.Context, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugCachePathCmd struct{}

func (cmd *DebugCachePathCmd) Run(ctx *cli.Context) error {
	// machine-readable
	output := map[string]string{
		"cache": ctx.Cache.Describe(),
	}
	if ctx.Config != nil {
		output["config_dir"] = ctx.Config.ConfigDir
	}
	return printJSON(ctx, output)
}

type DebugDumpHabitsCmd struct{}

func (cmd *DebugDumpHabitsCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Local.LoadHabits(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	return printJSON(ctx, habits)
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Local.LoadHabits(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	for _, h := range habits {
		if h.ID == cmd.ID {
			return printJSON(ctx, h)
		}
	}
	return fmt.Errorf("no cached habit with id: %s", cmd.ID)
}

type DebugDumpCompletionsCmd struct {
	Habit string `help:"Only show completions of this habit ID."`
}

func (cmd *DebugDumpCompletionsCmd) Run(ctx *cli.Context) error {
	completions, err := ctx.Local.LoadCompletions(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to load completions: %w", err)
	}
	filtered := []models.HabitCompletion{}
	for _, c := range completions {
		if cmd.Habit == "" || c.HabitID == cmd.Habit {
			filtered = append(filtered, c)
		}
	}
	return printJSON(ctx, filtered)
}

type DebugDumpUserCmd struct{}

func (cmd *DebugDumpUserCmd) Run(ctx *cli.Context) error {
	user, err := ctx.Local.LoadUser(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("no user cached, run 'streakline auth login' first")
	}
	return printJSON(ctx, user)
}
