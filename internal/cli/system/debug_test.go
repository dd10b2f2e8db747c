package system

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/models"
)

func setupDebugContext(t *testing.T) (*cli.Context, *strings.Builder) {
	t.Helper()
	ctx, _, buf := setupTestContext(t, filepath.Join(t.TempDir(), "cache.db"))
	if err := ctx.Cache.Init(ctx.Ctx()); err != nil {
		t.Fatalf("failed to init cache: %v", err)
	}

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	habits := []models.Habit{
		{ID: "h1", UserID: "u1", Title: "Read", StreakCount: 2},
		{ID: "h2", UserID: "u1", Title: "Walk"},
	}
	completions := []models.HabitCompletion{
		{ID: "c1", UserID: "u1", HabitID: "h1", CompletedAt: now},
		{ID: "c2", UserID: "u1", HabitID: "h2", CompletedAt: now},
	}
	if err := ctx.Local.SaveCollections(ctx.Ctx(), habits, completions); err != nil {
		t.Fatalf("failed to seed cache: %v", err)
	}
	buf.Reset()
	out := &strings.Builder{}
	ctx.Out = out
	return ctx, out
}

func TestDebugCachePathCmd(t *testing.T) {
	ctx, out := setupDebugContext(t)

	if err := (&DebugCachePathCmd{}).Run(ctx); err != nil {
		t.Fatalf("cache-path failed: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out.String()), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if !strings.HasPrefix(got["cache"], "sqlite:") {
		t.Errorf("cache = %q, want sqlite location", got["cache"])
	}
}

func TestDebugDumpHabitsCmd(t *testing.T) {
	ctx, out := setupDebugContext(t)

	if err := (&DebugDumpHabitsCmd{}).Run(ctx); err != nil {
		t.Fatalf("dump-habits failed: %v", err)
	}
	var habits []models.Habit
	if err := json.Unmarshal([]byte(out.String()), &habits); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(habits) != 2 {
		t.Errorf("got %d habits, want 2", len(habits))
	}
}

func TestDebugDumpHabitCmd(t *testing.T) {
	ctx, out := setupDebugContext(t)

	if err := (&DebugDumpHabitCmd{ID: "h1"}).Run(ctx); err != nil {
		t.Fatalf("dump-habit failed: %v", err)
	}
	var habit models.Habit
	if err := json.Unmarshal([]byte(out.String()), &habit); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if habit.Title != "Read" || habit.StreakCount != 2 {
		t.Errorf("unexpected habit: %+v", habit)
	}

	if err := (&DebugDumpHabitCmd{ID: "missing"}).Run(ctx); err == nil {
		t.Error("expected error for unknown habit")
	}
}

func TestDebugDumpCompletionsCmd_Filter(t *testing.T) {
	ctx, out := setupDebugContext(t)

	if err := (&DebugDumpCompletionsCmd{Habit: "h2"}).Run(ctx); err != nil {
		t.Fatalf("dump-completions failed: %v", err)
	}
	var completions []models.HabitCompletion
	if err := json.Unmarshal([]byte(out.String()), &completions); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(completions) != 1 || completions[0].ID != "c2" {
		t.Errorf("unexpected completions: %+v", completions)
	}
}

func TestDebugDumpUserCmd_NoUser(t *testing.T) {
	ctx, _ := setupDebugContext(t)

	if err := (&DebugDumpUserCmd{}).Run(ctx); err == nil {
		t.Error("expected error when no user is cached")
	}
}
