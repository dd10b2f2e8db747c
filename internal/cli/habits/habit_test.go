package habits

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/streakline/internal/cache"
	"github.com/julianstephens/streakline/internal/cli"
	apperrors "github.com/julianstephens/streakline/internal/errors"
	"github.com/julianstephens/streakline/internal/remote"
	"github.com/julianstephens/streakline/internal/remote/remotetest"
)

var testIDs = remote.Collections{DatabaseID: "db", Users: "users", Habits: "habits", Completions: "completions"}

func setupTestContext(t *testing.T) (*cli.Context, *remotetest.Server, *bytes.Buffer) {
	t.Helper()
	now := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)
	srv := remotetest.New()
	srv.Now = func() time.Time { return now }
	srv.AddAccount("acct1", "ada@example.com", "Secret123", "Ada")

	ctx := cli.NewContext(context.Background(), cache.NewMemory(), srv, testIDs, func() time.Time { return now })
	out := &bytes.Buffer{}
	ctx.Out = out

	if _, err := ctx.Session.SignIn(ctx.Ctx(), "ada@example.com", "Secret123"); err != nil {
		t.Fatalf("failed to sign in: %v", err)
	}
	return ctx, srv, out
}

func TestHabitAddCmd(t *testing.T) {
	ctx, srv, out := setupTestContext(t)

	cmd := &HabitAddCmd{Title: "Read a book", Frequency: "daily"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}

	docs := srv.Documents(testIDs.Habits)
	if len(docs) != 1 {
		t.Fatalf("expected 1 remote habit, got %d", len(docs))
	}
	if docs[0]["user_id"] != "acct1" {
		t.Errorf("expected habit owned by acct1, got %v", docs[0]["user_id"])
	}
	if !strings.Contains(out.String(), "Added habit: 📚 Read a book") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestHabitAddCmd_RequiresSignIn(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	if err := ctx.Session.SignOut(ctx.Ctx()); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}

	err := (&HabitAddCmd{Title: "Run", Frequency: "daily"}).Run(ctx)
	if !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestHabitAddCmd_Offline(t *testing.T) {
	ctx, srv, out := setupTestContext(t)
	srv.Fail(remotetest.MethodCreateDocument, remotetest.ErrUnavailable)

	if err := (&HabitAddCmd{Title: "Run", Frequency: "daily"}).Run(ctx); err != nil {
		t.Fatalf("habit add should succeed locally: %v", err)
	}
	if !strings.Contains(out.String(), "saved locally only") {
		t.Errorf("expected a local-only warning, got %q", out.String())
	}
}

func TestHabitListCmd(t *testing.T) {
	ctx, _, out := setupTestContext(t)

	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatalf("habit list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No habits found.") {
		t.Errorf("expected empty message, got %q", out.String())
	}

	if err := (&HabitAddCmd{Title: "Drink water", Frequency: "daily"}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	out.Reset()
	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatalf("habit list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Drink water") {
		t.Errorf("expected habit in list, got %q", out.String())
	}
}

func TestHabitDoneCmd(t *testing.T) {
	ctx, srv, out := setupTestContext(t)
	if err := (&HabitAddCmd{Title: "Meditate", Frequency: "daily"}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}

	if err := (&HabitDoneCmd{Habit: "meditate"}).Run(ctx); err != nil {
		t.Fatalf("habit done failed: %v", err)
	}
	if !strings.Contains(out.String(), "1 day streak") {
		t.Errorf("expected streak in output, got %q", out.String())
	}
	if n := len(srv.Documents(testIDs.Completions)); n != 1 {
		t.Errorf("expected 1 remote completion, got %d", n)
	}

	err := (&HabitDoneCmd{Habit: "Meditate"}).Run(ctx)
	if !errors.Is(err, apperrors.ErrAlreadyCompleted) {
		t.Errorf("expected ErrAlreadyCompleted on second completion, got %v", err)
	}
}

func TestHabitDoneCmd_SchemaMismatch(t *testing.T) {
	ctx, srv, _ := setupTestContext(t)
	if err := (&HabitAddCmd{Title: "Walk", Frequency: "daily"}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	srv.RestrictAttributes(testIDs.Completions, "user_id", "habit_id")

	err := (&HabitDoneCmd{Habit: "Walk"}).Run(ctx)
	if !errors.Is(err, apperrors.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	if len(ctx.Habits.Completions()) != 1 {
		t.Errorf("completion should be kept locally")
	}
}

func TestHabitEditCmd(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	if err := (&HabitAddCmd{Title: "Code", Frequency: "daily"}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}

	title := "Code every day"
	weekly := "weekly"
	if err := (&HabitEditCmd{Habit: "Code", Title: &title, Frequency: &weekly}).Run(ctx); err != nil {
		t.Fatalf("habit edit failed: %v", err)
	}
	h, err := ctx.FindHabit("code every day")
	if err != nil {
		t.Fatalf("edited habit not found: %v", err)
	}
	if h.Frequency != "weekly" {
		t.Errorf("expected weekly, got %s", h.Frequency)
	}

	bad := "hourly"
	if err := (&HabitEditCmd{Habit: h.ID, Frequency: &bad}).Run(ctx); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestHabitDeleteCmd(t *testing.T) {
	ctx, srv, _ := setupTestContext(t)
	if err := (&HabitAddCmd{Title: "Sleep early", Frequency: "daily"}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}

	srv.Fail(remotetest.MethodDeleteDocument, remotetest.ErrUnavailable)
	if err := (&HabitDeleteCmd{Habit: "Sleep early", Yes: true}).Run(ctx); err == nil {
		t.Fatal("expected delete to fail while the remote is down")
	}
	if len(ctx.Habits.Habits()) != 1 {
		t.Fatalf("habit should be restored after a failed delete")
	}

	srv.Recover(remotetest.MethodDeleteDocument)
	if err := (&HabitDeleteCmd{Habit: "Sleep early", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("habit delete failed: %v", err)
	}
	if len(ctx.Habits.Habits()) != 0 {
		t.Errorf("habit should be gone")
	}
}

func TestHabitTodayAndShowCmd(t *testing.T) {
	ctx, _, out := setupTestContext(t)
	if err := (&HabitAddCmd{Title: "Study", Description: "Flashcards", Frequency: "daily"}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	if err := (&HabitDoneCmd{Habit: "Study"}).Run(ctx); err != nil {
		t.Fatalf("habit done failed: %v", err)
	}

	out.Reset()
	if err := (&HabitTodayCmd{}).Run(ctx); err != nil {
		t.Fatalf("habit today failed: %v", err)
	}
	if !strings.Contains(out.String(), "Completed today: 1/1") {
		t.Errorf("unexpected today output: %q", out.String())
	}

	out.Reset()
	if err := (&HabitShowCmd{Habit: "Study", Window: 7}).Run(ctx); err != nil {
		t.Fatalf("habit show failed: %v", err)
	}
	for _, want := range []string{"Flashcards", "Completion rate: 14% (last 7 days)", "Last completed:  2025-06-10 09:30"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("show output missing %q: %q", want, out.String())
		}
	}
}

func TestHabitCmd_UnknownHabit(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	err := (&HabitDoneCmd{Habit: "nope"}).Run(ctx)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLeaderboardCmd(t *testing.T) {
	ctx, srv, out := setupTestContext(t)
	srv.Seed(testIDs.Users, map[string]interface{}{"accountId": "acct1", "name": "Ada"})
	srv.Seed(testIDs.Users, map[string]interface{}{"accountId": "acct2", "name": "Grace"})
	srv.Seed(testIDs.Completions, map[string]interface{}{"user_id": "acct2", "habit_id": "h1"})

	if err := (&LeaderboardCmd{Limit: 10}).Run(ctx); err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	text := out.String()
	if strings.Index(text, "Grace") > strings.Index(text, "Ada") {
		t.Errorf("expected Grace ranked above Ada: %q", text)
	}
}
