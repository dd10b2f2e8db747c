package remote_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/remote"
	"github.com/julianstephens/streakline/internal/remote/remotetest"
)

var testCollections = remote.Collections{
	DatabaseID:  "db",
	Users:       "users",
	Habits:      "habits",
	Completions: "completions",
}

func TestRepositoryHabits(t *testing.T) {
	ctx := context.Background()
	srv := remotetest.New()
	repo := remote.NewRepository(srv, testCollections)
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	h, err := repo.CreateHabit(ctx, models.Habit{
		UserID:    "u1",
		Title:     "Read",
		Frequency: constants.FrequencyDaily,
		CreatedOn: created,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, h.ID)
	assert.False(t, h.IsTemporary())
	assert.Equal(t, "Read", h.Title)
	assert.True(t, created.Equal(h.CreatedOn))
	assert.Nil(t, h.LastCompleted)

	_, err = repo.CreateHabit(ctx, models.Habit{UserID: "u2", Title: "Other", Frequency: constants.FrequencyWeekly})
	require.NoError(t, err)

	habits, err := repo.ListHabits(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, h.ID, habits[0].ID)

	streak := 4
	updated, err := repo.UpdateHabit(ctx, h.ID, models.HabitPatch{StreakCount: &streak})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.StreakCount)
	assert.Equal(t, "Read", updated.Title)

	got, err := repo.GetHabit(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.StreakCount)

	require.NoError(t, repo.DeleteHabit(ctx, h.ID))
	_, err = repo.GetHabit(ctx, h.ID)
	assert.True(t, remote.IsNotFound(err))
}

func TestRepositoryCompletions(t *testing.T) {
	ctx := context.Background()
	srv := remotetest.New()
	repo := remote.NewRepository(srv, testCollections)
	at := time.Date(2025, 6, 2, 7, 30, 0, 0, time.UTC)

	for _, habitID := range []string{"h1", "h1", "h2"} {
		_, err := repo.CreateCompletion(ctx, models.HabitCompletion{UserID: "u1", HabitID: habitID, CompletedAt: at})
		require.NoError(t, err)
	}

	all, err := repo.ListCompletions(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	one, err := repo.ListCompletions(ctx, "u1", "h2")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.True(t, at.Equal(one[0].CompletedAt))

	none, err := repo.ListCompletions(ctx, "u9", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepositoryUsers(t *testing.T) {
	ctx := context.Background()
	srv := remotetest.New()
	repo := remote.NewRepository(srv, testCollections)

	missing, err := repo.FindUserByAccount(ctx, "acct1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	u, err := repo.CreateUser(ctx, models.User{AccountID: "acct1", Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	found, err := repo.FindUserByAccount(ctx, "acct1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)

	name := "Ada L."
	updated, err := repo.UpdateUser(ctx, u.ID, remote.UserUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, "ada@example.com", updated.Email)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRepositorySchemaMismatch(t *testing.T) {
	srv := remotetest.New()
	srv.RestrictAttributes("completions", "user_id", "habit_id")
	repo := remote.NewRepository(srv, testCollections)

	_, err := repo.CreateCompletion(context.Background(), models.HabitCompletion{UserID: "u1", HabitID: "h1", CompletedAt: time.Now()})
	require.Error(t, err)
	assert.True(t, remote.IsSchemaMismatch(err))
}

func TestNewID(t *testing.T) {
	a, b := remote.NewID(), remote.NewID()
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, len(a), 36)
	assert.False(t, strings.Contains(a, "-"))
}

func TestCheckSetup(t *testing.T) {
	ctx := context.Background()
	srv := remotetest.New()

	statuses := remote.CheckSetup(ctx, srv, testCollections)
	require.Len(t, statuses, 3)
	assert.True(t, remote.SetupOK(statuses))

	srv.Fail(remotetest.MethodListDocuments+":completions", remotetest.ErrUnavailable)
	statuses = remote.CheckSetup(ctx, srv, testCollections)
	assert.False(t, remote.SetupOK(statuses))
	for _, s := range statuses {
		assert.Equal(t, s.Name != "completions", s.OK(), s.Name)
	}
}

func TestSetupInstructions(t *testing.T) {
	text := remote.SetupInstructions(testCollections)
	for _, want := range []string{"habits", "completions", "users", "streak_count", "accountId", "avatar (string, 500 chars, optional)"} {
		assert.Contains(t, text, want)
	}
}
