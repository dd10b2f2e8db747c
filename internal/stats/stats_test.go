package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/streakline/internal/models"
)

var now = time.Date(2025, 7, 15, 14, 30, 0, 0, time.UTC)

func habitLastCompleted(streak int, last *time.Time) models.Habit {
	return models.Habit{ID: "h1", Title: "Read", StreakCount: streak, LastCompleted: last}
}

func at(t time.Time) *time.Time { return &t }

func TestCalculateStreak(t *testing.T) {
	tests := []struct {
		name string
		last *time.Time
		want int
	}{
		{"never completed", nil, 0},
		{"earlier today", at(now.Add(-2 * time.Hour)), 5},
		{"just after midnight today", at(time.Date(2025, 7, 15, 0, 0, 1, 0, time.UTC)), 5},
		{"yesterday morning", at(time.Date(2025, 7, 14, 6, 0, 0, 0, time.UTC)), 5},
		{"yesterday just before midnight", at(time.Date(2025, 7, 14, 23, 59, 59, 0, time.UTC)), 5},
		{"two days ago", at(time.Date(2025, 7, 13, 23, 59, 59, 0, time.UTC)), 0},
		{"a month ago", at(now.AddDate(0, -1, 0)), 0},
		{"tomorrow", at(now.Add(24 * time.Hour)), 5},
		{"far future", at(now.AddDate(0, 0, 3)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateStreak(habitLastCompleted(5, tt.last), now))
		})
	}
}

func TestCalculateStreakProperties(t *testing.T) {
	// Stored count survives for every time of day on today and yesterday.
	for hours := 0; hours < 48; hours++ {
		last := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC).Add(time.Duration(hours) * time.Hour)
		for _, streak := range []int{0, 1, 7, 100} {
			assert.Equal(t, streak, CalculateStreak(habitLastCompleted(streak, &last), now), "last=%s", last)
		}
	}
	// Anything older breaks it.
	for days := 2; days < 60; days++ {
		last := time.Date(2025, 7, 15, 23, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
		assert.Equal(t, 0, CalculateStreak(habitLastCompleted(9, &last), now), "days=%d", days)
	}
}

func TestCalculateStreakUsesNowLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 03:00 UTC on the 15th is still the 14th in New York.
	localNow := time.Date(2025, 7, 16, 9, 0, 0, 0, ny)
	last := time.Date(2025, 7, 15, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, CalculateStreak(habitLastCompleted(4, &last), localNow))

	last = time.Date(2025, 7, 15, 5, 0, 0, 0, time.UTC)
	assert.Equal(t, 4, CalculateStreak(habitLastCompleted(4, &last), localNow))
}

func TestIsHabitCompletedToday(t *testing.T) {
	completions := []models.HabitCompletion{
		{HabitID: "h1", CompletedAt: now.AddDate(0, 0, -1)},
		{HabitID: "h2", CompletedAt: now.Add(-time.Hour)},
	}

	assert.False(t, IsHabitCompletedToday("h1", completions, now))
	assert.True(t, IsHabitCompletedToday("h2", completions, now))
	assert.False(t, IsHabitCompletedToday("h3", completions, now))
	assert.False(t, IsHabitCompletedToday("h1", nil, now))
}

func TestCompletionRate(t *testing.T) {
	h := models.Habit{ID: "h1"}

	var full []models.HabitCompletion
	for i := 0; i < 7; i++ {
		full = append(full, models.HabitCompletion{HabitID: "h1", CompletedAt: now.AddDate(0, 0, -i)})
	}
	outside := models.HabitCompletion{HabitID: "h1", CompletedAt: now.AddDate(0, 0, -8)}
	otherHabit := models.HabitCompletion{HabitID: "h2", CompletedAt: now}
	future := models.HabitCompletion{HabitID: "h1", CompletedAt: now.Add(time.Minute)}
	edge := models.HabitCompletion{HabitID: "h1", CompletedAt: now.AddDate(0, 0, -7)}

	assert.Equal(t, 100, CompletionRate(h, full, 7, now))
	assert.Equal(t, 100, CompletionRate(h, append(append([]models.HabitCompletion{}, full...), outside, otherHabit, future), 7, now))
	assert.Equal(t, 114, CompletionRate(h, append(append([]models.HabitCompletion{}, full...), edge), 7, now))
	assert.Equal(t, 43, CompletionRate(h, full[:3], 7, now))
	assert.Equal(t, 0, CompletionRate(h, nil, 7, now))
	assert.Equal(t, 0, CompletionRate(h, full, 0, now))
	assert.Equal(t, 0, CompletionRate(h, full, -3, now))
}

func TestStreakEmoji(t *testing.T) {
	tests := map[int]string{
		-1: "⭕",
		0:  "⭕",
		1:  "🔥",
		2:  "🔥",
		3:  "🚀",
		6:  "🚀",
		7:  "💪",
		13: "💪",
		14: "👑",
		29: "👑",
		30: "🏆",
		99: "🏆",
	}
	for streak, want := range tests {
		assert.Equal(t, want, StreakEmoji(streak), "streak=%d", streak)
	}
}

func TestHabitIcon(t *testing.T) {
	assert.Equal(t, "📚", HabitIcon("Read 20 pages"))
	assert.Equal(t, "💧", HabitIcon("Drink WATER"))
	assert.Equal(t, "💪", HabitIcon("Morning exercise"))
	// "read" is earlier in the table than "study"
	assert.Equal(t, "📚", HabitIcon("study and read"))
	assert.Equal(t, DefaultHabitIcon, HabitIcon("Juggle"))
	assert.Equal(t, DefaultHabitIcon, HabitIcon(""))
}

func TestSummarize(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	stale := now.AddDate(0, 0, -5)
	habits := []models.Habit{
		{ID: "h1", StreakCount: 3, LastCompleted: &yesterday},
		{ID: "h2", StreakCount: 8, LastCompleted: &stale},
		{ID: "h3", StreakCount: 2, LastCompleted: at(now)},
	}
	completions := []models.HabitCompletion{{HabitID: "h3", CompletedAt: now}}

	s := Summarize(habits, completions, now)
	assert.Equal(t, Summary{TotalHabits: 3, CompletedToday: 1, ActiveStreaks: 2, BestStreak: 3}, s)
}
