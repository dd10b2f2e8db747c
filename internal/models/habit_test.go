package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/streakline/internal/constants"
)

func TestHabitPatchApply(t *testing.T) {
	last := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	base := Habit{
		ID:            "h1",
		Title:         "Read",
		Description:   "20 pages",
		Frequency:     constants.FrequencyDaily,
		StreakCount:   4,
		LastCompleted: &last,
	}

	title := "Read more"
	streak := 5
	patched := HabitPatch{Title: &title, StreakCount: &streak}.Apply(base)

	assert.Equal(t, "Read more", patched.Title)
	assert.Equal(t, 5, patched.StreakCount)
	assert.Equal(t, "20 pages", patched.Description)
	assert.Equal(t, "Read", base.Title, "original must be untouched")

	*patched.LastCompleted = last.Add(time.Hour)
	assert.Equal(t, last, *base.LastCompleted, "clone must not share last_completed")
}

func TestHabitPatchIsEmpty(t *testing.T) {
	assert.True(t, HabitPatch{}.IsEmpty())
	freq := constants.FrequencyWeekly
	assert.False(t, HabitPatch{Frequency: &freq}.IsEmpty())
}

func TestIsTemporary(t *testing.T) {
	assert.True(t, Habit{ID: "temp_1700000000000"}.IsTemporary())
	assert.False(t, Habit{ID: "6863c6de001fe39e0414"}.IsTemporary())
	assert.True(t, HabitCompletion{ID: "temp_1"}.IsTemporary())
}
