// Package stats holds the pure streak and progress calculations shown next
// to each habit. Every function takes "now" explicitly; calendar days are
// judged in now's location.
package stats

import (
	"math"
	"strings"
	"time"

	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/utils"
)

// CalculateStreak returns the streak to display for h. A habit last completed
// today or yesterday keeps its stored count; any larger gap breaks it.
func CalculateStreak(h models.Habit, now time.Time) int {
	if h.LastCompleted == nil {
		return 0
	}
	gap := utils.CalendarDaysBetween(*h.LastCompleted, now)
	if gap < 0 {
		gap = -gap
	}
	if gap > 1 {
		return 0
	}
	return h.StreakCount
}

// IsHabitCompletedToday reports whether any completion of habitID falls on now's calendar day.
func IsHabitCompletedToday(habitID string, completions []models.HabitCompletion, now time.Time) bool {
	for _, c := range completions {
		if c.HabitID == habitID && utils.IsToday(c.CompletedAt, now) {
			return true
		}
	}
	return false
}

// CompletionRate is the percentage of the last windowDays covered by
// completions of h, counting completions in [now-windowDays, now]. It is
// rounded and not capped at 100.
func CompletionRate(h models.Habit, completions []models.HabitCompletion, windowDays int, now time.Time) int {
	if windowDays <= 0 {
		return 0
	}
	start := now.AddDate(0, 0, -windowDays)
	count := 0
	for _, c := range completions {
		if c.HabitID != h.ID {
			continue
		}
		if c.CompletedAt.Before(start) || c.CompletedAt.After(now) {
			continue
		}
		count++
	}
	return int(math.Round(float64(count) / float64(windowDays) * 100))
}

// StreakEmoji labels a streak length.
func StreakEmoji(streak int) string {
	switch {
	case streak <= 0:
		return "⭕"
	case streak < 3:
		return "🔥"
	case streak < 7:
		return "🚀"
	case streak < 14:
		return "💪"
	case streak < 30:
		return "👑"
	default:
		return "🏆"
	}
}

var habitIcons = []struct {
	keyword string
	icon    string
}{
	{"exercise", "💪"},
	{"water", "💧"},
	{"read", "📚"},
	{"meditate", "🧘"},
	{"sleep", "😴"},
	{"diet", "🥗"},
	{"walk", "🚶"},
	{"code", "💻"},
	{"music", "🎵"},
	{"art", "🎨"},
	{"write", "✍️"},
	{"clean", "🧹"},
	{"study", "📖"},
	{"work", "💼"},
	{"family", "👨‍👩‍👧‍👦"},
	{"friends", "👫"},
	{"hobby", "🎯"},
	{"health", "❤️"},
	{"money", "💰"},
	{"travel", "✈️"},
}

// DefaultHabitIcon is used when no keyword matches.
const DefaultHabitIcon = "⭐"

// HabitIcon picks an icon from the first keyword contained in title.
func HabitIcon(title string) string {
	t := strings.ToLower(title)
	for _, entry := range habitIcons {
		if strings.Contains(t, entry.keyword) {
			return entry.icon
		}
	}
	return DefaultHabitIcon
}

// Summary aggregates the day's progress.
type Summary struct {
	TotalHabits    int
	CompletedToday int
	ActiveStreaks  int
	BestStreak     int
}

// Summarize computes the day view totals for a set of habits.
func Summarize(habits []models.Habit, completions []models.HabitCompletion, now time.Time) Summary {
	s := Summary{TotalHabits: len(habits)}
	for _, h := range habits {
		if IsHabitCompletedToday(h.ID, completions, now) {
			s.CompletedToday++
		}
		streak := CalculateStreak(h, now)
		if streak > 0 {
			s.ActiveStreaks++
		}
		if streak > s.BestStreak {
			s.BestStreak = streak
		}
	}
	return s
}
