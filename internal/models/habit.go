package models

import (
	"strings"
	"time"

	"github.com/julianstephens/streakline/internal/constants"
)

// Habit is a user-defined recurring activity. JSON tags follow the remote
// document shape so the same encoding is used for the wire and the local cache.
type Habit struct {
	ID            string              `json:"$id"`
	CreatedAt     time.Time           `json:"$createdAt"`
	UpdatedAt     time.Time           `json:"$updatedAt"`
	UserID        string              `json:"user_id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Frequency     constants.Frequency `json:"frequency"`
	StreakCount   int                 `json:"streak_count"`
	LastCompleted *time.Time          `json:"last_completed,omitempty"`
	CreatedOn     time.Time           `json:"created_at"`
}

// IsTemporary reports whether the habit has not been confirmed by the remote service yet.
func (h Habit) IsTemporary() bool {
	return strings.HasPrefix(h.ID, constants.TempIDPrefix)
}

// Clone returns a deep copy of the habit.
func (h Habit) Clone() Habit {
	if h.LastCompleted != nil {
		t := *h.LastCompleted
		h.LastCompleted = &t
	}
	return h
}

// HabitInput holds the caller-supplied fields of a new habit.
type HabitInput struct {
	Title       string              `json:"title" validate:"required,max=255"`
	Description string              `json:"description" validate:"max=1000"`
	Frequency   constants.Frequency `json:"frequency" validate:"omitempty,oneof=daily weekly"`
}

// HabitPatch is a partial habit update; nil fields are left untouched.
type HabitPatch struct {
	Title         *string              `json:"title,omitempty"`
	Description   *string              `json:"description,omitempty"`
	Frequency     *constants.Frequency `json:"frequency,omitempty"`
	StreakCount   *int                 `json:"streak_count,omitempty"`
	LastCompleted *time.Time           `json:"last_completed,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p HabitPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Frequency == nil &&
		p.StreakCount == nil && p.LastCompleted == nil
}

// Apply returns a copy of h with the patch applied.
func (p HabitPatch) Apply(h Habit) Habit {
	h = h.Clone()
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.Frequency != nil {
		h.Frequency = *p.Frequency
	}
	if p.StreakCount != nil {
		h.StreakCount = *p.StreakCount
	}
	if p.LastCompleted != nil {
		t := *p.LastCompleted
		h.LastCompleted = &t
	}
	return h
}

// HabitCompletion is one instance of a habit being marked done.
type HabitCompletion struct {
	ID          string    `json:"$id"`
	CreatedAt   time.Time `json:"$createdAt"`
	UpdatedAt   time.Time `json:"$updatedAt"`
	UserID      string    `json:"user_id"`
	HabitID     string    `json:"habit_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// IsTemporary reports whether the completion has not been confirmed by the remote service yet.
func (c HabitCompletion) IsTemporary() bool {
	return strings.HasPrefix(c.ID, constants.TempIDPrefix)
}
