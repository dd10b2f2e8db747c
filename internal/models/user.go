package models

import "time"

// User is an authenticated account together with its profile fields.
type User struct {
	ID        string    `json:"$id"`
	CreatedAt time.Time `json:"$createdAt"`
	UpdatedAt time.Time `json:"$updatedAt"`
	AccountID string    `json:"accountId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
}

// SignUpInput holds the fields required to create an account.
type SignUpInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,password"`
	Name     string `validate:"required,max=255"`
}

// SignInInput holds the credentials used to open a session.
type SignInInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// LeaderboardEntry is a derived, non-persisted per-user aggregate.
type LeaderboardEntry struct {
	UserID           string `json:"user_id"`
	UserName         string `json:"user_name"`
	UserAvatar       string `json:"user_avatar,omitempty"`
	TotalCompletions int    `json:"total_completions"`
	LongestStreak    int    `json:"longest_streak"`
	CurrentStreaks   int    `json:"current_streaks"`
	Rank             int    `json:"rank"`
}
