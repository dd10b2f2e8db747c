// Package leaderboard ranks every user by how many completions they logged.
package leaderboard

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/streakline/internal/constants"
	apperrors "github.com/julianstephens/streakline/internal/errors"
	"github.com/julianstephens/streakline/internal/logger"
	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/remote"
)

// Source is the remote data the leaderboard is computed from.
type Source interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListHabits(ctx context.Context, userID string) ([]models.Habit, error)
	ListCompletions(ctx context.Context, userID, habitID string) ([]models.HabitCompletion, error)
}

var _ Source = (*remote.Repository)(nil)

type Service struct {
	source      Source
	concurrency int
}

func New(source Source) *Service {
	return &Service{source: source, concurrency: constants.LeaderboardConcurrency}
}

// Fetch builds the ranked leaderboard. Any failed lookup fails the whole call.
func (s *Service) Fetch(ctx context.Context) ([]models.LeaderboardEntry, error) {
	users, err := s.source.ListUsers(ctx)
	if err != nil {
		return nil, apperrors.Remote("list users", err)
	}

	entries := make([]models.LeaderboardEntry, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, u := range users {
		g.Go(func() error {
			entry, err := s.entryFor(gctx, u)
			if err != nil {
				return err
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("Leaderboard computed", "users", len(entries))
	return Rank(entries), nil
}

// entryFor aggregates one user. Habits and completions are owned by the
// account id, so that is what the queries filter on.
func (s *Service) entryFor(ctx context.Context, u models.User) (models.LeaderboardEntry, error) {
	owner := u.AccountID
	if owner == "" {
		owner = u.ID
	}
	habits, err := s.source.ListHabits(ctx, owner)
	if err != nil {
		return models.LeaderboardEntry{}, apperrors.Remote("list habits", err)
	}
	completions, err := s.source.ListCompletions(ctx, owner, "")
	if err != nil {
		return models.LeaderboardEntry{}, apperrors.Remote("list completions", err)
	}
	return Aggregate(u, habits, completions), nil
}

// Aggregate computes a user's unranked totals. Streaks are the stored counts.
func Aggregate(u models.User, habits []models.Habit, completions []models.HabitCompletion) models.LeaderboardEntry {
	entry := models.LeaderboardEntry{
		UserID:           u.ID,
		UserName:         u.Name,
		UserAvatar:       u.Avatar,
		TotalCompletions: len(completions),
	}
	for _, h := range habits {
		if h.StreakCount > entry.LongestStreak {
			entry.LongestStreak = h.StreakCount
		}
		entry.CurrentStreaks += h.StreakCount
	}
	return entry
}

// Rank sorts entries by total completions, highest first, keeping the input
// order for ties, and numbers them from 1. The input slice is not modified.
func Rank(entries []models.LeaderboardEntry) []models.LeaderboardEntry {
	out := append([]models.LeaderboardEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalCompletions > out[j].TotalCompletions
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
