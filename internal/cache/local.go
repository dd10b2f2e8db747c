package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/julianstephens/streakline/internal/constants"
	apperrors "github.com/julianstephens/streakline/internal/errors"
	"github.com/julianstephens/streakline/internal/models"
)

// Local gives typed access to the cache slots on top of a Store.
type Local struct {
	store Store
}

func NewLocal(store Store) *Local {
	return &Local{store: store}
}

// Store returns the underlying backend.
func (l *Local) Store() Store { return l.store }

// LoadHabits returns the cached habits. A missing slot yields an empty list.
func (l *Local) LoadHabits(ctx context.Context) ([]models.Habit, error) {
	var habits []models.Habit
	if err := l.load(ctx, constants.CacheKeyHabits, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

// LoadCompletions returns the cached completions. A missing slot yields an empty list.
func (l *Local) LoadCompletions(ctx context.Context) ([]models.HabitCompletion, error) {
	var completions []models.HabitCompletion
	if err := l.load(ctx, constants.CacheKeyCompletions, &completions); err != nil {
		return nil, err
	}
	return completions, nil
}

// SaveCollections writes both collection slots. They are two independent
// writes; a failure of the second leaves the first in place.
func (l *Local) SaveCollections(ctx context.Context, habits []models.Habit, completions []models.HabitCompletion) error {
	if habits == nil {
		habits = []models.Habit{}
	}
	if completions == nil {
		completions = []models.HabitCompletion{}
	}
	if err := l.save(ctx, constants.CacheKeyHabits, habits); err != nil {
		return err
	}
	return l.save(ctx, constants.CacheKeyCompletions, completions)
}

// LoadUser returns the cached user, or nil when none is stored.
func (l *Local) LoadUser(ctx context.Context) (*models.User, error) {
	var user models.User
	raw, err := l.store.Get(ctx, constants.CacheKeyUser)
	if stderrors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached user: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decoding cached user: %w", err)
	}
	return &user, nil
}

func (l *Local) SaveUser(ctx context.Context, user models.User) error {
	return l.save(ctx, constants.CacheKeyUser, user)
}

func (l *Local) ClearUser(ctx context.Context) error {
	return l.store.Delete(ctx, constants.CacheKeyUser)
}

// LoadTheme returns the raw theme slot; "" when unset.
func (l *Local) LoadTheme(ctx context.Context) (string, error) {
	v, err := l.store.Get(ctx, constants.CacheKeyTheme)
	if stderrors.Is(err, apperrors.ErrNotFound) {
		return "", nil
	}
	return v, err
}

func (l *Local) SaveTheme(ctx context.Context, mode constants.ThemeMode) error {
	return l.store.Set(ctx, constants.CacheKeyTheme, string(mode))
}

func (l *Local) load(ctx context.Context, key string, v interface{}) error {
	raw, err := l.store.Get(ctx, key)
	if stderrors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading cache slot %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decoding cache slot %s: %w", key, err)
	}
	return nil
}

func (l *Local) save(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding cache slot %s: %w", key, err)
	}
	if err := l.store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("writing cache slot %s: %w", key, err)
	}
	return nil
}
