// Package habitsync keeps the user's habits and completions in memory and in
// the local cache, and mirrors every change to the remote service with
// optimistic updates.
package habitsync

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/julianstephens/streakline/internal/cache"
	"github.com/julianstephens/streakline/internal/constants"
	apperrors "github.com/julianstephens/streakline/internal/errors"
	"github.com/julianstephens/streakline/internal/logger"
	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/observability"
	"github.com/julianstephens/streakline/internal/remote"
	"github.com/julianstephens/streakline/internal/stats"
	"github.com/julianstephens/streakline/internal/utils"
	"github.com/julianstephens/streakline/internal/validation"
)

// Repository is the slice of the remote repository the store needs.
type Repository interface {
	ListHabits(ctx context.Context, userID string) ([]models.Habit, error)
	GetHabit(ctx context.Context, habitID string) (models.Habit, error)
	CreateHabit(ctx context.Context, h models.Habit) (models.Habit, error)
	UpdateHabit(ctx context.Context, habitID string, patch models.HabitPatch) (models.Habit, error)
	DeleteHabit(ctx context.Context, habitID string) error
	ListCompletions(ctx context.Context, userID, habitID string) ([]models.HabitCompletion, error)
	CreateCompletion(ctx context.Context, c models.HabitCompletion) (models.HabitCompletion, error)
}

var _ Repository = (*remote.Repository)(nil)

const (
	opFetchHabits      = "fetch_habits"
	opCreateHabit      = "create_habit"
	opUpdateHabit      = "update_habit"
	opDeleteHabit      = "delete_habit"
	opCompleteHabit    = "complete_habit"
	opFetchCompletions = "fetch_today_completions"
	statusRejected     = "rejected"
)

type Option func(*Store)

// WithClock pins "now"; calendar days are judged in the clock's location.
func WithClock(clock utils.Clock) Option {
	return func(s *Store) { s.clock = clock }
}

// WithValidator replaces the default input validator.
func WithValidator(v *validation.Validator) Option {
	return func(s *Store) { s.validator = v }
}

// Store owns the in-memory habit and completion collections. The mutex is
// never held across a remote call.
type Store struct {
	repo      Repository
	local     *cache.Local
	clock     utils.Clock
	validator *validation.Validator

	mu          sync.Mutex
	habits      []models.Habit
	completions []models.HabitCompletion
	inflight    map[string]struct{}

	// persistMu orders cache writes so a stale snapshot never lands last.
	persistMu sync.Mutex
}

func New(repo Repository, local *cache.Local, opts ...Option) *Store {
	s := &Store{
		repo:     repo,
		local:    local,
		clock:    utils.SystemClock(time.Local),
		inflight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validator == nil {
		s.validator = validation.New()
	}
	return s
}

// Load fills memory from the cache without contacting the remote service.
func (s *Store) Load(ctx context.Context) error {
	habits, err := s.local.LoadHabits(ctx)
	if err != nil {
		return err
	}
	completions, err := s.local.LoadCompletions(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.habits = habits
	s.completions = completions
	s.mu.Unlock()
	return nil
}

// Habits returns a copy of the current habits.
func (s *Store) Habits() []models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneHabits(s.habits)
}

// Completions returns a copy of the current completions.
func (s *Store) Completions() []models.HabitCompletion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.HabitCompletion(nil), s.completions...)
}

// Habit returns a copy of one habit.
func (s *Store) Habit(habitID string) (models.Habit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOfHabit(habitID); i >= 0 {
		return s.habits[i].Clone(), true
	}
	return models.Habit{}, false
}

// FetchHabits shows cached habits first, then replaces them with the
// remote list. A remote failure keeps the cached list.
func (s *Store) FetchHabits(ctx context.Context, userID string) Result {
	if cached, err := s.local.LoadHabits(ctx); err != nil {
		logger.Warn("Failed to read cached habits", "error", err)
	} else {
		s.mu.Lock()
		s.habits = cached
		s.mu.Unlock()
	}

	habits, err := s.repo.ListHabits(ctx, userID)
	if err != nil {
		err = apperrors.Remote("list habits", err)
		logger.Warn("Using cached habits", "op", opFetchHabits, "error", err)
		return s.record(opFetchHabits, localOnly(err))
	}

	s.mu.Lock()
	s.habits = habits
	s.mu.Unlock()
	s.persist(ctx)
	return s.record(opFetchHabits, applied())
}

// CreateHabit inserts a temporary habit immediately and then creates it
// remotely. On remote failure the temporary habit stays.
func (s *Store) CreateHabit(ctx context.Context, userID string, in models.HabitInput) (models.Habit, Result, error) {
	if err := s.validator.HabitInput(in); err != nil {
		observability.RecordSyncOperation(opCreateHabit, statusRejected)
		return models.Habit{}, Result{}, err
	}
	in = validation.NormalizeHabitInput(in)
	now := s.clock()

	s.mu.Lock()
	temp := models.Habit{
		ID:          s.tempIDLocked(now),
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Frequency:   in.Frequency,
		StreakCount: 0,
		CreatedOn:   now,
	}
	s.habits = append(s.habits, temp)
	s.inflight[temp.ID] = struct{}{}
	s.mu.Unlock()
	defer s.release(temp.ID)
	s.persist(ctx)

	created, err := s.repo.CreateHabit(ctx, temp)
	if err != nil {
		err = apperrors.Remote("create habit", err)
		logger.Warn("Habit kept locally", "op", opCreateHabit, "habit_id", temp.ID, "error", err)
		return temp.Clone(), s.record(opCreateHabit, localOnly(err)), nil
	}

	s.mu.Lock()
	if i := s.indexOfHabit(temp.ID); i >= 0 {
		s.habits[i] = created
	} else if s.indexOfHabit(created.ID) < 0 {
		s.habits = append(s.habits, created)
	}
	s.mu.Unlock()
	s.persist(ctx)
	return created.Clone(), s.record(opCreateHabit, applied()), nil
}

// UpdateHabit applies patch locally, then remotely. On remote failure the
// whole habit collection returns to its pre-call state and the error is
// returned. The restore is whole-collection: a FetchHabits that landed while
// the remote call was in flight is rolled back too.
func (s *Store) UpdateHabit(ctx context.Context, habitID string, patch models.HabitPatch) (Result, error) {
	patch = validation.NormalizeHabitPatch(patch)
	if err := s.validator.HabitPatch(patch); err != nil {
		observability.RecordSyncOperation(opUpdateHabit, statusRejected)
		return Result{}, err
	}

	s.mu.Lock()
	i, err := s.claimLocked(habitID)
	if err != nil {
		s.mu.Unlock()
		observability.RecordSyncOperation(opUpdateHabit, statusRejected)
		return Result{}, err
	}
	snapshot := cloneHabits(s.habits)
	s.habits[i] = patch.Apply(s.habits[i])
	s.mu.Unlock()
	defer s.release(habitID)
	s.persist(ctx)

	updated, err := s.repo.UpdateHabit(ctx, habitID, patch)
	if err != nil {
		s.mu.Lock()
		s.habits = snapshot
		s.mu.Unlock()
		s.persist(ctx)
		err = apperrors.Remote("update habit", err)
		logger.Warn("Habit update reverted", "op", opUpdateHabit, "habit_id", habitID, "error", err)
		return s.record(opUpdateHabit, reverted(err)), err
	}

	s.mu.Lock()
	if i := s.indexOfHabit(habitID); i >= 0 {
		s.habits[i] = updated
	}
	s.mu.Unlock()
	s.persist(ctx)
	return s.record(opUpdateHabit, applied()), nil
}

// DeleteHabit removes the habit locally, then remotely. On remote failure
// the pre-call collection is restored and the error is returned. Like
// UpdateHabit, the restore replaces the whole collection.
func (s *Store) DeleteHabit(ctx context.Context, habitID string) (Result, error) {
	s.mu.Lock()
	i, err := s.claimLocked(habitID)
	if err != nil {
		s.mu.Unlock()
		observability.RecordSyncOperation(opDeleteHabit, statusRejected)
		return Result{}, err
	}
	snapshot := cloneHabits(s.habits)
	s.habits = append(s.habits[:i:i], s.habits[i+1:]...)
	s.mu.Unlock()
	defer s.release(habitID)
	s.persist(ctx)

	if err := s.repo.DeleteHabit(ctx, habitID); err != nil {
		s.mu.Lock()
		s.habits = snapshot
		s.mu.Unlock()
		s.persist(ctx)
		err = apperrors.Remote("delete habit", err)
		logger.Warn("Habit delete reverted", "op", opDeleteHabit, "habit_id", habitID, "error", err)
		return s.record(opDeleteHabit, reverted(err)), err
	}
	return s.record(opDeleteHabit, applied()), nil
}

// CompleteHabit records today's completion and bumps the streak locally,
// then syncs. Only a schema mismatch is returned as an error after the
// local commit; other remote failures leave an unsynced local completion.
func (s *Store) CompleteHabit(ctx context.Context, userID, habitID string) (models.HabitCompletion, Result, error) {
	now := s.clock()

	// The today-check and the local commit share one critical section so two
	// rapid completes cannot both pass.
	s.mu.Lock()
	i, err := s.claimLocked(habitID)
	if err != nil {
		s.mu.Unlock()
		observability.RecordSyncOperation(opCompleteHabit, statusRejected)
		return models.HabitCompletion{}, Result{}, err
	}
	if stats.IsHabitCompletedToday(habitID, s.completions, now) {
		delete(s.inflight, habitID)
		s.mu.Unlock()
		observability.RecordSyncOperation(opCompleteHabit, statusRejected)
		return models.HabitCompletion{}, Result{}, apperrors.ErrAlreadyCompleted
	}
	temp := models.HabitCompletion{
		ID:          s.tempIDLocked(now),
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      userID,
		HabitID:     habitID,
		CompletedAt: now,
	}
	s.completions = append(s.completions, temp)
	h := s.habits[i].Clone()
	h.StreakCount++
	h.LastCompleted = &now
	s.habits[i] = h
	s.mu.Unlock()
	defer s.release(habitID)
	s.persist(ctx)

	created, err := s.repo.CreateCompletion(ctx, temp)
	if err != nil {
		return temp, s.completionFailed(temp, err), s.schemaError(err)
	}

	s.mu.Lock()
	for j := range s.completions {
		if s.completions[j].ID == temp.ID {
			s.completions[j] = created
			break
		}
	}
	s.mu.Unlock()
	s.persist(ctx)

	if err := s.syncStreak(ctx, habitID, now); err != nil {
		return created, s.completionFailed(temp, err), s.schemaError(err)
	}
	return created, s.record(opCompleteHabit, applied()), nil
}

// syncStreak mirrors the streak bump on the remote habit. The remote count is
// only increased when its last completion is not already today (UTC date).
func (s *Store) syncStreak(ctx context.Context, habitID string, now time.Time) error {
	h, err := s.repo.GetHabit(ctx, habitID)
	if err != nil {
		return err
	}
	streak := h.StreakCount
	if h.LastCompleted == nil || utils.UTCDate(*h.LastCompleted) != utils.UTCDate(now) {
		streak++
	}
	last := now.UTC()
	_, err = s.repo.UpdateHabit(ctx, habitID, models.HabitPatch{StreakCount: &streak, LastCompleted: &last})
	return err
}

func (s *Store) completionFailed(temp models.HabitCompletion, err error) Result {
	reason := apperrors.Remote("complete habit", err)
	if remote.IsSchemaMismatch(err) {
		reason = fmt.Errorf("%w: %w", apperrors.ErrSchemaMismatch, err)
		logger.Error("Remote collections are misconfigured", "op", opCompleteHabit, "habit_id", temp.HabitID, "error", err)
	} else {
		logger.Warn("Completion kept locally", "op", opCompleteHabit, "habit_id", temp.HabitID, "error", err)
	}
	return s.record(opCompleteHabit, localOnly(reason))
}

func (s *Store) schemaError(err error) error {
	if remote.IsSchemaMismatch(err) {
		return fmt.Errorf("%w: %w", apperrors.ErrSchemaMismatch, err)
	}
	return nil
}

// FetchTodayCompletions shows cached completions first, then replaces them
// with the user's remote completions dated today (UTC date).
func (s *Store) FetchTodayCompletions(ctx context.Context, userID string) Result {
	if cached, err := s.local.LoadCompletions(ctx); err != nil {
		logger.Warn("Failed to read cached completions", "error", err)
	} else {
		s.mu.Lock()
		s.completions = cached
		s.mu.Unlock()
	}

	all, err := s.repo.ListCompletions(ctx, userID, "")
	if err != nil {
		err = apperrors.Remote("list completions", err)
		logger.Warn("Using cached completions", "op", opFetchCompletions, "error", err)
		return s.record(opFetchCompletions, localOnly(err))
	}

	today := utils.UTCDate(s.clock())
	todays := make([]models.HabitCompletion, 0, len(all))
	for _, c := range all {
		if utils.UTCDate(c.CompletedAt) == today {
			todays = append(todays, c)
		}
	}

	s.mu.Lock()
	s.completions = todays
	s.mu.Unlock()
	s.persist(ctx)
	return s.record(opFetchCompletions, applied())
}

// claimLocked finds the habit and marks it in flight. Caller holds mu.
func (s *Store) claimLocked(habitID string) (int, error) {
	i := s.indexOfHabit(habitID)
	if i < 0 {
		return -1, fmt.Errorf("habit %s: %w", habitID, apperrors.ErrNotFound)
	}
	if _, busy := s.inflight[habitID]; busy {
		return -1, fmt.Errorf("habit %s: %w", habitID, apperrors.ErrHabitBusy)
	}
	s.inflight[habitID] = struct{}{}
	return i, nil
}

func (s *Store) release(habitID string) {
	s.mu.Lock()
	delete(s.inflight, habitID)
	s.mu.Unlock()
}

func (s *Store) indexOfHabit(habitID string) int {
	for i := range s.habits {
		if s.habits[i].ID == habitID {
			return i
		}
	}
	return -1
}

// tempIDLocked returns temp_<unix millis>, bumped past any id already in use.
// Caller holds mu.
func (s *Store) tempIDLocked(now time.Time) string {
	ms := now.UnixMilli()
	for {
		id := constants.TempIDPrefix + strconv.FormatInt(ms, 10)
		if !s.idInUseLocked(id) {
			return id
		}
		ms++
	}
}

func (s *Store) idInUseLocked(id string) bool {
	if s.indexOfHabit(id) >= 0 {
		return true
	}
	for _, c := range s.completions {
		if c.ID == id {
			return true
		}
	}
	return false
}

// persist writes both collections to the cache. Cache failures are logged;
// memory stays authoritative for the session.
func (s *Store) persist(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	habits := cloneHabits(s.habits)
	completions := append([]models.HabitCompletion(nil), s.completions...)
	s.mu.Unlock()

	if err := s.local.SaveCollections(ctx, habits, completions); err != nil {
		logger.Warn("Failed to write local cache", "error", err)
	}
}

func (s *Store) record(op string, r Result) Result {
	observability.RecordSyncOperation(op, r.Status.String())
	return r
}

func cloneHabits(in []models.Habit) []models.Habit {
	if in == nil {
		return nil
	}
	out := make([]models.Habit, len(in))
	for i, h := range in {
		out[i] = h.Clone()
	}
	return out
}
