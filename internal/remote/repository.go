package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/streakline/internal/models"
)

// Collections names the database and collection ids the repository works on.
type Collections struct {
	DatabaseID  string
	Users       string
	Habits      string
	Completions string
}

// Repository maps the habit tracker's collections onto models.
type Repository struct {
	docs  Documents
	ids   Collections
	newID func() string
}

func NewRepository(docs Documents, ids Collections) *Repository {
	return &Repository{docs: docs, ids: ids, newID: NewID}
}

// NewID returns a fresh document id accepted by the remote service
// (at most 36 characters of [a-zA-Z0-9]).
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Collections returns the ids the repository was built with.
func (r *Repository) Collections() Collections { return r.ids }

type habitDocument struct {
	UserID        string     `json:"user_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Frequency     string     `json:"frequency"`
	StreakCount   int        `json:"streak_count"`
	LastCompleted *time.Time `json:"last_completed,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type completionDocument struct {
	UserID      string    `json:"user_id"`
	HabitID     string    `json:"habit_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type userDocument struct {
	AccountID string `json:"accountId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}

// ListHabits returns every habit owned by userID.
func (r *Repository) ListHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	list, err := r.docs.ListDocuments(ctx, r.ids.DatabaseID, r.ids.Habits, Equal("user_id", userID))
	if err != nil {
		return nil, err
	}
	return decodeList[models.Habit](list)
}

func (r *Repository) GetHabit(ctx context.Context, habitID string) (models.Habit, error) {
	raw, err := r.docs.GetDocument(ctx, r.ids.DatabaseID, r.ids.Habits, habitID)
	if err != nil {
		return models.Habit{}, err
	}
	return decode[models.Habit](raw)
}

// CreateHabit stores h under a new id and returns the record the service created.
func (r *Repository) CreateHabit(ctx context.Context, h models.Habit) (models.Habit, error) {
	doc := habitDocument{
		UserID:        h.UserID,
		Title:         h.Title,
		Description:   h.Description,
		Frequency:     string(h.Frequency),
		StreakCount:   h.StreakCount,
		LastCompleted: h.LastCompleted,
		CreatedAt:     h.CreatedOn.UTC(),
	}
	raw, err := r.docs.CreateDocument(ctx, r.ids.DatabaseID, r.ids.Habits, r.newID(), doc)
	if err != nil {
		return models.Habit{}, err
	}
	return decode[models.Habit](raw)
}

// UpdateHabit sends only the fields set in patch.
func (r *Repository) UpdateHabit(ctx context.Context, habitID string, patch models.HabitPatch) (models.Habit, error) {
	raw, err := r.docs.UpdateDocument(ctx, r.ids.DatabaseID, r.ids.Habits, habitID, patch)
	if err != nil {
		return models.Habit{}, err
	}
	return decode[models.Habit](raw)
}

func (r *Repository) DeleteHabit(ctx context.Context, habitID string) error {
	return r.docs.DeleteDocument(ctx, r.ids.DatabaseID, r.ids.Habits, habitID)
}

// ListCompletions returns the user's completions, optionally narrowed to one habit.
func (r *Repository) ListCompletions(ctx context.Context, userID, habitID string) ([]models.HabitCompletion, error) {
	queries := []Query{Equal("user_id", userID)}
	if habitID != "" {
		queries = append(queries, Equal("habit_id", habitID))
	}
	list, err := r.docs.ListDocuments(ctx, r.ids.DatabaseID, r.ids.Completions, queries...)
	if err != nil {
		return nil, err
	}
	return decodeList[models.HabitCompletion](list)
}

func (r *Repository) CreateCompletion(ctx context.Context, c models.HabitCompletion) (models.HabitCompletion, error) {
	doc := completionDocument{
		UserID:      c.UserID,
		HabitID:     c.HabitID,
		CompletedAt: c.CompletedAt.UTC(),
	}
	raw, err := r.docs.CreateDocument(ctx, r.ids.DatabaseID, r.ids.Completions, r.newID(), doc)
	if err != nil {
		return models.HabitCompletion{}, err
	}
	return decode[models.HabitCompletion](raw)
}

// ListUsers returns every profile record.
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	list, err := r.docs.ListDocuments(ctx, r.ids.DatabaseID, r.ids.Users)
	if err != nil {
		return nil, err
	}
	return decodeList[models.User](list)
}

// FindUserByAccount returns the profile record of an account, or nil when
// there is none.
func (r *Repository) FindUserByAccount(ctx context.Context, accountID string) (*models.User, error) {
	list, err := r.docs.ListDocuments(ctx, r.ids.DatabaseID, r.ids.Users, Equal("accountId", accountID), Limit(1))
	if err != nil {
		return nil, err
	}
	users, err := decodeList[models.User](list)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (r *Repository) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	doc := userDocument{
		AccountID: u.AccountID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
	}
	raw, err := r.docs.CreateDocument(ctx, r.ids.DatabaseID, r.ids.Users, r.newID(), doc)
	if err != nil {
		return models.User{}, err
	}
	return decode[models.User](raw)
}

// UserUpdate is a partial profile update.
type UserUpdate struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

func (r *Repository) UpdateUser(ctx context.Context, userID string, update UserUpdate) (models.User, error) {
	raw, err := r.docs.UpdateDocument(ctx, r.ids.DatabaseID, r.ids.Users, userID, update)
	if err != nil {
		return models.User{}, err
	}
	return decode[models.User](raw)
}

func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decoding document: %w", err)
	}
	return v, nil
}

func decodeList[T any](list *DocumentList) ([]T, error) {
	out := make([]T, 0, len(list.Documents))
	for _, raw := range list.Documents {
		v, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
