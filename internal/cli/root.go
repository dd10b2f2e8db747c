package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/streakline/internal/cache"
	"github.com/julianstephens/streakline/internal/config"
	apperrors "github.com/julianstephens/streakline/internal/errors"
	"github.com/julianstephens/streakline/internal/habitsync"
	"github.com/julianstephens/streakline/internal/leaderboard"
	"github.com/julianstephens/streakline/internal/logger"
	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/remote"
	"github.com/julianstephens/streakline/internal/session"
	"github.com/julianstephens/streakline/internal/theme"
	"github.com/julianstephens/streakline/internal/utils"
)

// Context is bound to every command's Run method.
type Context struct {
	Config      *config.Config
	Cache       cache.Store
	Local       *cache.Local
	Remote      remote.Service
	Repo        *remote.Repository
	Session     *session.Manager
	Habits      *habitsync.Store
	Leaderboard *leaderboard.Service
	Clock       utils.Clock
	Styles      theme.Styles
	Out         io.Writer

	ctx context.Context
}

// NewContext wires the application around an opened cache and a remote service.
func NewContext(ctx context.Context, store cache.Store, svc remote.Service, ids remote.Collections, clock utils.Clock) *Context {
	local := cache.NewLocal(store)
	repo := remote.NewRepository(svc, ids)
	return &Context{
		Cache:       store,
		Local:       local,
		Remote:      svc,
		Repo:        repo,
		Session:     session.New(svc, repo, local),
		Habits:      habitsync.New(repo, local, habitsync.WithClock(clock)),
		Leaderboard: leaderboard.New(repo),
		Clock:       clock,
		Styles:      theme.NewStyles(false),
		Out:         os.Stdout,
		ctx:         ctx,
	}
}

// Ctx returns the context commands should pass to blocking calls.
func (c *Context) Ctx() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c *Context) Now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock()
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// CurrentUser returns the signed-in user or a hint to sign in.
func (c *Context) CurrentUser() (models.User, error) {
	u, err := c.Session.RequireUser()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: run 'streakline auth login' first", err)
	}
	return u, nil
}

// OwnerID is the id habits and completions are stored under.
func OwnerID(u models.User) string {
	if u.AccountID != "" {
		return u.AccountID
	}
	return u.ID
}

// ReportResult tells the user when a change did not reach the remote service.
func (c *Context) ReportResult(what string, r habitsync.Result) {
	switch r.Status {
	case habitsync.AppliedLocalOnly:
		c.Println(c.Styles.Warning.Render(fmt.Sprintf("⚠ %s saved locally only: %v", what, r.Reason)))
	case habitsync.Reverted:
		c.Println(c.Styles.Danger.Render(fmt.Sprintf("❌ %s was undone: %v", what, r.Reason)))
	}
}

// FindHabit resolves ref against the loaded habits by id, then by
// case-insensitive title.
func (c *Context) FindHabit(ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if h, ok := c.Habits.Habit(ref); ok {
		return h, nil
	}
	var matches []models.Habit
	for _, h := range c.Habits.Habits() {
		if strings.EqualFold(h.Title, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("habit %q: %w", ref, apperrors.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%d habits are titled %q, use the id instead", len(matches), ref)
	}
}

// SyncHabits refreshes habits and today's completions for the current user.
func (c *Context) SyncHabits(u models.User) {
	owner := OwnerID(u)
	r := c.Habits.FetchHabits(c.Ctx(), owner)
	if r.Status != habitsync.Applied {
		logger.Warn("Showing cached habits", "error", r.Reason)
		c.Println(c.Styles.Warning.Render("⚠ Offline, showing cached habits"))
	}
	if r := c.Habits.FetchTodayCompletions(c.Ctx(), owner); r.Status != habitsync.Applied {
		logger.Warn("Showing cached completions", "error", r.Reason)
	}
}
