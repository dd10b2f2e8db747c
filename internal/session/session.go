// Package session tracks the signed-in user. The user is mirrored into the
// local cache so the last known identity is available offline.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/julianstephens/streakline/internal/cache"
	"github.com/julianstephens/streakline/internal/constants"
	apperrors "github.com/julianstephens/streakline/internal/errors"
	"github.com/julianstephens/streakline/internal/logger"
	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/remote"
	"github.com/julianstephens/streakline/internal/validation"
)

// Profiles stores the per-user profile records.
type Profiles interface {
	FindUserByAccount(ctx context.Context, accountID string) (*models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UpdateUser(ctx context.Context, userID string, update remote.UserUpdate) (models.User, error)
}

var _ Profiles = (*remote.Repository)(nil)

// sessionClearer is implemented by clients that keep a session secret locally.
type sessionClearer interface {
	ClearSession()
}

type Manager struct {
	accounts  remote.Accounts
	profiles  Profiles
	local     *cache.Local
	validator *validation.Validator

	mu      sync.Mutex
	current *models.User
}

func New(accounts remote.Accounts, profiles Profiles, local *cache.Local) *Manager {
	return &Manager{
		accounts:  accounts,
		profiles:  profiles,
		local:     local,
		validator: validation.New(),
	}
}

// Current returns a copy of the signed-in user, or nil.
func (m *Manager) Current() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	u := *m.current
	return &u
}

// RequireUser returns the current user or ErrNotAuthenticated.
func (m *Manager) RequireUser() (models.User, error) {
	if u := m.Current(); u != nil {
		return *u, nil
	}
	return models.User{}, apperrors.ErrNotAuthenticated
}

func (m *Manager) setCurrent(u *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = u
}

// Bootstrap restores the cached user and then asks the remote service for the
// authoritative account. A cached user survives a remote failure; without one
// the session is cleared.
func (m *Manager) Bootstrap(ctx context.Context) (*models.User, error) {
	cached, err := m.local.LoadUser(ctx)
	if err != nil {
		logger.Warn("Failed to read cached user", "error", err)
		cached = nil
	}
	if cached != nil {
		m.setCurrent(cached)
	}

	user, err := m.fetchCurrentUser(ctx)
	if err == nil {
		m.remember(ctx, user)
		return m.Current(), nil
	}

	logger.Debug("Remote account lookup failed", "error", err)
	if remote.IsSessionError(err) {
		if derr := m.accounts.DeleteSession(ctx, constants.CurrentSession); derr != nil {
			logger.Debug("Failed to clear stale session", "error", derr)
		}
		m.clearSecret()
	}
	if cached == nil {
		m.setCurrent(nil)
		if cerr := m.local.ClearUser(ctx); cerr != nil {
			return nil, cerr
		}
		return nil, nil
	}
	logger.Warn("Using cached user", "user_id", cached.ID, "error", err)
	return m.Current(), nil
}

// SignIn opens a session, reusing one that is already active.
func (m *Manager) SignIn(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if err := m.validator.SignIn(models.SignInInput{Email: email, Password: password}); err != nil {
		return models.User{}, err
	}
	if err := m.openSession(ctx, email, password); err != nil {
		return models.User{}, err
	}

	user, err := m.fetchCurrentUser(ctx)
	if err != nil {
		return models.User{}, apperrors.Remote("get account", err)
	}
	m.remember(ctx, user)
	logger.Info("Signed in", "user_id", user.ID)
	return user, nil
}

func (m *Manager) openSession(ctx context.Context, email, password string) error {
	if s, err := m.accounts.GetSession(ctx, constants.CurrentSession); err == nil && s != nil {
		logger.Debug("Reusing active session", "session_id", s.ID)
		return nil
	}
	if _, err := m.accounts.CreateEmailSession(ctx, email, password); err != nil {
		if remote.IsUnauthorized(err) {
			return fmt.Errorf("%w: %w", apperrors.ErrInvalidCredentials, err)
		}
		return apperrors.Remote("sign in", err)
	}
	return nil
}

// SignUp creates the account, signs in and then creates the profile record.
// The profile is written after sign-in because it needs the session's
// permissions. A failed avatar lookup leaves the avatar empty.
func (m *Manager) SignUp(ctx context.Context, email, password, name string) (models.User, error) {
	in := models.SignUpInput{Email: strings.TrimSpace(email), Password: password, Name: strings.TrimSpace(name)}
	if err := m.validator.SignUp(in); err != nil {
		return models.User{}, err
	}

	account, err := m.accounts.CreateAccount(ctx, remote.NewID(), in.Email, in.Password, in.Name)
	if err != nil {
		return models.User{}, apperrors.Remote("create account", err)
	}

	avatar, err := m.accounts.AvatarInitialsURL(account.Name)
	if err != nil {
		logger.Warn("Failed to generate avatar, using none", "error", err)
		avatar = ""
	}
	avatar = validation.TruncateAvatar(avatar)

	if err := m.openSession(ctx, in.Email, in.Password); err != nil {
		return models.User{}, err
	}

	if _, err := m.profiles.CreateUser(ctx, models.User{
		AccountID: account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Avatar:    avatar,
	}); err != nil {
		return models.User{}, apperrors.Remote("create profile", err)
	}

	user := userFromAccount(account, avatar)
	m.remember(ctx, user)
	logger.Info("Account created", "user_id", user.ID)
	return user, nil
}

// SignOut deletes the remote session. Local state is cleared even when that
// call fails.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.accounts.DeleteSession(ctx, constants.CurrentSession); err != nil {
		logger.Warn("Remote sign-out failed, clearing local session anyway", "error", err)
	}
	m.clearSecret()
	m.setCurrent(nil)
	return m.local.ClearUser(ctx)
}

// UpdateProfile renames the account and updates the profile record. An empty
// avatar keeps the current one.
func (m *Manager) UpdateProfile(ctx context.Context, name, avatar string) (models.User, error) {
	user, err := m.RequireUser()
	if err != nil {
		return models.User{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, apperrors.Invalid("name", "is required")
	}
	if len(name) > 255 {
		return models.User{}, apperrors.Invalid("name", "must be at most 255 characters")
	}
	if avatar = validation.TruncateAvatar(strings.TrimSpace(avatar)); avatar == "" {
		avatar = user.Avatar
	}

	if _, err := m.accounts.UpdateAccountName(ctx, name); err != nil {
		return models.User{}, apperrors.Remote("update account", err)
	}

	accountID := user.AccountID
	if accountID == "" {
		accountID = user.ID
	}
	profile, err := m.profiles.FindUserByAccount(ctx, accountID)
	if err != nil {
		return models.User{}, apperrors.Remote("find profile", err)
	}
	if profile == nil {
		_, err = m.profiles.CreateUser(ctx, models.User{AccountID: accountID, Name: name, Email: user.Email, Avatar: avatar})
	} else {
		_, err = m.profiles.UpdateUser(ctx, profile.ID, remote.UserUpdate{Name: &name, Avatar: &avatar})
	}
	if err != nil {
		return models.User{}, apperrors.Remote("update profile", err)
	}

	user.Name = name
	user.Avatar = avatar
	m.remember(ctx, user)
	return user, nil
}

// fetchCurrentUser builds the user from the remote account, taking the avatar
// from the profile record when one exists.
func (m *Manager) fetchCurrentUser(ctx context.Context) (models.User, error) {
	account, err := m.accounts.GetAccount(ctx)
	if err != nil {
		return models.User{}, err
	}

	avatar := ""
	profile, err := m.profiles.FindUserByAccount(ctx, account.ID)
	switch {
	case err != nil:
		logger.Debug("Profile lookup failed", "account_id", account.ID, "error", err)
	case profile != nil:
		avatar = profile.Avatar
	}
	if avatar == "" {
		if avatar, err = m.accounts.AvatarInitialsURL(account.Name); err != nil {
			logger.Debug("Failed to generate avatar", "error", err)
			avatar = ""
		}
	}
	return userFromAccount(account, validation.TruncateAvatar(avatar)), nil
}

func (m *Manager) remember(ctx context.Context, user models.User) {
	m.setCurrent(&user)
	if err := m.local.SaveUser(ctx, user); err != nil {
		logger.Warn("Failed to cache user", "error", err)
	}
}

func (m *Manager) clearSecret() {
	if c, ok := m.accounts.(sessionClearer); ok {
		c.ClearSession()
	}
}

func userFromAccount(a *remote.Account, avatar string) models.User {
	return models.User{
		ID:        a.ID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		AccountID: a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Avatar:    avatar,
	}
}
