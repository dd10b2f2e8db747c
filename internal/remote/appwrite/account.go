package appwrite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/julianstephens/streakline/internal/remote"
)

func (c *Client) CreateAccount(ctx context.Context, userID, email, password, name string) (*remote.Account, error) {
	body := map[string]string{
		"userId":   userID,
		"email":    email,
		"password": password,
		"name":     name,
	}
	var acct remote.Account
	if err := c.do(ctx, "account.create", http.MethodPost, "/account", nil, body, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

func (c *Client) CreateEmailSession(ctx context.Context, email, password string) (*remote.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var session remote.Session
	if err := c.do(ctx, "account.createEmailPasswordSession", http.MethodPost, "/account/sessions/email", nil, body, &session); err != nil {
		return nil, err
	}
	// Servers that do not echo the fallback cookie still return the secret.
	if session.Secret != "" && c.sessionCookie() == "" {
		c.setSessionCookie(fmt.Sprintf(`{"a_session_%s":%q}`, c.cfg.ProjectID, session.Secret))
	}
	return &session, nil
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (*remote.Session, error) {
	var session remote.Session
	path := "/account/sessions/" + url.PathEscape(sessionID)
	if err := c.do(ctx, "account.getSession", http.MethodGet, path, nil, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession ends a session. The local cookie is dropped on success and
// when the service says the session is already gone.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	path := "/account/sessions/" + url.PathEscape(sessionID)
	err := c.do(ctx, "account.deleteSession", http.MethodDelete, path, nil, nil, nil)
	var rerr *remote.Error
	if err == nil || (errors.As(err, &rerr) && rerr.Code == http.StatusUnauthorized) {
		c.ClearSession()
	}
	return err
}

func (c *Client) GetAccount(ctx context.Context) (*remote.Account, error) {
	var acct remote.Account
	if err := c.do(ctx, "account.get", http.MethodGet, "/account", nil, nil, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

func (c *Client) UpdateAccountName(ctx context.Context, name string) (*remote.Account, error) {
	var acct remote.Account
	if err := c.do(ctx, "account.updateName", http.MethodPatch, "/account/name", nil, map[string]string{"name": name}, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// AvatarInitialsURL builds the initials image URL; no request is made.
func (c *Client) AvatarInitialsURL(name string) (string, error) {
	u, err := url.Parse(c.cfg.Endpoint + "/avatars/initials")
	if err != nil {
		return "", fmt.Errorf("building avatar url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("building avatar url: endpoint %q is not absolute", c.cfg.Endpoint)
	}
	q := url.Values{}
	q.Set("name", name)
	q.Set("project", c.cfg.ProjectID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
