package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fjod/go_storefront/internal/domain"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Registration struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

// ProfileUpdate changes account details. OldPassword is required only when
// Password is set.
type ProfileUpdate struct {
	Username    string `json:"username"`
	Name        string `json:"name,omitempty"`
	Password    string `json:"password,omitempty"`
	OldPassword string `json:"old_password,omitempty"`
}

type userEnvelope struct {
	User domain.User `json:"user"`
}

type statusEnvelope struct {
	LoggedIn bool        `json:"logged_in"`
	User     domain.User `json:"user"`
}

// Login authenticates and stores the session cookie in the jar.
func (c *Client) Login(ctx context.Context, creds Credentials) (domain.User, error) {
	var envelope userEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &envelope); err != nil {
		return domain.User{}, fmt.Errorf("login: %w", err)
	}
	return envelope.User, nil
}

// Register creates an account; the backend logs the new user in.
func (c *Client) Register(ctx context.Context, reg Registration) (domain.User, error) {
	var envelope userEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &envelope); err != nil {
		return domain.User{}, fmt.Errorf("register: %w", err)
	}
	return envelope.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// AuthStatus reports whether the session cookie is still valid and for whom.
func (c *Client) AuthStatus(ctx context.Context) (domain.User, bool, error) {
	var envelope statusEnvelope
	if err := c.do(ctx, http.MethodGet, "/auth/status", nil, &envelope); err != nil {
		return domain.User{}, false, fmt.Errorf("auth status: %w", err)
	}
	return envelope.User, envelope.LoggedIn, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (domain.User, error) {
	var envelope userEnvelope
	if err := c.do(ctx, http.MethodPut, "/auth/profile", update, &envelope); err != nil {
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}
	return envelope.User, nil
}
