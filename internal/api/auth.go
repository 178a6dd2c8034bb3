package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"botpanel/internal/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for an access token. It does not touch the
// session store; see Authenticate for the full sign-in flow.
func (c *Client) Login(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	var token models.TokenResponse
	err := c.Post(ctx, "/auth/token", loginRequest{Username: username, Password: password}, &token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Me returns the profile of the authenticated user.
func (c *Client) Me(ctx context.Context, opts ...CallOption) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := c.Get(ctx, "/users/me", &user, opts...); err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate runs the full sign-in flow: obtain a token, fetch the
// profile with that token explicitly (the store is still logged out at
// that point), then commit both to the session store in one transition.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*models.UserProfile, error) {
	token, err := c.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	user, err := c.Me(ctx, WithHeader("Authorization", "Bearer "+token.AccessToken))
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if err := c.store.Login(token.AccessToken, user); err != nil {
		c.log.Warn().Err(err).Msg("session persisted only in memory")
	}
	return user, nil
}

// Register creates an account through the self-service sign-up path.
func (c *Client) Register(ctx context.Context, reg models.Registration) error {
	if err := validate.Struct(reg); err != nil {
		return err
	}
	return c.Post(ctx, "/users", reg, nil)
}

// TokenExpiry decodes the expiry claim from an access token without
// verifying the signature. Display use only; the backend is the sole
// authority on token validity.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.New("token has no expiry claim")
	}
	return exp.Time, nil
}
