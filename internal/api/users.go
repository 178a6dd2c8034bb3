package api

import (
	"context"
	"fmt"

	"botpanel/internal/models"
)

// ListUsers returns all user records.
func (c *Client) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	var users []models.UserProfile
	if err := c.Get(ctx, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates an account as an administrator and returns the new
// record (backend answers 201).
func (c *Client) CreateUser(ctx context.Context, user models.NewUser) (*models.UserProfile, error) {
	if err := validate.Struct(user); err != nil {
		return nil, err
	}
	var created models.UserProfile
	if err := c.Post(ctx, "/users", user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// PatchUser applies partial flags to a user and returns the updated record.
func (c *Client) PatchUser(ctx context.Context, id int64, patch models.UserPatch) (*models.UserProfile, error) {
	var updated models.UserProfile
	if err := c.Patch(ctx, fmt.Sprintf("/users/%d", id), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetUserActive enables or disables an account.
func (c *Client) SetUserActive(ctx context.Context, id int64, active bool) (*models.UserProfile, error) {
	return c.PatchUser(ctx, id, models.UserPatch{IsActive: &active})
}

// SetUserAdmin grants or revokes admin rights.
func (c *Client) SetUserAdmin(ctx context.Context, id int64, admin bool) (*models.UserProfile, error) {
	return c.PatchUser(ctx, id, models.UserPatch{IsAdmin: &admin})
}
