package api

import (
	"context"
	"fmt"

	"botpanel/internal/models"
)

// ListPlugins returns every installed plugin.
func (c *Client) ListPlugins(ctx context.Context) ([]models.Plugin, error) {
	var plugins []models.Plugin
	if err := c.Get(ctx, "/plugins", &plugins); err != nil {
		return nil, err
	}
	return plugins, nil
}

// InstallPlugin installs a plugin from a source URL and returns the new
// record (backend answers 201).
func (c *Client) InstallPlugin(ctx context.Context, url string) (*models.Plugin, error) {
	req := models.InstallRequest{URL: url}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var plugin models.Plugin
	if err := c.Post(ctx, "/plugins/install", req, &plugin); err != nil {
		return nil, err
	}
	return &plugin, nil
}

type pluginToggleRequest struct {
	IsEnabled bool `json:"is_enabled"`
}

// SetPluginEnabled flips a plugin on or off.
func (c *Client) SetPluginEnabled(ctx context.Context, id int64, enabled bool) (*models.PluginToggle, error) {
	var toggle models.PluginToggle
	path := fmt.Sprintf("/plugins/%d", id)
	if err := c.Patch(ctx, path, pluginToggleRequest{IsEnabled: enabled}, &toggle); err != nil {
		return nil, err
	}
	return &toggle, nil
}

type pluginSettingsRequest struct {
	Config string `json:"config"`
}

// SavePluginSettings stores a plugin's config. The backend keeps config as
// an opaque JSON-encoded string, so that is what goes on the wire.
func (c *Client) SavePluginSettings(ctx context.Context, id int64, config string) error {
	path := fmt.Sprintf("/plugins/%d/settings", id)
	return c.Patch(ctx, path, pluginSettingsRequest{Config: config}, nil)
}

// UninstallPlugin removes a plugin (backend answers 204, empty body).
func (c *Client) UninstallPlugin(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("/plugins/%d", id), nil)
}
