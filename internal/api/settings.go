package api

import (
	"context"

	"botpanel/internal/models"
)

// Settings returns every backend configuration entry.
func (c *Client) Settings(ctx context.Context) ([]models.Setting, error) {
	var settings []models.Setting
	if err := c.Get(ctx, "/settings", &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

type saveSettingsRequest struct {
	Settings []models.Setting `json:"settings"`
}

// SaveSettings writes a batch of configuration entries back.
func (c *Client) SaveSettings(ctx context.Context, settings []models.Setting) error {
	return c.Patch(ctx, "/settings", saveSettingsRequest{Settings: settings}, nil)
}
