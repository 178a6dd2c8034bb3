package api

import (
	"context"
	"fmt"

	"botpanel/internal/models"
)

// MessageRanges are the time windows accepted by MessageStats.
var MessageRanges = []string{"day", "week", "month", "year"}

// StatsSummary returns the headline dashboard figures.
func (c *Client) StatsSummary(ctx context.Context) (*models.StatsSummary, error) {
	var summary models.StatsSummary
	if err := c.Get(ctx, "/stats/summary", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// MessageStats returns sent/received message series for a time range
// (day, week, month or year).
func (c *Client) MessageStats(ctx context.Context, rng string) (*models.MessageStats, error) {
	valid := false
	for _, r := range MessageRanges {
		if r == rng {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("invalid range %q", rng)
	}
	var stats models.MessageStats
	if err := c.Get(ctx, "/stats/messages/"+rng, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecentActivities returns the latest backend activity records.
func (c *Client) RecentActivities(ctx context.Context) ([]models.Activity, error) {
	var activities []models.Activity
	if err := c.Get(ctx, "/activities/recent", &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// SystemResources returns the backend host's cpu/memory/disk usage.
func (c *Client) SystemResources(ctx context.Context) (*models.SystemResources, error) {
	var resources models.SystemResources
	if err := c.Get(ctx, "/system/resources", &resources); err != nil {
		return nil, err
	}
	return &resources, nil
}
