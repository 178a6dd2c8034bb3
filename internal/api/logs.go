package api

import (
	"context"
	"strconv"

	"botpanel/internal/models"
)

// Logs fetches one page of backend logs. Pages start at 1.
func (c *Client) Logs(ctx context.Context, page, pageSize int) (*models.LogPage, error) {
	var logs models.LogPage
	err := c.Get(ctx, "/logs", &logs,
		WithQuery("page", strconv.Itoa(page)),
		WithQuery("page_size", strconv.Itoa(pageSize)))
	if err != nil {
		return nil, err
	}
	return &logs, nil
}
