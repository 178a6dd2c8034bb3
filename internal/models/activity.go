package models

import "time"

// Activity is a recent-activity record from GET /activities/recent.
type Activity struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	UserID      *int64    `json:"user_id,omitempty"`
	Username    string    `json:"username,omitempty"`
}
