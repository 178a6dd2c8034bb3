package mockapi

import (
	"fmt"
	"sync"
	"time"

	"botpanel/internal/models"
)

// userRecord is a user row plus the credential the API never returns.
type userRecord struct {
	models.UserProfile
	PasswordHash string
}

// state is the in-memory dataset behind the mock backend. One mutex guards
// everything; this server exists for tests and local development, not load.
type state struct {
	mu sync.Mutex

	users      []*userRecord
	plugins    []*models.Plugin
	settings   []models.Setting
	activities []models.Activity
	logs       []models.LogEntry

	nextUserID     int64
	nextPluginID   int64
	nextActivityID int64

	startedAt     time.Time
	totalMessages int64
	dailyMessages int64
}

// newState seeds the dataset with an admin account and enough records for
// every list view to have something to show.
func newState(adminUser, adminPassword string) (*state, error) {
	hash, err := hashPassword(adminPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	st := &state{
		nextUserID:     2,
		nextPluginID:   3,
		nextActivityID: 1,
		startedAt:      now,
		totalMessages:  1000,
		dailyMessages:  100,
	}

	st.users = append(st.users, &userRecord{
		UserProfile: models.UserProfile{
			ID:        1,
			Username:  adminUser,
			Email:     adminUser + "@example.com",
			FullName:  "Administrator",
			IsAdmin:   true,
			IsActive:  true,
			Role:      "admin",
			CreatedAt: now.Add(-30 * 24 * time.Hour),
		},
		PasswordHash: hash,
	})

	st.plugins = append(st.plugins,
		&models.Plugin{
			ID: 1, Name: "auto-responder", Version: "1.0.0",
			Description: "Replies to incoming messages with canned answers",
			Author: "core", Category: "tools", IsEnabled: true,
			Config: `{"reply_delay_seconds":2}`,
		},
		&models.Plugin{
			ID: 2, Name: "spam-guard", Version: "0.9.1",
			Description: "Drops messages matching blocklist patterns",
			Author: "core", Category: "security", IsEnabled: false,
			Config: `{"max_links":3}`,
		},
	)

	st.settings = []models.Setting{
		{Key: "bot_name", Value: "selfbot", Description: "Display name of the bot"},
		{Key: "bot_auto_start", Value: "true", Description: "Start the bot with the service"},
		{Key: "log_level", Value: "info", Description: "Backend log verbosity"},
		{Key: "log_retention_days", Value: "14", Description: "Days to keep message logs"},
	}

	st.recordActivity("system", "backend started", nil, "")

	sources := []string{"core", "plugins", "api", "scheduler"}
	levels := []string{"INFO", "INFO", "WARNING", "DEBUG", "ERROR"}
	for i := 0; i < 120; i++ {
		st.logs = append(st.logs, models.LogEntry{
			ID:        int64(i + 1),
			Timestamp: now.Add(-time.Duration(i) * time.Minute),
			Level:     levels[i%len(levels)],
			Source:    sources[i%len(sources)],
			Message:   fmt.Sprintf("event %d processed", i+1),
		})
	}

	return st, nil
}

// recordActivity appends to the activity feed, newest first. Caller may or
// may not hold the lock; this helper expects it held except during seeding.
func (st *state) recordActivity(kind, description string, userID *int64, username string) {
	entry := models.Activity{
		ID:          st.nextActivityID,
		Type:        kind,
		Description: description,
		Timestamp:   time.Now().UTC(),
		UserID:      userID,
		Username:    username,
	}
	st.nextActivityID++
	st.activities = append([]models.Activity{entry}, st.activities...)
	if len(st.activities) > 50 {
		st.activities = st.activities[:50]
	}
}

func (st *state) findUser(id int64) *userRecord {
	for _, u := range st.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (st *state) findUserByName(username string) *userRecord {
	for _, u := range st.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func (st *state) findPlugin(id int64) *models.Plugin {
	for _, p := range st.plugins {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// messageSeries fabricates a deterministic sent/received series for the
// requested range so the dashboard chart has data to draw.
func (st *state) messageSeries(rng string) models.MessageStats {
	var labels []string
	switch rng {
	case "day":
		for h := 0; h < 24; h += 4 {
			labels = append(labels, fmt.Sprintf("%02d:00", h))
		}
	case "week":
		labels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	case "month":
		for d := 1; d <= 28; d += 7 {
			labels = append(labels, fmt.Sprintf("week %d", (d/7)+1))
		}
	default: // year
		labels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
			"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	}
	stats := models.MessageStats{Labels: labels}
	for i := range labels {
		stats.Received = append(stats.Received, int64(40+13*i%55))
		stats.Sent = append(stats.Sent, int64(25+7*i%40))
	}
	return stats
}
