package models

// StatsSummary is the body of GET /stats/summary.
type StatsSummary struct {
	TotalUsers    int64  `json:"total_users"`
	TotalPlugins  int64  `json:"total_plugins"`
	ActivePlugins int64  `json:"active_plugins"`
	TotalMessages int64  `json:"total_messages"`
	DailyMessages int64  `json:"daily_messages"`
	BotStatus     string `json:"bot_status"`
	LastActivity  string `json:"last_activity"`
}

// MessageStats is the body of GET /stats/messages/{range}: parallel series
// of received and sent message counts per label.
type MessageStats struct {
	Labels   []string `json:"labels"`
	Received []int64  `json:"received"`
	Sent     []int64  `json:"sent"`
}

// SystemResources is the body of GET /system/resources. Memory and disk
// figures are megabytes; cpu_usage is a percentage.
type SystemResources struct {
	CPUUsage    float64 `json:"cpu_usage"`
	MemoryUsage float64 `json:"memory_usage"`
	MemoryTotal float64 `json:"memory_total"`
	DiskUsage   float64 `json:"disk_usage"`
	DiskTotal   float64 `json:"disk_total"`
}
