package panel

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

const minWatchInterval = 2 * time.Second

// Dashboard renders the overview once, or repeatedly when watch is set.
// Poll cycles are serialized: the next fetch starts only after the
// previous one finished, so a slow backend cannot pile up overlapping
// requests, and a limiter bounds the effective rate regardless of the
// configured interval.
func (p *Panel) Dashboard(ctx context.Context, watch bool, interval time.Duration) error {
	if err := p.requireSession(); err != nil {
		return err
	}
	if !watch {
		return p.renderDashboard(ctx)
	}

	if interval < minWatchInterval {
		interval = minWatchInterval
	}
	limiter := rate.NewLimiter(rate.Every(minWatchInterval), 1)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil
		}
		if err := p.renderDashboard(ctx); err != nil {
			// A cleared session means the backend revoked us mid-watch.
			if !p.store.IsAuthenticated() {
				return err
			}
			p.printf("refresh failed: %v\n", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (p *Panel) renderDashboard(ctx context.Context) error {
	summary, err := p.client.StatsSummary(ctx)
	if err != nil {
		return err
	}
	activities, err := p.client.RecentActivities(ctx)
	if err != nil {
		return err
	}
	resources, err := p.client.SystemResources(ctx)
	if err != nil {
		return err
	}

	p.printf("== bot status: %s (last activity %s) ==\n", summary.BotStatus, summary.LastActivity)

	w := p.table()
	fmt.Fprintf(w, "users\t%d\n", summary.TotalUsers)
	fmt.Fprintf(w, "plugins\t%d (%d active)\n", summary.TotalPlugins, summary.ActivePlugins)
	fmt.Fprintf(w, "messages\t%d total, %d today\n", summary.TotalMessages, summary.DailyMessages)
	fmt.Fprintf(w, "cpu\t%.1f%%\n", resources.CPUUsage)
	fmt.Fprintf(w, "memory\t%s of %s\n", megabytes(resources.MemoryUsage), megabytes(resources.MemoryTotal))
	fmt.Fprintf(w, "disk\t%s of %s\n", megabytes(resources.DiskUsage), megabytes(resources.DiskTotal))
	if err := w.Flush(); err != nil {
		return err
	}

	p.printf("\nrecent activity:\n")
	w = p.table()
	limit := len(activities)
	if limit > 10 {
		limit = 10
	}
	for _, a := range activities[:limit] {
		who := a.Username
		if who == "" {
			who = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", formatTime(a.Timestamp), a.Type, who, a.Description)
	}
	return w.Flush()
}
