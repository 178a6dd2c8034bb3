package panel

import (
	"context"
	"fmt"
)

// LogsOptions controls the log view. All reports every page by walking
// has_more; otherwise a single page is shown.
type LogsOptions struct {
	Page     int
	PageSize int
	Level    string // optional client-side level filter
	All      bool
}

// Logs renders backend log entries.
func (p *Panel) Logs(ctx context.Context, opts LogsOptions) error {
	if err := p.requireSession(); err != nil {
		return err
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 50
	}

	w := p.table()
	fmt.Fprintln(w, "TIME\tLEVEL\tSOURCE\tMESSAGE")
	page := opts.Page
	for {
		logs, err := p.client.Logs(ctx, page, opts.PageSize)
		if err != nil {
			return err
		}
		for _, entry := range logs.Logs {
			if opts.Level != "" && entry.Level != opts.Level {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				formatTime(entry.Timestamp), entry.Level, entry.Source, entry.Message)
		}
		if !opts.All || !logs.HasMore {
			break
		}
		page++
	}
	return w.Flush()
}
