package panel

import (
	"context"
	"fmt"
	"strings"
)

const statsBarWidth = 40

// Stats renders the message series for a time range as a text bar chart.
func (p *Panel) Stats(ctx context.Context, rng string) error {
	if err := p.requireSession(); err != nil {
		return err
	}
	stats, err := p.client.MessageStats(ctx, rng)
	if err != nil {
		return err
	}

	max := int64(1)
	for i := range stats.Labels {
		total := series(stats.Received, i) + series(stats.Sent, i)
		if total > max {
			max = total
		}
	}

	p.printf("messages per %s (received+sent):\n", rng)
	w := p.table()
	for i, label := range stats.Labels {
		received := series(stats.Received, i)
		sent := series(stats.Sent, i)
		total := received + sent
		bar := strings.Repeat("#", int(total*statsBarWidth/max))
		fmt.Fprintf(w, "%s\t%d/%d\t%s\n", label, received, sent, bar)
	}
	return w.Flush()
}

// series guards against ragged arrays from the backend.
func series(values []int64, i int) int64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
