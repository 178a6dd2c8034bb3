// Package panel renders the admin console views: dashboard, plugins,
// users, logs, settings. It holds no state of its own; everything comes
// from the API client and the session store.
package panel

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"botpanel/internal/api"
	"botpanel/internal/session"
)

// ErrNotLoggedIn is returned by views that need an authenticated session.
var ErrNotLoggedIn = errors.New("not logged in, run `botpanel login` first")

// Panel binds the console views to a client and session store.
type Panel struct {
	client *api.Client
	store  *session.Store
	out    io.Writer
	log    zerolog.Logger
}

// New builds a panel writing rendered views to out.
func New(client *api.Client, store *session.Store, out io.Writer, log zerolog.Logger) *Panel {
	return &Panel{client: client, store: store, out: out, log: log}
}

func (p *Panel) requireSession() error {
	if !p.store.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

func (p *Panel) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// table starts a tabwriter; callers write rows then call Flush.
func (p *Panel) table() *tabwriter.Writer {
	return tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func megabytes(v float64) string {
	if v >= 1024 {
		return fmt.Sprintf("%.1f GB", v/1024)
	}
	return fmt.Sprintf("%.0f MB", v)
}
