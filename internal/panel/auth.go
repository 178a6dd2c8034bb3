package panel

import (
	"context"
	"fmt"

	"botpanel/internal/api"
	"botpanel/internal/models"
)

// Login signs in and commits the session. The password is collected by the
// caller (terminal prompt); this layer never reads input.
func (p *Panel) Login(ctx context.Context, username, password string) error {
	user, err := p.client.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}
	p.printf("logged in as %s (role %s)\n", user.Username, user.Role)
	return nil
}

// Logout clears the local session. The backend keeps no server-side
// session to revoke; only the stored token is discarded.
func (p *Panel) Logout() error {
	if !p.store.IsAuthenticated() {
		p.printf("already logged out\n")
		return nil
	}
	if err := p.store.Logout(); err != nil {
		return err
	}
	p.printf("logged out\n")
	return nil
}

// Whoami prints the locally held profile plus the token expiry decoded
// from the JWT. No network call: this shows what the session store holds.
func (p *Panel) Whoami() error {
	if err := p.requireSession(); err != nil {
		return err
	}
	user := p.store.User()
	w := p.table()
	fmt.Fprintf(w, "username\t%s\n", user.Username)
	if user.FullName != "" {
		fmt.Fprintf(w, "full name\t%s\n", user.FullName)
	}
	if user.Email != "" {
		fmt.Fprintf(w, "email\t%s\n", user.Email)
	}
	fmt.Fprintf(w, "role\t%s\n", user.Role)
	fmt.Fprintf(w, "admin\t%s\n", yesNo(user.IsAdmin))
	if exp, err := api.TokenExpiry(p.store.Token()); err == nil {
		fmt.Fprintf(w, "token expires\t%s\n", formatTime(exp))
	}
	return w.Flush()
}

// Register creates an account through the self-service path.
func (p *Panel) Register(ctx context.Context, reg models.Registration) error {
	if err := p.client.Register(ctx, reg); err != nil {
		return err
	}
	p.printf("account %s created, you can log in now\n", reg.Username)
	return nil
}
