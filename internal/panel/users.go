package panel

import (
	"context"
	"fmt"
	"strings"

	"botpanel/internal/models"
	"botpanel/internal/session"
)

// sessionPatch lifts the mutable flags of a refreshed profile into a
// session store patch.
func sessionPatch(u *models.UserProfile) session.UserPatch {
	role := u.Role
	admin := u.IsAdmin
	return session.UserPatch{Role: &role, IsAdmin: &admin}
}

// UsersList renders all user records, optionally filtered by a search term
// matched against username, full name and email.
func (p *Panel) UsersList(ctx context.Context, search string) error {
	if err := p.requireSession(); err != nil {
		return err
	}
	users, err := p.client.ListUsers(ctx)
	if err != nil {
		return err
	}
	search = strings.ToLower(strings.TrimSpace(search))
	w := p.table()
	fmt.Fprintln(w, "ID\tUSERNAME\tFULL NAME\tEMAIL\tACTIVE\tADMIN\tLAST LOGIN")
	for _, u := range users {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Username), search) &&
			!strings.Contains(strings.ToLower(u.FullName), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		lastLogin := "-"
		if u.LastLogin != nil {
			lastLogin = formatTime(*u.LastLogin)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, u.FullName, u.Email, yesNo(u.IsActive), yesNo(u.IsAdmin), lastLogin)
	}
	return w.Flush()
}

// UserCreate adds an account as an administrator.
func (p *Panel) UserCreate(ctx context.Context, user models.NewUser) error {
	if err := p.requireSession(); err != nil {
		return err
	}
	created, err := p.client.CreateUser(ctx, user)
	if err != nil {
		return err
	}
	p.printf("user %s created (id %d)\n", created.Username, created.ID)
	return nil
}

// UserSetActive enables or disables an account.
func (p *Panel) UserSetActive(ctx context.Context, id int64, active bool) error {
	if err := p.requireSession(); err != nil {
		return err
	}
	updated, err := p.client.SetUserActive(ctx, id, active)
	if err != nil {
		return err
	}
	state := "deactivated"
	if updated.IsActive {
		state = "activated"
	}
	p.printf("user %s %s\n", updated.Username, state)
	return nil
}

// UserSetAdmin grants or revokes admin rights. When the change affects the
// logged-in user, the stored profile is updated in place.
func (p *Panel) UserSetAdmin(ctx context.Context, id int64, admin bool) error {
	if err := p.requireSession(); err != nil {
		return err
	}
	updated, err := p.client.SetUserAdmin(ctx, id, admin)
	if err != nil {
		return err
	}
	if current := p.store.User(); current != nil && current.ID == updated.ID {
		if err := p.store.UpdateUser(sessionPatch(updated)); err != nil {
			p.log.Warn().Err(err).Msg("session profile update not persisted")
		}
	}
	verb := "revoked for"
	if updated.IsAdmin {
		verb = "granted to"
	}
	p.printf("admin rights %s %s\n", verb, updated.Username)
	return nil
}
