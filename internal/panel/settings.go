package panel

import (
	"context"
	"fmt"

	"botpanel/internal/models"
)

// SettingsList renders the backend configuration entries.
func (p *Panel) SettingsList(ctx context.Context) error {
	if err := p.requireSession(); err != nil {
		return err
	}
	settings, err := p.client.Settings(ctx)
	if err != nil {
		return err
	}
	w := p.table()
	fmt.Fprintln(w, "KEY\tVALUE\tDESCRIPTION")
	for _, s := range settings {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Key, s.Value, s.Description)
	}
	return w.Flush()
}

// SettingSet writes one configuration value. The backend's PATCH takes a
// batch, so the single change is wrapped in a one-element list.
func (p *Panel) SettingSet(ctx context.Context, key, value string) error {
	if err := p.requireSession(); err != nil {
		return err
	}
	err := p.client.SaveSettings(ctx, []models.Setting{{Key: key, Value: value}})
	if err != nil {
		return err
	}
	p.printf("%s = %s\n", key, value)
	return nil
}
