package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"botpanel/internal/models"
)

// PluginView is the console's local plugin record, converted from the wire
// format the way the dashboard's plugin manager keeps it: string ID,
// isActive flag and decoded settings.
type PluginView struct {
	ID          string
	Name        string
	Version     string
	Description string
	Author      string
	IsActive    bool
	Settings    map[string]any
}

// toPluginViews converts wire records to local ones. A config string that
// fails to parse leaves Settings nil rather than failing the whole list.
func toPluginViews(plugins []models.Plugin) []PluginView {
	out := make([]PluginView, 0, len(plugins))
	for _, p := range plugins {
		view := PluginView{
			ID:          strconv.FormatInt(p.ID, 10),
			Name:        p.Name,
			Version:     p.Version,
			Description: p.Description,
			Author:      p.Author,
			IsActive:    p.IsEnabled,
		}
		if settings, err := p.Settings(); err == nil && len(settings) > 0 {
			view.Settings = settings
		}
		out = append(out, view)
	}
	return out
}

// applyToggle updates exactly the record the backend confirmed and leaves
// every other record untouched.
func applyToggle(views []PluginView, toggle *models.PluginToggle) []PluginView {
	id := strconv.FormatInt(toggle.ID, 10)
	for i := range views {
		if views[i].ID == id {
			views[i].IsActive = toggle.IsEnabled
		}
	}
	return views
}

// PluginsList renders the installed plugins.
func (p *Panel) PluginsList(ctx context.Context) error {
	if err := p.requireSession(); err != nil {
		return err
	}
	plugins, err := p.client.ListPlugins(ctx)
	if err != nil {
		return err
	}
	views := toPluginViews(plugins)
	w := p.table()
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tSTATE\tAUTHOR\tDESCRIPTION")
	for _, v := range views {
		state := "disabled"
		if v.IsActive {
			state = "enabled"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", v.ID, v.Name, v.Version, state, v.Author, v.Description)
	}
	return w.Flush()
}

// PluginInstall installs a plugin from a URL.
func (p *Panel) PluginInstall(ctx context.Context, url string) error {
	if err := p.requireSession(); err != nil {
		return err
	}
	plugin, err := p.client.InstallPlugin(ctx, url)
	if err != nil {
		return err
	}
	p.printf("installed %s %s (id %d)\n", plugin.Name, plugin.Version, plugin.ID)
	return nil
}

// PluginSetEnabled toggles a plugin.
func (p *Panel) PluginSetEnabled(ctx context.Context, id int64, enabled bool) error {
	if err := p.requireSession(); err != nil {
		return err
	}
	toggle, err := p.client.SetPluginEnabled(ctx, id, enabled)
	if err != nil {
		return err
	}
	p.printf("plugin %d is now %s\n", toggle.ID, onOff(toggle.IsEnabled))
	return nil
}

// PluginSaveSettings validates that the given settings are a JSON object,
// then stores them as the backend expects: a JSON-encoded string.
func (p *Panel) PluginSaveSettings(ctx context.Context, id int64, rawJSON string) error {
	if err := p.requireSession(); err != nil {
		return err
	}
	var settings map[string]any
	if err := json.Unmarshal([]byte(rawJSON), &settings); err != nil {
		return fmt.Errorf("settings must be a JSON object: %w", err)
	}
	encoded, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := p.client.SavePluginSettings(ctx, id, string(encoded)); err != nil {
		return err
	}
	p.printf("settings saved for plugin %d\n", id)
	return nil
}

// PluginRemove uninstalls a plugin.
func (p *Panel) PluginRemove(ctx context.Context, id int64) error {
	if err := p.requireSession(); err != nil {
		return err
	}
	if err := p.client.UninstallPlugin(ctx, id); err != nil {
		return err
	}
	p.printf("plugin %d removed\n", id)
	return nil
}
