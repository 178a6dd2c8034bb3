package models

import "encoding/json"

// Plugin is a plugin record from GET /plugins. Config is a JSON-encoded
// string, not a nested object; the backend stores it opaquely.
type Plugin struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	IsEnabled   bool   `json:"is_enabled"`
	Config      string `json:"config"`
}

// Settings decodes the plugin's config string. An empty config yields an
// empty map.
func (p *Plugin) Settings() (map[string]any, error) {
	if p.Config == "" {
		return map[string]any{}, nil
	}
	out := map[string]any{}
	if err := json.Unmarshal([]byte(p.Config), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PluginToggle is the body returned by PATCH /plugins/{id}.
type PluginToggle struct {
	ID        int64 `json:"id"`
	IsEnabled bool  `json:"is_enabled"`
}

// InstallRequest is the body for POST /plugins/install.
type InstallRequest struct {
	URL string `json:"url" validate:"required,url"`
}
