package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botpanel/internal/models"
)

func TestToPluginViews(t *testing.T) {
	plugins := []models.Plugin{
		{ID: 1, Name: "auto-responder", Version: "1.2.0", IsEnabled: true, Config: `{"delay":5}`},
		{ID: 2, Name: "spam-guard", Version: "0.9.1", IsEnabled: false, Config: "not json"},
	}

	views := toPluginViews(plugins)
	require.Len(t, views, 2)

	assert.Equal(t, "1", views[0].ID)
	assert.True(t, views[0].IsActive)
	assert.Equal(t, map[string]any{"delay": float64(5)}, views[0].Settings)

	assert.Equal(t, "2", views[1].ID)
	assert.False(t, views[1].IsActive)
	assert.Nil(t, views[1].Settings, "unparseable config leaves settings empty")
}

func TestApplyToggleOnlyTouchesMatchingRecord(t *testing.T) {
	views := []PluginView{
		{ID: "1", Name: "auto-responder", IsActive: true},
		{ID: "2", Name: "spam-guard", IsActive: false},
		{ID: "3", Name: "greeter", IsActive: true},
	}

	got := applyToggle(views, &models.PluginToggle{ID: 2, IsEnabled: true})

	assert.True(t, got[0].IsActive)
	assert.True(t, got[1].IsActive)
	assert.True(t, got[2].IsActive)
	assert.Equal(t, "auto-responder", got[0].Name)
	assert.Equal(t, "greeter", got[2].Name)
}

func TestApplyToggleUnknownIDIsNoOp(t *testing.T) {
	views := []PluginView{
		{ID: "1", IsActive: true},
		{ID: "2", IsActive: false},
	}

	got := applyToggle(views, &models.PluginToggle{ID: 99, IsEnabled: true})

	assert.True(t, got[0].IsActive)
	assert.False(t, got[1].IsActive)
}
