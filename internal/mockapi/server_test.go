package mockapi

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botpanel/internal/api"
	"botpanel/internal/models"
	"botpanel/internal/session"
)

// testSetup spins up a fresh mock backend plus a real client/store pair so
// the whole request path is exercised end to end.
func testSetup(t *testing.T) (*api.Client, *session.Store) {
	t.Helper()
	srv, err := New(Options{
		AdminUser:     "admin",
		AdminPassword: "correct-horse-9",
		Logger:        zerolog.Nop(),
	})
	require.NoError(t, err)

	httpSrv := httptest.NewServer(srv.Handler())
	t.Cleanup(httpSrv.Close)

	store := session.NewStore(session.NewMemoryStorage(), zerolog.Nop())
	return api.New(httpSrv.URL+"/api", store, zerolog.Nop()), store
}

func loginAdmin(t *testing.T, client *api.Client) {
	t.Helper()
	_, err := client.Authenticate(context.Background(), "admin", "correct-horse-9")
	require.NoError(t, err)
}

func TestAuthenticateAgainstMockBackend(t *testing.T) {
	client, store := testSetup(t)

	user, err := client.Authenticate(context.Background(), "admin", "correct-horse-9")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.True(t, user.IsAdmin)
	assert.True(t, store.IsAuthenticated())
	assert.NotEmpty(t, store.Token())
}

func TestLoginWrongPassword(t *testing.T) {
	client, store := testSetup(t)

	_, err := client.Authenticate(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.False(t, store.IsAuthenticated())
}

func TestRepeatedLoginFailuresLockOut(t *testing.T) {
	client, _ := testSetup(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.Login(ctx, "admin", "wrong")
		require.Error(t, err)
		assert.True(t, api.IsUnauthorized(err))
	}

	_, err := client.Login(ctx, "admin", "correct-horse-9")
	require.Error(t, err)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 429, apiErr.StatusCode)
}

func TestProtectedRouteRejectsBadToken(t *testing.T) {
	client, store := testSetup(t)
	require.NoError(t, store.Login("not-a-jwt", &models.UserProfile{ID: 1, Username: "admin"}))

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.False(t, store.IsAuthenticated(), "the bad token must be discarded")
}

func TestPluginLifecycle(t *testing.T) {
	client, _ := testSetup(t)
	ctx := context.Background()
	loginAdmin(t, client)

	plugins, err := client.ListPlugins(ctx)
	require.NoError(t, err)
	seeded := len(plugins)
	require.GreaterOrEqual(t, seeded, 1)

	installed, err := client.InstallPlugin(ctx, "https://plugins.example.com/greeter.zip")
	require.NoError(t, err)
	assert.True(t, installed.IsEnabled)

	toggle, err := client.SetPluginEnabled(ctx, installed.ID, false)
	require.NoError(t, err)
	assert.Equal(t, installed.ID, toggle.ID)
	assert.False(t, toggle.IsEnabled)

	require.NoError(t, client.SavePluginSettings(ctx, installed.ID, `{"greeting":"hello"}`))

	plugins, err = client.ListPlugins(ctx)
	require.NoError(t, err)
	var found *models.Plugin
	for i := range plugins {
		if plugins[i].ID == installed.ID {
			found = &plugins[i]
		}
	}
	require.NotNil(t, found)
	assert.False(t, found.IsEnabled)
	settings, err := found.Settings()
	require.NoError(t, err)
	assert.Equal(t, "hello", settings["greeting"])

	require.NoError(t, client.UninstallPlugin(ctx, installed.ID))
	plugins, err = client.ListPlugins(ctx)
	require.NoError(t, err)
	assert.Len(t, plugins, seeded)
}

func TestInstallPluginRejectsBadURL(t *testing.T) {
	client, _ := testSetup(t)
	loginAdmin(t, client)

	_, err := client.InstallPlugin(context.Background(), "not a url")
	require.Error(t, err)
	assert.False(t, api.IsUnauthorized(err))
}

func TestSelfRegistration(t *testing.T) {
	client, store := testSetup(t)
	ctx := context.Background()

	err := client.Register(ctx, models.Registration{
		Username:        "newbie",
		Email:           "newbie@example.com",
		Password:        "longenough1",
		ConfirmPassword: "different1!",
	})
	require.Error(t, err, "mismatched confirmation must be rejected client-side")

	require.NoError(t, client.Register(ctx, models.Registration{
		Username:        "newbie",
		Email:           "newbie@example.com",
		Password:        "longenough1",
		ConfirmPassword: "longenough1",
	}))
	assert.False(t, store.IsAuthenticated(), "registration does not sign in")

	user, err := client.Authenticate(ctx, "newbie", "longenough1")
	require.NoError(t, err)
	assert.False(t, user.IsAdmin, "self-registered accounts are never admins")
}

func TestDuplicateUsernameConflicts(t *testing.T) {
	client, _ := testSetup(t)
	loginAdmin(t, client)

	_, err := client.CreateUser(context.Background(), models.NewUser{
		Username: "admin",
		Email:    "other@example.com",
		Password: "longenough1",
	})
	require.Error(t, err)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)
}

func TestAdminPatchesUser(t *testing.T) {
	client, _ := testSetup(t)
	ctx := context.Background()
	loginAdmin(t, client)

	created, err := client.CreateUser(ctx, models.NewUser{
		Username: "operator",
		Email:    "operator@example.com",
		FullName: "Operator",
		Password: "longenough1",
	})
	require.NoError(t, err)
	assert.False(t, created.IsAdmin)
	assert.True(t, created.IsActive)

	promoted, err := client.SetUserAdmin(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)
	assert.Equal(t, "admin", promoted.Role)

	deactivated, err := client.SetUserActive(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	_, err = client.Login(ctx, "operator", "longenough1")
	require.Error(t, err, "inactive users cannot sign in")
}

func TestLogsPaging(t *testing.T) {
	client, _ := testSetup(t)
	ctx := context.Background()
	loginAdmin(t, client)

	first, err := client.Logs(ctx, 1, 50)
	require.NoError(t, err)
	assert.Len(t, first.Logs, 50)
	assert.True(t, first.HasMore)
	assert.Equal(t, 1, first.Page)

	// Walk to the end; the seeded backend holds a bounded log buffer.
	page, total := 1, len(first.Logs)
	for first.HasMore {
		page++
		first, err = client.Logs(ctx, page, 50)
		require.NoError(t, err)
		total += len(first.Logs)
		require.Less(t, page, 100)
	}
	assert.Equal(t, first.Total, total)

	past, err := client.Logs(ctx, page+10, 50)
	require.NoError(t, err)
	assert.Empty(t, past.Logs)
	assert.False(t, past.HasMore)
}

func TestSettingsRoundTrip(t *testing.T) {
	client, _ := testSetup(t)
	ctx := context.Background()
	loginAdmin(t, client)

	settings, err := client.Settings(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, settings)

	key := settings[0].Key
	require.NoError(t, client.SaveSettings(ctx, []models.Setting{{Key: key, Value: "changed"}}))

	settings, err = client.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "changed", settings[0].Value)

	err = client.SaveSettings(ctx, []models.Setting{{Key: "no-such-key", Value: "x"}})
	require.Error(t, err)
}

func TestStatsEndpoints(t *testing.T) {
	client, _ := testSetup(t)
	ctx := context.Background()
	loginAdmin(t, client)

	summary, err := client.StatsSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "online", summary.BotStatus)
	assert.GreaterOrEqual(t, summary.TotalUsers, int64(1))

	stats, err := client.MessageStats(ctx, "week")
	require.NoError(t, err)
	assert.NotEmpty(t, stats.Labels)
	assert.Len(t, stats.Received, len(stats.Labels))
	assert.Len(t, stats.Sent, len(stats.Labels))

	_, err = client.MessageStats(ctx, "decade")
	require.Error(t, err)

	activities, err := client.RecentActivities(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, activities)

	resources, err := client.SystemResources(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, resources.MemoryTotal, resources.MemoryUsage)
}
