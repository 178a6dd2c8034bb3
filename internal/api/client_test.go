package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botpanel/internal/models"
	"botpanel/internal/session"
)

func testUser() *models.UserProfile {
	return &models.UserProfile{
		ID:       1,
		Username: "admin",
		Email:    "admin@example.com",
		IsAdmin:  true,
		IsActive: true,
		Role:     "admin",
	}
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := session.NewStore(session.NewMemoryStorage(), zerolog.Nop())
	return New(srv.URL+"/api", store, zerolog.Nop()), store
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	require.NoError(t, store.Login("tok-abc", testUser()))

	require.NoError(t, client.Get(context.Background(), "/stats/summary", nil))
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestNoAuthorizationHeaderWhenLoggedOut(t *testing.T) {
	var gotAuth string
	var hadHeader bool
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hadHeader = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))

	require.NoError(t, client.Get(context.Background(), "/stats/summary", nil))
	assert.Empty(t, gotAuth)
	assert.False(t, hadHeader)
}

func TestExplicitAuthorizationNotOverridden(t *testing.T) {
	var gotAuth string
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	require.NoError(t, store.Login("stored-token", testUser()))

	require.NoError(t, client.Get(context.Background(), "/users/me", nil,
		WithHeader("Authorization", "Bearer fresh-token")))
	assert.Equal(t, "Bearer fresh-token", gotAuth)
}

func TestUnauthorizedClearsSession(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))
	require.NoError(t, store.Login("expired", testUser()))
	require.True(t, store.IsAuthenticated())

	err := client.Get(context.Background(), "/users/me", nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, store.IsAuthenticated(), "401 must clear the stored session")
	assert.Empty(t, store.Token())
}

func TestNonAuthErrorsPassThrough(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail":"Username already registered"}`))
	}))
	require.NoError(t, store.Login("tok", testUser()))

	err := client.Post(context.Background(), "/users", map[string]string{"username": "dup"}, nil)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Username already registered", apiErr.Detail)
	assert.False(t, IsUnauthorized(err))
	assert.True(t, store.IsAuthenticated(), "non-401 errors must not touch the session")
}

func TestTransportFailure(t *testing.T) {
	store := session.NewStore(session.NewMemoryStorage(), zerolog.Nop())
	require.NoError(t, store.Login("tok", testUser()))
	client := New("http://127.0.0.1:1/api", store, zerolog.Nop())

	err := client.Get(context.Background(), "/stats/summary", nil)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.StatusCode)
	assert.True(t, store.IsAuthenticated(), "transport failures must not touch the session")
}

func TestNoContentResponse(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	require.NoError(t, store.Login("tok", testUser()))

	var out models.Plugin
	require.NoError(t, client.Delete(context.Background(), "/plugins/3", &out))
	assert.Zero(t, out.ID)
}

func TestQueryParameters(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"logs":[],"total":0,"page":2,"page_size":25,"has_more":false}`))
	}))

	var page models.LogPage
	require.NoError(t, client.Get(context.Background(), "/logs", &page,
		WithQuery("page", "2"), WithQuery("page_size", "25")))
	assert.Equal(t, "page=2&page_size=25", gotQuery)
	assert.Equal(t, 2, page.Page)
}

func TestRequestIDHeaderSet(t *testing.T) {
	var gotID string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))

	require.NoError(t, client.Get(context.Background(), "/settings", nil))
	assert.NotEmpty(t, gotID)
}

func TestAuthenticateFlow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"), "token request must go out unauthenticated")
		w.Write([]byte(`{"access_token":"t1","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":1,"username":"admin","email":"admin@example.com","is_admin":true,"is_active":true,"role":"admin","created_at":"2026-01-01T00:00:00Z"}`))
	})

	client, store := newTestClient(t, mux)

	user, err := client.Authenticate(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "t1", store.Token())
	assert.Equal(t, "admin", store.User().Username)
}

func TestAuthenticateBadCredentials(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Incorrect username or password"}`))
	}))

	_, err := client.Authenticate(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, store.IsAuthenticated())
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	store := session.NewStore(session.NewMemoryStorage(), zerolog.Nop())
	client := New(srv.URL+"/api/", store, zerolog.Nop())

	require.NoError(t, client.Get(context.Background(), "settings", nil))
	assert.Equal(t, "/api/settings", gotPath)
}
