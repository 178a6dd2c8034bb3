package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botpanel/internal/models"
)

func testUser() *models.UserProfile {
	return &models.UserProfile{
		ID:       1,
		Username: "admin",
		Email:    "admin@example.com",
		FullName: "Admin User",
		IsAdmin:  true,
		IsActive: true,
		Role:     "admin",
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(NewMemoryStorage(), zerolog.Nop())
}

func TestStoreStartsLoggedOut(t *testing.T) {
	st := newTestStore(t)
	assert.False(t, st.IsAuthenticated())
	assert.Empty(t, st.Token())
	assert.Nil(t, st.User())
}

func TestLoginThenLogout(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Login("tok-1", testUser()))
	assert.True(t, st.IsAuthenticated())
	assert.Equal(t, "tok-1", st.Token())
	require.NotNil(t, st.User())
	assert.Equal(t, "admin", st.User().Username)

	require.NoError(t, st.Logout())
	assert.False(t, st.IsAuthenticated())
	assert.Empty(t, st.Token())
	assert.Nil(t, st.User())
}

func TestLogoutWhileLoggedOutIsNoOp(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Logout())
	require.NoError(t, st.Logout())
	assert.False(t, st.IsAuthenticated())
}

func TestLoginReplacesPreviousSession(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Login("tok-1", testUser()))

	other := testUser()
	other.ID = 2
	other.Username = "second"
	require.NoError(t, st.Login("tok-2", other))

	assert.Equal(t, "tok-2", st.Token())
	assert.Equal(t, "second", st.User().Username)
}

func TestLoginCopiesUser(t *testing.T) {
	st := newTestStore(t)
	u := testUser()
	require.NoError(t, st.Login("tok", u))

	u.Username = "mutated"
	assert.Equal(t, "admin", st.User().Username)

	got := st.User()
	got.Username = "also-mutated"
	assert.Equal(t, "admin", st.User().Username)
}

func TestUpdateUserMergesFields(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Login("tok", testUser()))

	name := "Renamed User"
	admin := false
	require.NoError(t, st.UpdateUser(UserPatch{FullName: &name, IsAdmin: &admin}))

	got := st.User()
	assert.Equal(t, "Renamed User", got.FullName)
	assert.False(t, got.IsAdmin)
	assert.Equal(t, "admin", got.Username)
	assert.Equal(t, "tok", st.Token())
}

func TestUpdateUserWithoutSessionDoesNothing(t *testing.T) {
	st := newTestStore(t)
	name := "ghost"
	require.NoError(t, st.UpdateUser(UserPatch{Username: &name}))
	assert.False(t, st.IsAuthenticated())
	assert.Nil(t, st.User())
}

func TestSessionIsAuthenticated(t *testing.T) {
	assert.False(t, (&Session{}).IsAuthenticated())
	assert.False(t, (&Session{Token: "tok"}).IsAuthenticated())
	assert.False(t, (&Session{User: testUser()}).IsAuthenticated())
	assert.True(t, (&Session{Token: "tok", User: testUser()}).IsAuthenticated())

	var nilSession *Session
	assert.False(t, nilSession.IsAuthenticated())
}

func TestFileStoragePersistsAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	st := NewStore(NewFileStorage(path), zerolog.Nop())
	require.NoError(t, st.Login("tok-persist", testUser()))

	restored := NewStore(NewFileStorage(path), zerolog.Nop())
	assert.True(t, restored.IsAuthenticated())
	assert.Equal(t, "tok-persist", restored.Token())
	require.NotNil(t, restored.User())
	assert.Equal(t, "admin", restored.User().Username)
}

func TestFileStorageLogoutClearsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	st := NewStore(NewFileStorage(path), zerolog.Nop())
	require.NoError(t, st.Login("tok", testUser()))
	require.NoError(t, st.Logout())

	restored := NewStore(NewFileStorage(path), zerolog.Nop())
	assert.False(t, restored.IsAuthenticated())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCorruptSessionFileStartsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	st := NewStore(NewFileStorage(path), zerolog.Nop())
	assert.False(t, st.IsAuthenticated())
}

func TestIncompletePersistedSessionDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"orphan"}`), 0o600))

	st := NewStore(NewFileStorage(path), zerolog.Nop())
	assert.False(t, st.IsAuthenticated())
	assert.Empty(t, st.Token())
}

func TestFileStorageCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "session.json")

	st := NewStore(NewFileStorage(path), zerolog.Nop())
	require.NoError(t, st.Login("tok", testUser()))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestSnapshotIsACopy(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Login("tok", testUser()))

	snap := st.Snapshot()
	snap.User.Username = "mutated"
	assert.Equal(t, "admin", st.User().Username)
}
