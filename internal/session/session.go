package session

import (
	"sync"

	"github.com/rs/zerolog"

	"botpanel/internal/models"
)

// Session is the client-held authentication state: the bearer token issued
// by the backend plus the authenticated user's profile. Both are set and
// cleared together; a session with only one of the two never survives a
// completed transition.
type Session struct {
	Token string              `json:"token,omitempty"`
	User  *models.UserProfile `json:"user,omitempty"`
}

// IsAuthenticated reports whether both token and user are present.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// UserPatch carries the profile fields that UpdateUser may merge into the
// current user. Nil fields are left untouched.
type UserPatch struct {
	Username *string
	Email    *string
	FullName *string
	Role     *string
	IsAdmin  *bool
}

// Store owns the current session. It is constructed once at process start
// and handed by reference to everything that reads or mutates auth state.
// Every mutation is persisted through the injected Storage so a new process
// restores the same session.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	current Session
	log     zerolog.Logger
}

// NewStore builds a store backed by storage and restores any persisted
// session. A missing or unreadable persisted session starts the store
// empty; restore problems are logged, never fatal.
func NewStore(storage Storage, log zerolog.Logger) *Store {
	st := &Store{storage: storage, log: log}
	persisted, err := storage.Load()
	if err != nil {
		log.Warn().Err(err).Msg("stored session unreadable, starting logged out")
		return st
	}
	if persisted != nil {
		// Refuse a half-session from disk; it would break the
		// token-iff-user invariant.
		if persisted.IsAuthenticated() {
			st.current = *persisted
		} else if persisted.Token != "" || persisted.User != nil {
			log.Warn().Msg("stored session incomplete, discarding")
		}
	}
	return st
}

// Login replaces the token and user wholesale. The token is not validated
// here; the caller has already obtained it from a successful auth call.
func (st *Store) Login(token string, user *models.UserProfile) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	u := *user
	st.current = Session{Token: token, User: &u}
	return st.persistLocked()
}

// Logout clears the session. Calling it while already logged out is a
// harmless no-op.
func (st *Store) Logout() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.current = Session{}
	if err := st.storage.Clear(); err != nil {
		st.log.Warn().Err(err).Msg("failed to clear persisted session")
		return err
	}
	return nil
}

// UpdateUser merges the given fields into the current user. When no user is
// set the call does nothing; in particular it never flips the store into an
// authenticated state.
func (st *Store) UpdateUser(patch UserPatch) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.current.User == nil {
		return nil
	}
	u := *st.current.User
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.IsAdmin != nil {
		u.IsAdmin = *patch.IsAdmin
	}
	st.current.User = &u
	return st.persistLocked()
}

// Token returns the current bearer token, or "" when logged out.
func (st *Store) Token() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current.Token
}

// User returns a copy of the current user, or nil when logged out.
func (st *Store) User() *models.UserProfile {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.current.User == nil {
		return nil
	}
	u := *st.current.User
	return &u
}

// IsAuthenticated reports whether a complete session is held.
func (st *Store) IsAuthenticated() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current.IsAuthenticated()
}

// Snapshot returns a copy of the whole session.
func (st *Store) Snapshot() Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s := st.current
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// persistLocked writes the current session through storage. Caller must
// hold the write lock. The in-memory state is already updated; persistence
// failures are reported but do not roll it back.
func (st *Store) persistLocked() error {
	s := st.current
	if err := st.storage.Save(&s); err != nil {
		st.log.Warn().Err(err).Msg("failed to persist session")
		return err
	}
	return nil
}
