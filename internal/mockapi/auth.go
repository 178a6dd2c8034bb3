package mockapi

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenExpiry = 24 * time.Hour

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// tokenService issues and validates the HS256 access tokens the mock
// backend hands out. The secret is random per process unless configured,
// so tokens never outlive the server that minted them.
type tokenService struct {
	secret []byte

	mu       sync.Mutex
	failures map[string]*loginFailure
}

type loginFailure struct {
	count        int
	lastAttempt  time.Time
	lockoutUntil time.Time
}

func newTokenService(secret string) *tokenService {
	if secret == "" {
		buf := make([]byte, 32)
		_, _ = rand.Read(buf)
		secret = hex.EncodeToString(buf)
	}
	return &tokenService{
		secret:   []byte(secret),
		failures: make(map[string]*loginFailure),
	}
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (t *tokenService) generate(userID int64, username string) (string, error) {
	c := claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(t.secret)
}

func (t *tokenService) validate(tokenString string) (*claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if c, ok := token.Claims.(*claims); ok && token.Valid {
		return c, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// checkLockout reports the remaining lockout for a client key, if any.
func (t *tokenService) checkLockout(key string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.failures[key]
	if !ok {
		return 0, false
	}
	now := time.Now()
	if rec.lockoutUntil.After(now) {
		return rec.lockoutUntil.Sub(now), true
	}
	return 0, false
}

// recordFailure counts a failed login; three strikes within five minutes
// lock the key out, capped at two minutes.
func (t *tokenService) recordFailure(key string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	rec, ok := t.failures[key]
	if !ok {
		rec = &loginFailure{}
		t.failures[key] = rec
	}
	if rec.lockoutUntil.After(now) {
		return rec.lockoutUntil.Sub(now), true
	}
	if now.Sub(rec.lastAttempt) > 5*time.Minute {
		rec.count = 0
	}
	rec.lastAttempt = now
	rec.count++
	if rec.count >= 3 {
		lockout := time.Duration(rec.count) * 15 * time.Second
		if lockout > 2*time.Minute {
			lockout = 2 * time.Minute
		}
		rec.lockoutUntil = now.Add(lockout)
		rec.count = 0
		return lockout, true
	}
	return 0, false
}

func (t *tokenService) clearFailures(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.failures, key)
}
