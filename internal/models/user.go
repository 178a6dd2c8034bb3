package models

import "time"

// UserProfile is a user record as returned by /users/me and /users.
// Field names mirror the backend wire format and must not change.
type UserProfile struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email,omitempty"`
	FullName  string     `json:"full_name,omitempty"`
	IsAdmin   bool       `json:"is_admin"`
	IsActive  bool       `json:"is_active"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// NewUser is the body for POST /users when an admin creates an account.
type NewUser struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password" validate:"required,min=8"`
	IsAdmin  bool   `json:"is_admin"`
}

// Registration is the body for self-service sign-up via POST /users.
type Registration struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// UserPatch carries the optional flags accepted by PATCH /users/{id}.
// Only non-nil fields are sent.
type UserPatch struct {
	IsActive *bool `json:"is_active,omitempty"`
	IsAdmin  *bool `json:"is_admin,omitempty"`
}
