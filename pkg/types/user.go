package types

import "time"

// User represents a registered account. The password hash never serializes
// to JSON.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser carries the fields for user creation. PasswordHash is produced by
// the transport layer; the store never sees plaintext passwords.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
}

// UserUpdate carries a partial user update. Nil fields are left untouched.
type UserUpdate struct {
	Username *string
	Email    *string
}
