package models

import "time"

// User is an account owned by the authentication provider. The core only
// relies on ID and IsActive.
type User struct {
	ID             string
	Email          string
	HashedPassword string
	IsActive       bool
	IsSuperuser    bool
	IsVerified     bool
	CreatedAt      time.Time
}

// ResetToken is a pending password reset. Only the token hash is stored.
type ResetToken struct {
	TokenHash string
	UserID    string
	Expires   time.Time
}
