package common

import "time"

// AuthCookieName is the cookie carrying the session JWT.
const AuthCookieName = "mixmini_auth"

// PaintSearchLimit bounds the recipe builder typeahead.
const PaintSearchLimit = 20

// MinPasswordLength is the shortest password accepted on register/reset.
const MinPasswordLength = 8

// DefaultTokenLifetime is the session (and cookie) lifetime.
const DefaultTokenLifetime = 30 * 24 * time.Hour
