// Package model defines domain entities for the application.
package model

import "time"

// User represents an internal account resolved from a Google identity.
// GoogleID is immutable once set; resolving the same Google subject id
// always yields the same internal user.
type User struct {
	ID        string    `json:"id"`
	GoogleID  string    `json:"-"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"created_at"`
}

// IdentityClaims is the verified subset of a Google ID token used to
// resolve an internal user.
type IdentityClaims struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
}

// Identity is the authenticated caller attached to a request after
// session verification.
type Identity struct {
	UserID string
	Email  string
}
