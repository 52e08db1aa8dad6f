package models

import "github.com/golang-jwt/jwt/v5"

// User is a local user record resolved from a verified bearer credential.
// IsAdmin gates all folder mutations.
type User struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Claims is the JWT claims structure expected from the identity provider.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// UserID returns the identity provider's user identifier (the sub claim).
func (c *Claims) UserID() string {
	return c.Subject
}
