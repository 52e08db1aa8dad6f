package auth

import "arbor/internal/domain/models"

// TokenVerifier validates bearer credentials and returns their claims.
// Keeping this behind an interface lets the middleware stay agnostic to how
// verification happens (JWKS in production, a stub in tests).
type TokenVerifier interface {
	// VerifyToken validates a JWT string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or badly signed.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
