package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSigningKeyTooShort is returned when the HS512 key is under 64 bytes.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrInvalidSigningMethod is returned when a token was signed with an
	// unexpected algorithm.
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")

	// ErrTokenExpired is returned when the token is past its expiry.
	ErrTokenExpired = errors.New("JWT token has expired")

	// ErrInvalidToken is returned when the token is malformed or fails
	// validation.
	ErrInvalidToken = errors.New("invalid token")
)

// JWT is the minimal token surface the app needs.
type JWT interface {
	// Generate creates a signed access token for the username.
	Generate(username string) (string, error)
	// Verify parses and validates a token string and returns its claims.
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config defines the inputs for building a JWT implementation.
type Config struct {
	// Secret is the HMAC signing key.
	Secret []byte
	// Issuer is the token issuer value.
	Issuer string
	// Audiences are the accepted token audiences.
	Audiences []string
	// TTL is the token time-to-live.
	TTL time.Duration
	// Clock provides the current time source.
	Clock clocker
	// UUID generates token IDs.
	UUID generator
}

// Claims wraps the registered claims with the authenticated username.
type Claims struct {
	jwt.RegisteredClaims
	// Username is the authenticated account name.
	Username string `json:"username"`
}
