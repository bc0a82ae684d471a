// Package token generates opaque, URL-safe random tokens for device binding
// and challenge identifiers.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// MinEntropyBytes is the smallest amount of underlying randomness a generator
// will accept. Device tokens bind a login attempt to its verification step,
// so they must not be guessable.
const MinEntropyBytes = 16

// ErrEntropyTooSmall is returned when a generator is configured below
// MinEntropyBytes.
var ErrEntropyTooSmall = errors.New("token: entropy below 16 bytes")

// Generator produces URL-safe random tokens.
type Generator interface {
	Generate() (string, error)
}

// URLSafe generates unpadded base64url tokens from crypto/rand.
type URLSafe struct {
	size int
}

// NewURLSafe returns a generator producing tokens with size bytes of entropy.
func NewURLSafe(size int) (*URLSafe, error) {
	if size < MinEntropyBytes {
		return nil, ErrEntropyTooSmall
	}
	return &URLSafe{size: size}, nil
}

// Generate returns a fresh token.
func (g *URLSafe) Generate() (string, error) {
	buf := make([]byte, g.size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
