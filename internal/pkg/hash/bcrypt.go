package hash

import "golang.org/x/crypto/bcrypt"

// Bcrypt hashes and verifies low-entropy secrets (passwords).
//
// The pepper is appended to the plaintext before hashing; it lives in
// configuration, never alongside the stored hashes.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt returns a bcrypt hasher. cost follows bcrypt.DefaultCost
// semantics; pepper may be empty.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	return &Bcrypt{cost: cost, pepper: pepper}
}

// Hash hashes plaintext with bcrypt.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext+h.pepper), h.cost)
}

// Verify reports whether plaintext matches the stored bcrypt hash.
func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext+h.pepper)) == nil
}
