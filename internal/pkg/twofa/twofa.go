// Package twofa abstracts the second-factor provider behind a small
// capability: issue a challenge for a login attempt and validate the code the
// user submits for it.
//
// The workflow layer stays oblivious to the provider's transport; drivers are
// selected by configuration.
package twofa

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrRejected means the provider declined the credentials or the code.
	// Callers must not distinguish unknown-user from wrong-password.
	ErrRejected = errors.New("twofa: rejected")

	// ErrExpired means the challenge is past its validity window.
	ErrExpired = errors.New("twofa: challenge expired")
)

// Credentials are the primary-factor inputs of a login attempt.
type Credentials struct {
	// Username is the account name.
	Username string
	// Password is the plaintext password, verified and discarded.
	Password string
}

// Challenge carries the facts a provider needs about one login attempt.
//
// DeviceToken is the stored digest of the per-session device token, never the
// raw token.
type Challenge struct {
	// ID is the challenge identifier, generated by the caller.
	ID string
	// Username is the account the challenge was issued for.
	Username string
	// DeviceToken is the digest binding this challenge to its session.
	DeviceToken string
	// Channel is the delivery channel name (SMS or EMAIL).
	Channel string
	// IssuedAt is when the challenge was created.
	IssuedAt time.Time
}

// Provider issues challenges and validates submitted codes.
type Provider interface {
	// IssueChallenge verifies the credentials and arranges delivery of a code
	// for the challenge. ErrRejected means the login attempt is declined.
	IssueChallenge(ctx context.Context, creds Credentials, ch Challenge) error
	// ValidateCode checks a submitted code against the challenge. ErrRejected
	// means the code is wrong, ErrExpired that the challenge window passed.
	ValidateCode(ctx context.Context, ch Challenge, code string) error
}

// Deliverer hands a generated code off for out-of-band delivery.
type Deliverer interface {
	Deliver(ctx context.Context, ch Challenge, code string) error
}
