package twofa

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"errors"
	"fmt"
	"time"

	"github.com/gnelabs/authgate/internal/pkg/hash"
	"github.com/gnelabs/authgate/internal/pkg/otp"
)

var (
	// ErrOTPSecretTooShort is returned when the provider key is under 16 bytes.
	ErrOTPSecretTooShort = errors.New("twofa: otp secret must be at least 16 bytes")
	// ErrOTPPeriodRequired is returned when the validity window is not set.
	ErrOTPPeriodRequired = errors.New("twofa: otp period is required")
	// ErrOTPHasherRequired is returned when no password hasher is provided.
	ErrOTPHasherRequired = errors.New("twofa: otp password hasher is required")
	// ErrOTPClockRequired is returned when no clock is provided.
	ErrOTPClockRequired = errors.New("twofa: otp clock is required")
)

type clocker interface {
	Now() time.Time
}

// OTPConfig configures the TOTP-backed provider.
type OTPConfig struct {
	// Secret is the provider key challenge secrets are derived from.
	Secret []byte
	// Users maps usernames to their stored password hashes.
	Users map[string]string
	// Period is the code validity window, normally the challenge TTL.
	Period time.Duration
	// Hasher verifies passwords against the stored hashes.
	Hasher hash.Hash
	// Clock provides the current time source.
	Clock clocker
	// Deliverer hands generated codes off for out-of-band delivery. Optional;
	// when nil, codes are generated but not sent anywhere.
	Deliverer Deliverer
}

// OTP is a stateless Provider backed by time-based one-time passwords.
//
// The TOTP secret for a challenge is derived from the provider key and the
// challenge's identity, so validation needs no provider-side storage: any
// instance holding the same key can validate a code issued by another.
type OTP struct {
	secret    []byte
	users     map[string]string
	period    time.Duration
	totp      otp.OTP
	hasher    hash.Hash
	clock     clocker
	deliverer Deliverer
}

// NewOTP constructs the TOTP-backed provider.
func NewOTP(cfg OTPConfig) (*OTP, error) {
	if len(cfg.Secret) < 16 {
		return nil, ErrOTPSecretTooShort
	}
	if cfg.Period <= 0 {
		return nil, ErrOTPPeriodRequired
	}
	if cfg.Hasher == nil {
		return nil, ErrOTPHasherRequired
	}
	if cfg.Clock == nil {
		return nil, ErrOTPClockRequired
	}

	return &OTP{
		secret:    cfg.Secret,
		users:     cfg.Users,
		period:    cfg.Period,
		totp:      otp.NewTOTP(uint(cfg.Period/time.Second), 1, 0),
		hasher:    cfg.Hasher,
		clock:     cfg.Clock,
		deliverer: cfg.Deliverer,
	}, nil
}

// IssueChallenge verifies the credentials, generates the challenge code, and
// hands it to the deliverer.
func (p *OTP) IssueChallenge(ctx context.Context, creds Credentials, ch Challenge) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	hashed, ok := p.users[creds.Username]
	if !ok || !p.hasher.Verify(hashed, creds.Password) {
		return ErrRejected
	}

	code, err := p.totp.GenerateCode(p.challengeSecret(ch), p.clock.Now())
	if err != nil {
		return fmt.Errorf("twofa: generate code: %w", err)
	}

	if p.deliverer == nil {
		return nil
	}
	return p.deliverer.Deliver(ctx, ch, code)
}

// ValidateCode checks a submitted code against the challenge.
func (p *OTP) ValidateCode(ctx context.Context, ch Challenge, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := p.clock.Now()
	if now.Sub(ch.IssuedAt) > p.period {
		return ErrExpired
	}

	if !p.totp.Validate(code, p.challengeSecret(ch), now) {
		return ErrRejected
	}
	return nil
}

// challengeSecret derives the per-challenge TOTP secret from the provider key
// and the challenge identity. Issue and validate must see the same ID and
// token digest for codes to line up.
func (p *OTP) challengeSecret(ch Challenge) string {
	mac := hmac.New(sha256.New, p.secret)
	mac.Write([]byte(ch.ID))
	mac.Write([]byte("."))
	mac.Write([]byte(ch.DeviceToken))

	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(mac.Sum(nil))
}
