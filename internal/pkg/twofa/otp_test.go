package twofa

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gnelabs/authgate/internal/pkg/clock"
	"github.com/gnelabs/authgate/internal/pkg/hash"
)

type captureDeliverer struct {
	ch   Challenge
	code string
}

func (d *captureDeliverer) Deliver(_ context.Context, ch Challenge, code string) error {
	d.ch = ch
	d.code = code
	return nil
}

func testChallenge(at time.Time) Challenge {
	return Challenge{
		ID:          "0191a7a0-0000-7000-8000-000000000001",
		Username:    "alice",
		DeviceToken: "9f86d081884c7d659a2feaa0c55ad015",
		Channel:     "EMAIL",
		IssuedAt:    at,
	}
}

func newTestOTP(t *testing.T, at time.Time, del Deliverer) *OTP {
	t.Helper()

	hasher := hash.NewBcrypt(4, "")
	hashed, err := hasher.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	p, err := NewOTP(OTPConfig{
		Secret:    []byte("0123456789abcdef0123456789abcdef"),
		Users:     map[string]string{"alice": string(hashed)},
		Period:    5 * time.Minute,
		Hasher:    hasher,
		Clock:     clock.Static{At: at},
		Deliverer: del,
	})
	if err != nil {
		t.Fatalf("new otp provider: %v", err)
	}
	return p
}

func TestOTPIssueAndValidateRoundTrip(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	del := &captureDeliverer{}
	p := newTestOTP(t, at, del)

	ch := testChallenge(at)
	if err := p.IssueChallenge(context.Background(), Credentials{Username: "alice", Password: "s3cret"}, ch); err != nil {
		t.Fatalf("issue challenge: %v", err)
	}
	if del.code == "" {
		t.Fatalf("deliverer did not receive a code")
	}
	if del.ch.ID != ch.ID {
		t.Fatalf("deliverer got challenge %q, want %q", del.ch.ID, ch.ID)
	}

	if err := p.ValidateCode(context.Background(), ch, del.code); err != nil {
		t.Fatalf("validate code: %v", err)
	}
}

func TestOTPRejectsBadCredentials(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	p := newTestOTP(t, at, nil)

	cases := map[string]Credentials{
		"wrong password": {Username: "alice", Password: "nope"},
		"unknown user":   {Username: "mallory", Password: "s3cret"},
	}
	for name, creds := range cases {
		t.Run(name, func(t *testing.T) {
			err := p.IssueChallenge(context.Background(), creds, testChallenge(at))
			if !errors.Is(err, ErrRejected) {
				t.Fatalf("expected ErrRejected, got %v", err)
			}
		})
	}
}

func TestOTPRejectsWrongCode(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	del := &captureDeliverer{}
	p := newTestOTP(t, at, del)

	ch := testChallenge(at)
	if err := p.IssueChallenge(context.Background(), Credentials{Username: "alice", Password: "s3cret"}, ch); err != nil {
		t.Fatalf("issue challenge: %v", err)
	}

	wrong := "000000"
	if del.code == wrong {
		wrong = "111111"
	}
	if err := p.ValidateCode(context.Background(), ch, wrong); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestOTPExpiredChallenge(t *testing.T) {
	issuedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	del := &captureDeliverer{}
	issuer := newTestOTP(t, issuedAt, del)

	ch := testChallenge(issuedAt)
	if err := issuer.IssueChallenge(context.Background(), Credentials{Username: "alice", Password: "s3cret"}, ch); err != nil {
		t.Fatalf("issue challenge: %v", err)
	}

	// A second instance with the same key but a later clock; validation is
	// stateless so only the derived secret and the window matter.
	validator := newTestOTP(t, issuedAt.Add(11*time.Minute), nil)
	if err := validator.ValidateCode(context.Background(), ch, del.code); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestNewOTPConfigValidation(t *testing.T) {
	base := OTPConfig{
		Secret: []byte("0123456789abcdef"),
		Period: time.Minute,
		Hasher: hash.NewBcrypt(4, ""),
		Clock:  clock.Static{At: time.Now()},
	}

	short := base
	short.Secret = []byte("short")
	if _, err := NewOTP(short); !errors.Is(err, ErrOTPSecretTooShort) {
		t.Fatalf("expected ErrOTPSecretTooShort, got %v", err)
	}

	noPeriod := base
	noPeriod.Period = 0
	if _, err := NewOTP(noPeriod); !errors.Is(err, ErrOTPPeriodRequired) {
		t.Fatalf("expected ErrOTPPeriodRequired, got %v", err)
	}

	if _, err := NewOTP(base); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestFactory(t *testing.T) {
	if _, err := NewFromDriver("kafka", FactoryOptions{}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}

	p, err := NewFromDriver(DriverMock, FactoryOptions{})
	if err != nil {
		t.Fatalf("mock driver: %v", err)
	}

	if err := p.IssueChallenge(context.Background(), Credentials{}, Challenge{}); err != nil {
		t.Fatalf("mock issue: %v", err)
	}
	if err := p.ValidateCode(context.Background(), Challenge{}, "anything"); err != nil {
		t.Fatalf("mock validate: %v", err)
	}
}
