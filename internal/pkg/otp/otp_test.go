package otp

import (
	"encoding/base32"
	"testing"
	"time"

	libotp "github.com/pquerna/otp"
)

func testSecret() string {
	return base32.StdEncoding.WithPadding(base32.NoPadding).
		EncodeToString([]byte("an-arbitrary-20-byte"))
}

func TestGenerateCodeRoundTrip(t *testing.T) {
	o := NewTOTP(300, 1, libotp.DigitsSix)
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	code, err := o.GenerateCode(testSecret(), at)
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6 digits, got %q", code)
	}

	if !o.Validate(code, testSecret(), at) {
		t.Fatalf("code %q should validate at issue time", code)
	}
}

func TestValidateRejectsStaleCode(t *testing.T) {
	o := NewTOTP(300, 1, libotp.DigitsSix)
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	code, err := o.GenerateCode(testSecret(), at)
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	// Two full periods past the skew window.
	later := at.Add(3 * 300 * time.Second)
	if o.Validate(code, testSecret(), later) {
		t.Fatalf("code %q should not validate %v later", code, later.Sub(at))
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	o := NewTOTP(300, 1, libotp.DigitsSix)
	at := time.Now()

	code, err := o.GenerateCode(testSecret(), at)
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	other := base32.StdEncoding.WithPadding(base32.NoPadding).
		EncodeToString([]byte("a-different-20-bytes"))
	if o.Validate(code, other, at) {
		t.Fatalf("code should not validate against a different secret")
	}
}

func TestNewTOTPDefaults(t *testing.T) {
	o := NewTOTP(0, 0, libotp.Digits(12))
	if o.period != 30 || o.skew != 1 || o.digits != libotp.DigitsSix {
		t.Fatalf("unexpected defaults: %+v", o)
	}
}
