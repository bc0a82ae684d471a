package token

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestNewURLSafeRejectsWeakEntropy(t *testing.T) {
	if _, err := NewURLSafe(8); err == nil {
		t.Fatalf("expected error for 8-byte entropy")
	}
	if _, err := NewURLSafe(15); err == nil {
		t.Fatalf("expected error for 15-byte entropy")
	}
	if _, err := NewURLSafe(16); err != nil {
		t.Fatalf("16-byte entropy should be accepted: %v", err)
	}
}

func TestGenerateIsURLSafe(t *testing.T) {
	gen, err := NewURLSafe(16)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	tok, err := gen.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if strings.ContainsAny(tok, "+/=") {
		t.Fatalf("token %q contains non URL-safe characters", tok)
	}

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		t.Fatalf("token %q is not base64url: %v", tok, err)
	}
	if len(raw) != 16 {
		t.Fatalf("expected 16 bytes of entropy, got %d", len(raw))
	}
}

func TestGenerateIsDistinct(t *testing.T) {
	gen, err := NewURLSafe(16)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	const n = 1000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		tok, err := gen.Generate()
		if err != nil {
			t.Fatalf("generate %d: %v", i, err)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token after %d generations: %q", i, tok)
		}
		seen[tok] = struct{}{}
	}
}
