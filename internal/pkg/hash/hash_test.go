package hash

import "testing"

func TestBcryptRoundTrip(t *testing.T) {
	h := NewBcrypt(4, "pepper")

	hashed, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !h.Verify(string(hashed), "s3cret") {
		t.Fatalf("verify should accept the original plaintext")
	}
	if h.Verify(string(hashed), "wrong") {
		t.Fatalf("verify should reject a different plaintext")
	}
}

func TestBcryptPepperMatters(t *testing.T) {
	h := NewBcrypt(4, "pepper")
	other := NewBcrypt(4, "other-pepper")

	hashed, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if other.Verify(string(hashed), "s3cret") {
		t.Fatalf("a different pepper must not verify")
	}
}

func TestHMACSHA256Deterministic(t *testing.T) {
	h := NewHMACSHA256("key")

	first, err := h.Hash("token")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	second, err := h.Hash("token")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("same input must produce the same digest")
	}

	if !h.Verify(string(first), "token") {
		t.Fatalf("verify should accept the original plaintext")
	}
	if h.Verify(string(first), "other") {
		t.Fatalf("verify should reject a different plaintext")
	}

	otherKey, err := NewHMACSHA256("other-key").Hash("token")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if string(first) == string(otherKey) {
		t.Fatalf("different keys must produce different digests")
	}
}
