package credential

import (
	"errors"
	"strings"
	"testing"

	"github.com/okapi-id/okapi_id/internal/apperr"
)

func TestDigestAndVerify(t *testing.T) {
	h := NewBcryptHasher(4) // min cost keeps the test fast

	digest, err := h.Digest("pw1")
	if err != nil {
		t.Fatalf("digest: %v", err)
	}

	ok, err := h.Verify("pw1", digest)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected secret to match its own digest")
	}

	ok, err = h.Verify("other", digest)
	if err != nil {
		t.Fatalf("verify mismatch: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch for wrong secret")
	}
}

func TestDigestIsSalted(t *testing.T) {
	h := NewBcryptHasher(4)

	first, err := h.Digest("pw1")
	if err != nil {
		t.Fatalf("first digest: %v", err)
	}
	second, err := h.Digest("pw1")
	if err != nil {
		t.Fatalf("second digest: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct digests for repeated calls")
	}
}

func TestDigestOverlongSecret(t *testing.T) {
	h := NewBcryptHasher(4)

	long := strings.Repeat("x", 100)
	if _, err := h.Digest(long); !errors.Is(err, apperr.ErrHashing) {
		t.Fatalf("expected ErrHashing for secret beyond bcrypt's limit, got %v", err)
	}
}

func TestVerifyMalformedDigest(t *testing.T) {
	h := NewBcryptHasher(4)

	if _, err := h.Verify("pw1", "not-a-bcrypt-digest"); !errors.Is(err, apperr.ErrHashing) {
		t.Fatalf("expected ErrHashing, got %v", err)
	}
}
