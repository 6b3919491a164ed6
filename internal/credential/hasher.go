package credential

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/okapi-id/okapi_id/internal/apperr"
)

// Hasher one-way transforms secrets into storable digests and verifies
// plaintexts against them.
type Hasher interface {
	Digest(secret string) (string, error)
	Verify(secret, digest string) (bool, error)
}

// BcryptHasher implements Hasher with bcrypt. Salting is per call, so two
// digests of the same secret never compare equal as strings.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher builds a bcrypt hasher. A cost outside bcrypt's valid
// range falls back to cost 10.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = 10
	}
	return &BcryptHasher{cost: cost}
}

// Digest hashes a secret for storage.
func (h *BcryptHasher) Digest(secret string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrHashing, err)
	}
	return string(out), nil
}

// Verify reports whether secret matches digest. A mismatch is (false, nil);
// only a malformed digest produces an error.
func (h *BcryptHasher) Verify(secret, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", apperr.ErrHashing, err)
	}
}
