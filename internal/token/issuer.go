package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/okapi-id/okapi_id/internal/apperr"
)

// Claim is the minimal identity assertion embedded in a token.
type Claim struct {
	AccountID string
	Identity  string
}

type jwtClaims struct {
	jwt.RegisteredClaims
	Identity string `json:"identity"`
}

// Issuer mints and verifies signed, time-limited bearer tokens. Verification
// is pure and stateless; there is no revocation list.
type Issuer struct {
	secret []byte
}

// NewIssuer builds an issuer bound to the given signing key. The key comes
// from configuration; the issuer never reads globals.
func NewIssuer(secret []byte) *Issuer {
	return &Issuer{secret: secret}
}

// Issue signs a token carrying the claim with expiry now+ttl.
func (i *Issuer) Issue(claim Claim, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claim.AccountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Identity: claim.Identity,
	})
	return t.SignedString(i.secret)
}

// Verify recovers the claim from a token. Expired-but-well-formed tokens
// fail with apperr.ErrTokenExpired; anything else wrong with the token
// (signature, structure) fails with apperr.ErrTokenInvalid.
func (i *Issuer) Verify(tokenStr string) (Claim, error) {
	claims := &jwtClaims{}
	t, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claim{}, apperr.ErrTokenExpired
		}
		return Claim{}, apperr.ErrTokenInvalid
	}
	if !t.Valid {
		return Claim{}, apperr.ErrTokenInvalid
	}
	return Claim{AccountID: claims.Subject, Identity: claims.Identity}, nil
}
