package auth

import (
	"context"
	"time"

	"github.com/okapi-id/okapi_id/internal/account"
	"github.com/okapi-id/okapi_id/internal/apperr"
	"github.com/okapi-id/okapi_id/internal/credential"
	"github.com/okapi-id/okapi_id/internal/token"
)

// Service implements the registration and authentication flows. Both end by
// minting a bearer token bound to the account's claim; the service itself
// holds no session state.
type Service struct {
	accounts *account.Service
	repo     account.Repository
	hasher   credential.Hasher
	issuer   *token.Issuer
	tokenTTL time.Duration
}

// NewService creates a new auth service.
func NewService(accounts *account.Service, repo account.Repository, hasher credential.Hasher, issuer *token.Issuer, tokenTTL time.Duration) *Service {
	return &Service{accounts: accounts, repo: repo, hasher: hasher, issuer: issuer, tokenTTL: tokenTTL}
}

// Register creates an account and returns it with a freshly issued token.
// Duplicate identities surface as apperr.ErrIdentityExists from the store;
// there is no pre-check, so a concurrently-won uniqueness race takes the
// same path.
func (s *Service) Register(ctx context.Context, identity, secret string) (account.Account, string, error) {
	acct, err := s.accounts.Create(ctx, account.CreateInput{Identity: identity, Secret: secret})
	if err != nil {
		return account.Account{}, "", err
	}

	tok, err := s.issuer.Issue(token.Claim{AccountID: acct.ID, Identity: acct.Identity}, s.tokenTTL)
	if err != nil {
		return account.Account{}, "", err
	}
	return acct, tok, nil
}

// Login verifies credentials and returns the account with a new token. It
// performs no writes.
func (s *Service) Login(ctx context.Context, identity, secret string) (account.Account, string, error) {
	if identity == "" {
		return account.Account{}, "", apperr.ErrMissingIdentity
	}
	if secret == "" {
		return account.Account{}, "", apperr.ErrMissingSecret
	}

	acct, err := s.repo.FindByIdentity(ctx, identity)
	if err != nil {
		return account.Account{}, "", err
	}

	ok, err := s.hasher.Verify(secret, acct.SecretDigest)
	if err != nil {
		return account.Account{}, "", err
	}
	if !ok {
		return account.Account{}, "", apperr.ErrSecretMismatch
	}

	tok, err := s.issuer.Issue(token.Claim{AccountID: acct.ID, Identity: acct.Identity}, s.tokenTTL)
	if err != nil {
		return account.Account{}, "", err
	}
	return acct, tok, nil
}
