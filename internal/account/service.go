package account

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/okapi-id/okapi_id/internal/apperr"
	"github.com/okapi-id/okapi_id/internal/credential"
)

// Service manages account lifecycle behind the guarded CRUD surface.
type Service struct {
	repo   Repository
	hasher credential.Hasher
}

// NewService creates a new account service.
func NewService(repo Repository, hasher credential.Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// CreateInput carries the fields required to create an account.
type CreateInput struct {
	Identity string
	Secret   string
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	Identity *string
	Secret   *string
}

// Create digests the secret and inserts a new account. Identity collisions
// surface as apperr.ErrIdentityExists from the store.
func (s *Service) Create(ctx context.Context, in CreateInput) (Account, error) {
	if in.Identity == "" {
		return Account{}, apperr.ErrMissingIdentity
	}
	if in.Secret == "" {
		return Account{}, apperr.ErrMissingSecret
	}

	digest, err := s.hasher.Digest(in.Secret)
	if err != nil {
		return Account{}, err
	}

	now := time.Now().UTC()
	acct := Account{
		ID:           uuid.New().String(),
		Identity:     in.Identity,
		SecretDigest: digest,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.repo.Create(ctx, acct)
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// Get returns one account by id.
func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	return s.repo.FindByID(ctx, id)
}

// Update writes only the supplied fields. A supplied secret is re-digested
// before storage; the plaintext is never persisted.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Account, error) {
	fields := UpdateFields{Identity: in.Identity}
	if in.Secret != nil {
		digest, err := s.hasher.Digest(*in.Secret)
		if err != nil {
			return Account{}, err
		}
		fields.SecretDigest = &digest
	}
	return s.repo.Update(ctx, id, fields)
}

// Delete removes the account and returns the removed record so callers can
// reference the deleted identity in confirmations.
func (s *Service) Delete(ctx context.Context, id string) (Account, error) {
	return s.repo.Delete(ctx, id)
}
