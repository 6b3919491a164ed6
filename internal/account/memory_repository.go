package account

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okapi-id/okapi_id/internal/apperr"
)

type memoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]Account // keyed by id
}

// NewMemoryRepository builds an in-memory account store for tests and
// database-less development. Semantics match the Postgres repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{accounts: make(map[string]Account)}
}

func (r *memoryRepository) Create(_ context.Context, acct Account) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Identity == acct.Identity {
			return Account{}, apperr.ErrIdentityExists
		}
	}
	r.accounts[acct.ID] = acct
	return acct, nil
}

func (r *memoryRepository) FindByIdentity(_ context.Context, identity string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, acct := range r.accounts {
		if acct.Identity == identity {
			return acct, nil
		}
	}
	return Account{}, apperr.ErrAccountNotFound
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acct, ok := r.accounts[id]
	if !ok {
		return Account{}, apperr.ErrAccountNotFound
	}
	return acct, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	accounts := make([]Account, 0, len(r.accounts))
	for _, acct := range r.accounts {
		accounts = append(accounts, acct)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r *memoryRepository) Update(_ context.Context, id string, fields UpdateFields) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.accounts[id]
	if !ok {
		return Account{}, apperr.ErrAccountNotFound
	}
	if fields.Identity != nil && *fields.Identity != acct.Identity {
		for _, existing := range r.accounts {
			if existing.Identity == *fields.Identity {
				return Account{}, apperr.ErrIdentityExists
			}
		}
		acct.Identity = *fields.Identity
	}
	if fields.SecretDigest != nil {
		acct.SecretDigest = *fields.SecretDigest
	}
	if fields.Identity != nil || fields.SecretDigest != nil {
		acct.UpdatedAt = time.Now().UTC()
	}
	r.accounts[id] = acct
	return acct, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.accounts[id]
	if !ok {
		return Account{}, apperr.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return acct, nil
}
