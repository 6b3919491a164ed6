package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okapi-id/okapi_id/internal/apperr"
)

// Repository persists accounts. Identity uniqueness is enforced by the
// store itself, not pre-checked by callers.
type Repository interface {
	Create(ctx context.Context, acct Account) (Account, error)
	FindByIdentity(ctx context.Context, identity string) (Account, error)
	FindByID(ctx context.Context, id string) (Account, error)
	List(ctx context.Context) ([]Account, error)
	Update(ctx context.Context, id string, fields UpdateFields) (Account, error)
	Delete(ctx context.Context, id string) (Account, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const uniqueViolation = "23505"

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.ErrIdentityExists
	}
	return err
}

// Create inserts a new account.
func (r *PostgresRepository) Create(ctx context.Context, acct Account) (Account, error) {
	acctID, err := uuid.Parse(acct.ID)
	if err != nil {
		return Account{}, err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO accounts (id, identity, secret_digest, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)`,
		acctID, acct.Identity, acct.SecretDigest, acct.CreatedAt.UTC(), acct.UpdatedAt.UTC())
	if err != nil {
		return Account{}, mapWriteError(err)
	}
	return acct, nil
}

// FindByIdentity fetches an account by its unique identity string.
func (r *PostgresRepository) FindByIdentity(ctx context.Context, identity string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT id, identity, secret_digest, created_at, updated_at
        FROM accounts WHERE identity = $1`, identity)
	return scanAccount(row)
}

// FindByID fetches an account by surrogate id.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Account, error) {
	acctID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, apperr.ErrAccountNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, identity, secret_digest, created_at, updated_at
        FROM accounts WHERE id = $1`, acctID)
	return scanAccount(row)
}

// List returns every account.
func (r *PostgresRepository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT id, identity, secret_digest, created_at, updated_at
        FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}

// Update writes only the supplied fields and returns the updated row.
func (r *PostgresRepository) Update(ctx context.Context, id string, fields UpdateFields) (Account, error) {
	acctID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, apperr.ErrAccountNotFound
	}

	sets := []string{}
	args := []any{acctID}
	if fields.Identity != nil {
		args = append(args, *fields.Identity)
		sets = append(sets, fmt.Sprintf("identity = $%d", len(args)))
	}
	if fields.SecretDigest != nil {
		args = append(args, *fields.SecretDigest)
		sets = append(sets, fmt.Sprintf("secret_digest = $%d", len(args)))
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}
	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	query := fmt.Sprintf(`UPDATE accounts SET %s WHERE id = $1
        RETURNING id, identity, secret_digest, created_at, updated_at`, strings.Join(sets, ", "))
	acct, err := scanAccount(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return Account{}, mapWriteError(err)
	}
	return acct, nil
}

// Delete removes the account and returns the removed row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (Account, error) {
	acctID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, apperr.ErrAccountNotFound
	}
	row := r.db.QueryRow(ctx, `DELETE FROM accounts WHERE id = $1
        RETURNING id, identity, secret_digest, created_at, updated_at`, acctID)
	return scanAccount(row)
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		updatedAt time.Time
		acct      Account
	)
	if err := row.Scan(&id, &acct.Identity, &acct.SecretDigest, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, apperr.ErrAccountNotFound
		}
		return Account{}, err
	}
	acct.ID = id.String()
	acct.CreatedAt = createdAt.UTC()
	acct.UpdatedAt = updatedAt.UTC()
	return acct, nil
}
