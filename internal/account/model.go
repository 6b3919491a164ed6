package account

import "time"

// Account is a registered credential owner. SecretDigest is the salted
// one-way transform of the secret and never leaves the service.
type Account struct {
	ID           string
	Identity     string
	SecretDigest string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UpdateFields carries a partial update; nil fields are left untouched.
type UpdateFields struct {
	Identity     *string
	SecretDigest *string
}
