package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var ErrNotFound = errors.New("not found")

// DuplicateError reports which unique field collided, so the handler can
// answer 409 naming it.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return "duplicate value for " + e.Field
}

// constraint names come from db/migrations/001_init.sql
var constraintFields = map[string]string{
	"users_email_key":   "email",
	"clients_name_key":  "name",
	"clients_phone_key": "phone",
	"courts_name_key":   "name",
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		field := pgErr.ConstraintName
		if f, ok := constraintFields[pgErr.ConstraintName]; ok {
			field = f
		}
		return &DuplicateError{Field: field}
	}
	return err
}
