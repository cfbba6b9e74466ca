package auth

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// ReserveIdentity checks that neither the email nor the username is taken.
// It must run inside the same transaction as the insert that follows so the
// check-then-act pair is atomic; the unique indexes on users.email and
// users.username are the backstop for races the transaction isolation level
// lets through.
//
// Email is checked first so a payload that collides on both reports the
// email conflict.
func ReserveIdentity(ctx context.Context, repo Users, tx bun.IDB, email, username string) error {
	taken, err := repo.EmailExistsTx(ctx, tx, email)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "email uniqueness check failed")
	}
	if taken {
		return ErrEmailTaken
	}

	taken, err = repo.UsernameExistsTx(ctx, tx, username)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "username uniqueness check failed")
	}
	if taken {
		return ErrUsernameTaken
	}

	return nil
}

// mapUniqueViolation translates driver-level unique constraint errors into
// the conflict errors callers branch on. Covers sqlite
// ("UNIQUE constraint failed: users.email") and postgres
// ("duplicate key value violates unique constraint") message shapes.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") &&
		!strings.Contains(msg, "duplicate key value") {
		return err
	}

	if strings.Contains(msg, "email") {
		return ErrEmailTaken
	}

	if strings.Contains(msg, "username") {
		return ErrUsernameTaken
	}

	return goerrors.Wrap(err, goerrors.CategoryConflict, "unique constraint violated").
		WithCode(goerrors.CodeConflict)
}

// IsUniqueViolation reports whether err is one of the identity conflicts.
func IsUniqueViolation(err error) bool {
	return goerrors.Is(err, ErrEmailTaken) || goerrors.Is(err, ErrUsernameTaken)
}
