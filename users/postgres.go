package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/postboard-go/apperror"
	"github.com/user/postboard-go/auth"
)

const pgUniqueViolation = "23505"

// PostgresRepository is the pgx-backed account Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates an account Repository backed by the given pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Update builds a SET clause from the non-nil fields. Callers guarantee at
// least one field is present.
func (r *PostgresRepository) Update(ctx context.Context, id int, upd Update) (*auth.User, error) {
	assignments := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)

	appendAssignment := func(column string, value string) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Username != nil {
		appendAssignment("username", *upd.Username)
	}
	if upd.Email != nil {
		appendAssignment("email", *upd.Email)
	}
	if upd.Password != nil {
		appendAssignment("password", *upd.Password)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d
	          RETURNING id, username, email, password, role, created_at`,
		strings.Join(assignments, ", "), len(args))

	var user auth.User
	err := r.pool.QueryRow(ctx, query, args...).
		Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			switch {
			case strings.Contains(pgErr.ConstraintName, "username"):
				return nil, apperror.NewConflictError("username already taken", err)
			case strings.Contains(pgErr.ConstraintName, "email"):
				return nil, apperror.NewConflictError("email already taken", err)
			default:
				return nil, apperror.NewConflictError("credentials already in use", err)
			}
		}
		return nil, apperror.NewDatabaseError(fmt.Sprintf("failed to update user %d", id), err)
	}
	return &user, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError(fmt.Sprintf("failed to delete user %d", id), err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("user not found", nil)
	}
	return nil
}
