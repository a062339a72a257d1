package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eventboard/server/internal/auth"
	"github.com/eventboard/server/internal/domain/users"
)

type userRepository struct {
	db *sql.DB
}

func (s *Store) Users() users.Repository {
	return &userRepository{db: s.db}
}

func (r *userRepository) List(ctx context.Context) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, email, password_hash, role FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]users.User, 0)
	for rows.Next() {
		var user users.User
		var role string
		if err := rows.Scan(&user.ID, &user.Email, &user.PasswordHash, &role); err != nil {
			return nil, err
		}
		user.Role = auth.NormalizeRole(role)
		result = append(result, user)
	}
	return result, rows.Err()
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*users.User, error) {
	return r.get(ctx, `SELECT id, email, password_hash, role FROM users WHERE id = ?`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.get(ctx, `SELECT id, email, password_hash, role FROM users WHERE email = ?`, email)
}

func (r *userRepository) get(ctx context.Context, query string, arg any) (*users.User, error) {
	var user users.User
	var role string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Email, &user.PasswordHash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	user.Role = auth.NormalizeRole(role)
	return &user, nil
}

func (r *userRepository) Insert(ctx context.Context, user users.User) (*users.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE email = ?`, user.Email).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, users.ErrEmailTaken
	}

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM users`).Scan(&user.ID); err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO users(id, email, password_hash, role) VALUES(?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, string(user.Role))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &user, nil
}
