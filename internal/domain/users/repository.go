package users

import (
	"context"
	"errors"

	"github.com/eventboard/server/internal/auth"
)

var ErrNotFound = errors.New("user not found")

var ErrEmailTaken = errors.New("email is already taken")

var ErrInvalidCredentials = errors.New("invalid credentials")

// User is an identity record. Role is assigned at creation and never
// changes afterwards; there is no promotion path and users are never
// deleted.
type User struct {
	ID           int
	Email        string
	PasswordHash string
	Role         auth.Role
}

type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Insert(ctx context.Context, user User) (*User, error)
}
