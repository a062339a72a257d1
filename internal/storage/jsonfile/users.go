package jsonfile

import (
	"context"

	"github.com/eventboard/server/internal/auth"
	"github.com/eventboard/server/internal/domain/users"
)

type userRecord struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Role         string `json:"role"`
}

func (r userRecord) toDomain() users.User {
	return users.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         auth.NormalizeRole(r.Role),
	}
}

func userRecordFrom(u users.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
	}
}

type userRepository struct {
	col *collection[userRecord]
}

func (s *Store) Users() users.Repository {
	return &userRepository{col: s.users}
}

func (r *userRepository) List(ctx context.Context) ([]users.User, error) {
	var result []users.User
	err := r.col.view(func(items []userRecord) error {
		result = make([]users.User, 0, len(items))
		for _, item := range items {
			result = append(result, item.toDomain())
		}
		return nil
	})
	return result, err
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*users.User, error) {
	var found *users.User
	err := r.col.view(func(items []userRecord) error {
		for _, item := range items {
			if item.ID == id {
				user := item.toDomain()
				found = &user
				return nil
			}
		}
		return users.ErrNotFound
	})
	return found, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	var found *users.User
	err := r.col.view(func(items []userRecord) error {
		for _, item := range items {
			if item.Email == email {
				user := item.toDomain()
				found = &user
				return nil
			}
		}
		return users.ErrNotFound
	})
	return found, err
}

func (r *userRepository) Insert(ctx context.Context, user users.User) (*users.User, error) {
	var created users.User
	err := r.col.update(func(items []userRecord) ([]userRecord, error) {
		for _, item := range items {
			if item.Email == user.Email {
				return nil, users.ErrEmailTaken
			}
		}
		user.ID = nextUserID(items)
		created = user
		return append(items, userRecordFrom(user)), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func nextUserID(items []userRecord) int {
	next := 1
	for _, item := range items {
		if item.ID >= next {
			next = item.ID + 1
		}
	}
	return next
}
