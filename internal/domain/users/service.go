package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eventboard/server/internal/auth"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for password hashing.
const BcryptCost = 12

// FieldError marks a registration field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Service is the identity store: it resolves credentials to identities and
// creates new ones. Self-serve registration always yields the user role;
// admins only come from seed data or bootstrap.
type Service struct {
	repo     Repository
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
		logger:   logger.With().Str("component", "users").Logger(),
	}
}

func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	return s.create(ctx, email, password, auth.RoleUser)
}

// Bootstrap ensures an admin account exists for the given credentials.
// If the email is already registered the existing record is left alone.
func (s *Service) Bootstrap(ctx context.Context, email, password string) (*User, error) {
	existing, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	user, err := s.create(ctx, email, password, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("email", user.Email).Msg("bootstrapped admin user")
	return user, nil
}

func (s *Service) create(ctx context.Context, email, password string, role auth.Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, FieldError{Field: "email", Message: "must be a valid email address"}
	}
	if err := s.validate.Var(password, "required,max=72"); err != nil {
		return nil, FieldError{Field: "password", Message: "is required"}
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Insert(ctx, User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	s.logger.Info().
		Int("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("user created")
	return user, nil
}

// Authenticate verifies the credentials and returns the identity, or
// ErrInvalidCredentials without distinguishing unknown emails from wrong
// passwords.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
