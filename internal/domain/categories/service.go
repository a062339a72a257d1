package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eventboard/server/internal/auth"
	"github.com/rs/zerolog"
)

var ErrForbidden = errors.New("operation forbidden")

var ErrUnauthenticated = errors.New("authentication required")

// FieldError marks a request field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Service is the category registry. Listing is public; create and delete
// are admin capabilities, enforced here rather than in transport code.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "categories").Logger(),
	}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, actor *auth.Actor, name string) (*Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, FieldError{Field: "name", Message: "is required"}
	}

	category, err := s.repo.Insert(ctx, Category{Name: name})
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	s.logger.Info().Int("category_id", category.ID).Str("name", category.Name).Msg("category created")
	return category, nil
}

// Delete removes the category. Events referencing it keep their categoryId;
// there is no cascade.
func (s *Service) Delete(ctx context.Context, actor *auth.Actor, id int) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int("category_id", id).Msg("category deleted")
	return nil
}

func requireAdmin(actor *auth.Actor) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
