package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eventboard/server/internal/auth"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Operation names an event action for the capability check.
type Operation string

const (
	OpCreate     Operation = "create"
	OpEdit       Operation = "edit"
	OpDelete     Operation = "delete"
	OpModerate   Operation = "moderate"
	OpListHidden Operation = "list_hidden"
)

// Service is the moderation engine: the single authority deciding whether
// an actor may perform an event operation and what moderation state
// results. Handlers authenticate; all permission decisions happen here.
type Service struct {
	repo     Repository
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
		logger:   logger.With().Str("component", "events").Logger(),
	}
}

// authorize is the capability check behind every event operation. The event
// argument is nil for operations whose permission does not depend on a
// particular record.
func authorize(actor *auth.Actor, op Operation, event *Event) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	switch op {
	case OpCreate:
		return nil
	case OpEdit, OpDelete:
		if actor.IsAdmin() || (event != nil && actor.Owns(event.OwnerID)) {
			return nil
		}
		return ErrForbidden
	case OpModerate, OpListHidden:
		if actor.IsAdmin() {
			return nil
		}
		return ErrForbidden
	}
	return ErrForbidden
}

type CreateParams struct {
	Title      string `json:"title" validate:"required"`
	CategoryID int    `json:"categoryId" validate:"required,min=1"`
	Time       string `json:"time" validate:"required"`
	Place      string `json:"place" validate:"required"`
	ImageURL   string `json:"imageUrl"`
}

type UpdateParams struct {
	Title      *string `json:"title"`
	CategoryID *int    `json:"categoryId" validate:"omitempty,min=1"`
	Time       *string `json:"time"`
	Place      *string `json:"place"`
	ImageURL   *string `json:"imageUrl"`
}

// Create validates the payload and inserts a new event owned by the actor.
// Events created by admins start Approved; everyone else's start Pending.
// This is the only state assignment not triggered by an admin action.
func (s *Service) Create(ctx context.Context, actor *auth.Actor, params CreateParams) (*Event, error) {
	if err := authorize(actor, OpCreate, nil); err != nil {
		return nil, err
	}
	if err := s.checkStruct(params); err != nil {
		return nil, err
	}
	when, err := parseTime("time", params.Time)
	if err != nil {
		return nil, err
	}

	event := Event{
		Title:      strings.TrimSpace(params.Title),
		CategoryID: params.CategoryID,
		Time:       when,
		Place:      strings.TrimSpace(params.Place),
		ImageURL:   strings.TrimSpace(params.ImageURL),
		Approved:   actor.IsAdmin(),
		Blocked:    false,
		Ratings:    0,
		OwnerID:    actor.ID,
	}

	created, err := s.repo.Insert(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	s.logger.Info().
		Int("event_id", created.ID).
		Int("owner_id", created.OwnerID).
		Bool("approved", created.Approved).
		Msg("event created")
	return created, nil
}

// Update edits the mutable fields of an event. Moderation flags, ratings
// and ownership are never touched here, whoever the actor is: an admin
// editing a foreign pending event leaves it pending.
func (s *Service) Update(ctx context.Context, actor *auth.Actor, id int, params UpdateParams) (*Event, error) {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, OpEdit, event); err != nil {
		return nil, err
	}
	if err := s.checkStruct(params); err != nil {
		return nil, err
	}

	// Validate everything before the first mutation.
	var when *time.Time
	if params.Time != nil {
		parsed, err := parseTime("time", *params.Time)
		if err != nil {
			return nil, err
		}
		when = &parsed
	}

	if params.Title != nil {
		event.Title = strings.TrimSpace(*params.Title)
	}
	if params.CategoryID != nil {
		event.CategoryID = *params.CategoryID
	}
	if when != nil {
		event.Time = *when
	}
	if params.Place != nil {
		event.Place = strings.TrimSpace(*params.Place)
	}
	if params.ImageURL != nil {
		event.ImageURL = strings.TrimSpace(*params.ImageURL)
	}

	if err := s.repo.Update(ctx, *event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *Service) Delete(ctx context.Context, actor *auth.Actor, id int) error {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, OpDelete, event); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.Info().Int("event_id", id).Int("actor_id", actor.ID).Msg("event deleted")
	return nil
}

// Approve transitions the event to Approved from any state, clearing the
// blocked flag. Admin-only and idempotent.
func (s *Service) Approve(ctx context.Context, actor *auth.Actor, id int) (*Event, error) {
	return s.moderate(ctx, actor, id, true)
}

// Block transitions the event to Blocked from any state, clearing the
// approved flag. Admin-only and idempotent. The only way back is Approve.
func (s *Service) Block(ctx context.Context, actor *auth.Actor, id int) (*Event, error) {
	return s.moderate(ctx, actor, id, false)
}

func (s *Service) moderate(ctx context.Context, actor *auth.Actor, id int, approve bool) (*Event, error) {
	if err := authorize(actor, OpModerate, nil); err != nil {
		return nil, err
	}
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Approved = approve
	event.Blocked = !approve

	if err := s.repo.Update(ctx, *event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	s.logger.Info().
		Int("event_id", event.ID).
		Bool("approved", event.Approved).
		Bool("blocked", event.Blocked).
		Int("actor_id", actor.ID).
		Msg("event moderated")
	return event, nil
}

// Rate increments the rating counter by one. No authentication is
// required, but only Approved events are ratable: pending or blocked
// events report not-found so unvetted content cannot collect ratings.
func (s *Service) Rate(ctx context.Context, id int) (int, error) {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if !event.Visible() {
		return 0, ErrNotFound
	}

	event.Ratings++
	if err := s.repo.Update(ctx, *event); err != nil {
		return 0, fmt.Errorf("update event: %w", err)
	}
	return event.Ratings, nil
}

// List returns events matching the filters. Default listings exclude
// blocked and unapproved events; the opt-in flags are an admin capability.
func (s *Service) List(ctx context.Context, actor *auth.Actor, filters Filters) ([]Event, error) {
	if filters.IncludeUnapproved || filters.IncludeBlocked {
		if err := authorize(actor, OpListHidden, nil); err != nil {
			return nil, err
		}
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]Event, 0, len(all))
	for _, event := range all {
		if event.Blocked && !filters.IncludeBlocked {
			continue
		}
		if !event.Approved && !filters.IncludeUnapproved {
			continue
		}
		if filters.CategoryID != 0 && event.CategoryID != filters.CategoryID {
			continue
		}
		if filters.From != nil && event.Time.Before(*filters.From) {
			continue
		}
		if filters.To != nil && event.Time.After(*filters.To) {
			continue
		}
		matched = append(matched, event)
	}
	return matched, nil
}

// ListOwned returns every event owned by the actor regardless of
// moderation state.
func (s *Service) ListOwned(ctx context.Context, actor *auth.Actor) ([]Event, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]Event, 0)
	for _, event := range all {
		if event.OwnerID == actor.ID {
			owned = append(owned, event)
		}
	}
	return owned, nil
}

// Get returns a single event. Hidden events are only returned to their
// owner or an admin; everyone else gets not-found semantics rather than a
// hint that the event exists.
func (s *Service) Get(ctx context.Context, actor *auth.Actor, id int) (*Event, error) {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Visible() || actor.IsAdmin() || actor.Owns(event.OwnerID) {
		return event, nil
	}
	return nil, ErrNotFound
}

func (s *Service) checkStruct(params any) error {
	err := s.validate.Struct(params)
	if err == nil {
		return nil
	}
	if invalid, ok := err.(validator.ValidationErrors); ok && len(invalid) > 0 {
		field := invalid[0]
		return FieldError{Field: jsonFieldName(field.Field()), Message: "missing or invalid"}
	}
	return FieldError{Message: err.Error()}
}

// jsonFieldName maps struct field names to their wire names so validation
// errors talk about the payload the client actually sent.
func jsonFieldName(structField string) string {
	switch structField {
	case "Title":
		return "title"
	case "CategoryID":
		return "categoryId"
	case "Time":
		return "time"
	case "Place":
		return "place"
	case "ImageURL":
		return "imageUrl"
	default:
		return strings.ToLower(structField)
	}
}
