// Package memory is an in-memory implementation of the storage facade.
// It backs unit tests with deterministic state and mirrors the id
// assignment and not-found semantics of the persistent drivers.
package memory

import (
	"context"
	"sync"

	"github.com/eventboard/server/internal/auth"
	"github.com/eventboard/server/internal/domain/categories"
	"github.com/eventboard/server/internal/domain/events"
	"github.com/eventboard/server/internal/domain/users"
)

type Store struct {
	mu         sync.Mutex
	users      []users.User
	categories []categories.Category
	events     []events.Event
}

func New() *Store {
	return &Store{}
}

func (s *Store) Close() error { return nil }

func (s *Store) Users() users.Repository           { return &userRepository{store: s} }
func (s *Store) Categories() categories.Repository { return &categoryRepository{store: s} }
func (s *Store) Events() events.Repository         { return &eventRepository{store: s} }

type userRepository struct {
	store *Store
}

func (r *userRepository) List(ctx context.Context) ([]users.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]users.User, len(r.store.users))
	copy(out, r.store.users)
	return out, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*users.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (r *userRepository) Insert(ctx context.Context, user users.User) (*users.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return nil, users.ErrEmailTaken
		}
	}
	next := 1
	for _, existing := range r.store.users {
		if existing.ID >= next {
			next = existing.ID + 1
		}
	}
	user.ID = next
	r.store.users = append(r.store.users, user)
	u := user
	return &u, nil
}

// SetRole rewrites a stored user's role in place, bypassing the identity
// store's immutability rule. Tests use it to prove that verified session
// claims are trusted for the token lifetime.
func (s *Store) SetRole(id int, role auth.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Role = role
		}
	}
}

type categoryRepository struct {
	store *Store
}

func (r *categoryRepository) List(ctx context.Context) ([]categories.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]categories.Category, len(r.store.categories))
	copy(out, r.store.categories)
	return out, nil
}

func (r *categoryRepository) Get(ctx context.Context, id int) (*categories.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, category := range r.store.categories {
		if category.ID == id {
			c := category
			return &c, nil
		}
	}
	return nil, categories.ErrNotFound
}

func (r *categoryRepository) Insert(ctx context.Context, category categories.Category) (*categories.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	next := 1
	for _, existing := range r.store.categories {
		if existing.ID >= next {
			next = existing.ID + 1
		}
	}
	category.ID = next
	r.store.categories = append(r.store.categories, category)
	c := category
	return &c, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, category := range r.store.categories {
		if category.ID == id {
			r.store.categories = append(r.store.categories[:i], r.store.categories[i+1:]...)
			return nil
		}
	}
	return categories.ErrNotFound
}

type eventRepository struct {
	store *Store
}

func (r *eventRepository) List(ctx context.Context) ([]events.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]events.Event, len(r.store.events))
	copy(out, r.store.events)
	return out, nil
}

func (r *eventRepository) Get(ctx context.Context, id int) (*events.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, event := range r.store.events {
		if event.ID == id {
			e := event
			return &e, nil
		}
	}
	return nil, events.ErrNotFound
}

func (r *eventRepository) Insert(ctx context.Context, event events.Event) (*events.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	next := 1
	for _, existing := range r.store.events {
		if existing.ID >= next {
			next = existing.ID + 1
		}
	}
	event.ID = next
	r.store.events = append(r.store.events, event)
	e := event
	return &e, nil
}

func (r *eventRepository) Update(ctx context.Context, event events.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, existing := range r.store.events {
		if existing.ID == event.ID {
			r.store.events[i] = event
			return nil
		}
	}
	return events.ErrNotFound
}

func (r *eventRepository) Delete(ctx context.Context, id int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, event := range r.store.events {
		if event.ID == id {
			r.store.events = append(r.store.events[:i], r.store.events[i+1:]...)
			return nil
		}
	}
	return events.ErrNotFound
}
