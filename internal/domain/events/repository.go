package events

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("event not found")

var ErrForbidden = errors.New("operation forbidden")

var ErrUnauthenticated = errors.New("authentication required")

// Event is a community event record. Approved and Blocked are the
// moderation flags: at most one of them is true after any engine
// transition. Visibility in default listings requires Approved && !Blocked.
type Event struct {
	ID         int
	Title      string
	CategoryID int
	Time       time.Time
	Place      string
	ImageURL   string
	Approved   bool
	Blocked    bool
	Ratings    int
	OwnerID    int
}

// Visible reports whether the event appears in default listings and is
// ratable.
func (e *Event) Visible() bool {
	return e.Approved && !e.Blocked
}

// FieldError marks a request payload or query field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Repository is the event collection contract. Insert assigns the id as
// max(existing ids)+1, 1 for an empty collection; ids of deleted events may
// therefore be reused. Implementations serialize access per collection, so
// reads observe prior writes within the process.
type Repository interface {
	List(ctx context.Context) ([]Event, error)
	Get(ctx context.Context, id int) (*Event, error)
	Insert(ctx context.Context, event Event) (*Event, error)
	Update(ctx context.Context, event Event) error
	Delete(ctx context.Context, id int) error
}
