package jsonfile

import (
	"context"
	"time"

	"github.com/eventboard/server/internal/domain/events"
)

type eventRecord struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	CategoryID int    `json:"categoryId"`
	Time       string `json:"time"`
	Place      string `json:"place"`
	ImageURL   string `json:"imageUrl"`
	Approved   bool   `json:"approved"`
	Blocked    bool   `json:"blocked"`
	Ratings    int    `json:"ratings"`
	OwnerID    int    `json:"ownerId"`
}

func (r eventRecord) toDomain() events.Event {
	when, err := time.Parse(time.RFC3339, r.Time)
	if err != nil {
		when = time.Time{}
	}
	return events.Event{
		ID:         r.ID,
		Title:      r.Title,
		CategoryID: r.CategoryID,
		Time:       when,
		Place:      r.Place,
		ImageURL:   r.ImageURL,
		Approved:   r.Approved,
		Blocked:    r.Blocked,
		Ratings:    r.Ratings,
		OwnerID:    r.OwnerID,
	}
}

func eventRecordFrom(e events.Event) eventRecord {
	return eventRecord{
		ID:         e.ID,
		Title:      e.Title,
		CategoryID: e.CategoryID,
		Time:       e.Time.UTC().Format(time.RFC3339),
		Place:      e.Place,
		ImageURL:   e.ImageURL,
		Approved:   e.Approved,
		Blocked:    e.Blocked,
		Ratings:    e.Ratings,
		OwnerID:    e.OwnerID,
	}
}

type eventRepository struct {
	col *collection[eventRecord]
}

func (s *Store) Events() events.Repository {
	return &eventRepository{col: s.events}
}

func (r *eventRepository) List(ctx context.Context) ([]events.Event, error) {
	var result []events.Event
	err := r.col.view(func(items []eventRecord) error {
		result = make([]events.Event, 0, len(items))
		for _, item := range items {
			result = append(result, item.toDomain())
		}
		return nil
	})
	return result, err
}

func (r *eventRepository) Get(ctx context.Context, id int) (*events.Event, error) {
	var found *events.Event
	err := r.col.view(func(items []eventRecord) error {
		for _, item := range items {
			if item.ID == id {
				event := item.toDomain()
				found = &event
				return nil
			}
		}
		return events.ErrNotFound
	})
	return found, err
}

func (r *eventRepository) Insert(ctx context.Context, event events.Event) (*events.Event, error) {
	var created events.Event
	err := r.col.update(func(items []eventRecord) ([]eventRecord, error) {
		next := 1
		for _, item := range items {
			if item.ID >= next {
				next = item.ID + 1
			}
		}
		event.ID = next
		created = event
		return append(items, eventRecordFrom(event)), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *eventRepository) Update(ctx context.Context, event events.Event) error {
	return r.col.update(func(items []eventRecord) ([]eventRecord, error) {
		for i, item := range items {
			if item.ID == event.ID {
				items[i] = eventRecordFrom(event)
				return items, nil
			}
		}
		return nil, events.ErrNotFound
	})
}

func (r *eventRepository) Delete(ctx context.Context, id int) error {
	return r.col.update(func(items []eventRecord) ([]eventRecord, error) {
		remaining := make([]eventRecord, 0, len(items))
		found := false
		for _, item := range items {
			if item.ID == id {
				found = true
				continue
			}
			remaining = append(remaining, item)
		}
		if !found {
			return nil, events.ErrNotFound
		}
		return remaining, nil
	})
}
