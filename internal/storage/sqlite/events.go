package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/eventboard/server/internal/domain/events"
)

type eventRepository struct {
	db *sql.DB
}

func (s *Store) Events() events.Repository {
	return &eventRepository{db: s.db}
}

const eventColumns = `id, title, category_id, time, place, image_url, approved, blocked, ratings, owner_id`

func scanEvent(scan func(dest ...any) error) (events.Event, error) {
	var event events.Event
	var when string
	err := scan(&event.ID, &event.Title, &event.CategoryID, &when, &event.Place,
		&event.ImageURL, &event.Approved, &event.Blocked, &event.Ratings, &event.OwnerID)
	if err != nil {
		return events.Event{}, err
	}
	if parsed, err := time.Parse(time.RFC3339, when); err == nil {
		event.Time = parsed
	}
	return event, nil
}

func (r *eventRepository) List(ctx context.Context) ([]events.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]events.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func (r *eventRepository) Get(ctx context.Context, id int) (*events.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	event, err := scanEvent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, events.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Insert(ctx context.Context, event events.Event) (*events.Event, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM events`).Scan(&event.ID); err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO events(`+eventColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Title, event.CategoryID, event.Time.UTC().Format(time.RFC3339),
		event.Place, event.ImageURL, event.Approved, event.Blocked, event.Ratings, event.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Update(ctx context.Context, event events.Event) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE events SET title = ?, category_id = ?, time = ?, place = ?, image_url = ?,
			approved = ?, blocked = ?, ratings = ?, owner_id = ? WHERE id = ?`,
		event.Title, event.CategoryID, event.Time.UTC().Format(time.RFC3339), event.Place,
		event.ImageURL, event.Approved, event.Blocked, event.Ratings, event.OwnerID, event.ID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return events.ErrNotFound
	}
	return nil
}
