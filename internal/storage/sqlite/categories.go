package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eventboard/server/internal/domain/categories"
)

type categoryRepository struct {
	db *sql.DB
}

func (s *Store) Categories() categories.Repository {
	return &categoryRepository{db: s.db}
}

func (r *categoryRepository) List(ctx context.Context) ([]categories.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]categories.Category, 0)
	for rows.Next() {
		var category categories.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *categoryRepository) Get(ctx context.Context, id int) (*categories.Category, error) {
	var category categories.Category
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = ?`, id).
		Scan(&category.ID, &category.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, categories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Insert(ctx context.Context, category categories.Category) (*categories.Category, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM categories`).Scan(&category.ID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO categories(id, name) VALUES(?, ?)`, category.ID, category.Name); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return categories.ErrNotFound
	}
	return nil
}
