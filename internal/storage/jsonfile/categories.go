package jsonfile

import (
	"context"

	"github.com/eventboard/server/internal/domain/categories"
)

type categoryRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type categoryRepository struct {
	col *collection[categoryRecord]
}

func (s *Store) Categories() categories.Repository {
	return &categoryRepository{col: s.categories}
}

func (r *categoryRepository) List(ctx context.Context) ([]categories.Category, error) {
	var result []categories.Category
	err := r.col.view(func(items []categoryRecord) error {
		result = make([]categories.Category, 0, len(items))
		for _, item := range items {
			result = append(result, categories.Category{ID: item.ID, Name: item.Name})
		}
		return nil
	})
	return result, err
}

func (r *categoryRepository) Get(ctx context.Context, id int) (*categories.Category, error) {
	var found *categories.Category
	err := r.col.view(func(items []categoryRecord) error {
		for _, item := range items {
			if item.ID == id {
				found = &categories.Category{ID: item.ID, Name: item.Name}
				return nil
			}
		}
		return categories.ErrNotFound
	})
	return found, err
}

func (r *categoryRepository) Insert(ctx context.Context, category categories.Category) (*categories.Category, error) {
	var created categories.Category
	err := r.col.update(func(items []categoryRecord) ([]categoryRecord, error) {
		next := 1
		for _, item := range items {
			if item.ID >= next {
				next = item.ID + 1
			}
		}
		category.ID = next
		created = category
		return append(items, categoryRecord{ID: category.ID, Name: category.Name}), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int) error {
	return r.col.update(func(items []categoryRecord) ([]categoryRecord, error) {
		remaining := make([]categoryRecord, 0, len(items))
		found := false
		for _, item := range items {
			if item.ID == id {
				found = true
				continue
			}
			remaining = append(remaining, item)
		}
		if !found {
			return nil, categories.ErrNotFound
		}
		return remaining, nil
	})
}
