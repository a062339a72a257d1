package categories

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("category not found")

// Category is a flat named grouping referenced by events via categoryId.
// Deleting a category leaves referencing events untouched; a dangling
// reference is tolerated.
type Category struct {
	ID   int
	Name string
}

type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int) (*Category, error)
	Insert(ctx context.Context, category Category) (*Category, error)
	Delete(ctx context.Context, id int) error
}
