package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ohalko/inventory-api/internal/model"
)

var (
	// ErrNotFound is returned when no record exists for the given identifier.
	ErrNotFound = errors.New("record not found")
)

// ProductStore manages persisted product records.
type ProductStore interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, update model.ProductUpdate) (*model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	// List returns up to query.Limit products matching the query filter,
	// ordered per the query sort, starting at the given offset.
	List(ctx context.Context, query ProductQuery, offset int) ([]*model.Product, error)
	// Count returns the number of products matching the query filter,
	// ignoring pagination.
	Count(ctx context.Context, query ProductQuery) (int, error)
}

// EventStore manages outbox event rows for product-change messages.
type EventStore interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	ListPending(ctx context.Context, limit int) ([]*model.Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus) error
}

// ProductPage is one bounded page of a product listing plus the pagination
// metadata for the full matching set.
type ProductPage struct {
	Products   []*model.Product
	Page       int
	Limit      int
	TotalPages int
	TotalItems int
}
