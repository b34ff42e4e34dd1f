package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/ohalko/inventory-api/internal/model"
)

// TransactionalRepository writes product records and their outbox events in
// a single database transaction.
type TransactionalRepository struct {
	db *sql.DB
}

// NewTransactionalRepository creates a new TransactionalRepository
func NewTransactionalRepository(db *sql.DB) *TransactionalRepository {
	return &TransactionalRepository{db: db}
}

// CreateProductWithEvent creates a product and an event in a single transaction.
func (tr *TransactionalRepository) CreateProductWithEvent(ctx context.Context, product *model.Product, event *model.Event) (*model.Product, error) {
	tx, err := tr.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	productRepo := &ProductRepository{db: tr.db, txn: tx}
	eventRepo := &EventRepository{db: tr.db, txn: tx}

	createdProduct, err := productRepo.Create(ctx, product)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if _, err = eventRepo.Create(ctx, event); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return createdProduct, nil
}

// UpdateProductWithEvent overwrites a product and records an event built
// from the updated record, in a single transaction. makeEvent sees the
// post-update state so the event reflects what was actually stored.
func (tr *TransactionalRepository) UpdateProductWithEvent(ctx context.Context, id uuid.UUID, update model.ProductUpdate, makeEvent func(*model.Product) (*model.Event, error)) (*model.Product, error) {
	tx, err := tr.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	productRepo := &ProductRepository{db: tr.db, txn: tx}
	eventRepo := &EventRepository{db: tr.db, txn: tx}

	updatedProduct, err := productRepo.Update(ctx, id, update)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	event, err := makeEvent(updatedProduct)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to build event: %w", err)
	}

	if _, err = eventRepo.Create(ctx, event); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updatedProduct, nil
}

// DeleteProductWithEvent deletes a product and creates a deletion event in a single transaction.
func (tr *TransactionalRepository) DeleteProductWithEvent(ctx context.Context, id uuid.UUID, event *model.Event) error {
	tx, err := tr.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	productRepo := &ProductRepository{db: tr.db, txn: tx}
	eventRepo := &EventRepository{db: tr.db, txn: tx}

	if err := productRepo.DeleteByID(ctx, id); err != nil {
		tx.Rollback()
		return err
	}

	if _, err = eventRepo.Create(ctx, event); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
