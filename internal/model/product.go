package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidProduct is returned when a product is missing required fields.
var ErrInvalidProduct = errors.New("invalid product")

// Product represents a catalog item managed by the inventory admin.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       float64
	Category    string
	Image       string
	UpdatedAt   time.Time
	CreatedAt   time.Time
}

// InitMeta initializes the product metadata including ID and timestamps.
func (p *Product) InitMeta() {
	p.ID = uuid.New()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
}

// Validate checks the persistence invariants: non-empty name, description,
// category and image, and a non-negative price.
func (p *Product) Validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case p.Description == "":
		return fmt.Errorf("%w: description is required", ErrInvalidProduct)
	case p.Category == "":
		return fmt.Errorf("%w: category is required", ErrInvalidProduct)
	case p.Image == "":
		return fmt.Errorf("%w: image is required", ErrInvalidProduct)
	case p.Price < 0:
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidProduct)
	}
	return nil
}

// ProductUpdate carries a partial product overwrite. Nil fields keep the
// stored value.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Image       *string
}

// Empty reports whether the update changes nothing.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.Category == nil && u.Image == nil
}

// Validate rejects updates that would break the persistence invariants.
func (u ProductUpdate) Validate() error {
	if u.Name != nil && *u.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidProduct)
	}
	if u.Description != nil && *u.Description == "" {
		return fmt.Errorf("%w: description cannot be empty", ErrInvalidProduct)
	}
	if u.Category != nil && *u.Category == "" {
		return fmt.Errorf("%w: category cannot be empty", ErrInvalidProduct)
	}
	if u.Image != nil && *u.Image == "" {
		return fmt.Errorf("%w: image cannot be empty", ErrInvalidProduct)
	}
	if u.Price != nil && *u.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidProduct)
	}
	return nil
}
