package service

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/ohalko/inventory-api/internal/metrics"
	"github.com/ohalko/inventory-api/internal/model"
	"github.com/ohalko/inventory-api/internal/repository"
	reposql "github.com/ohalko/inventory-api/internal/repository/sql"
	"github.com/ohalko/inventory-api/internal/sqs"
	"github.com/ohalko/inventory-api/internal/storage"
)

// TransactionalStore writes a product mutation and its outbox event atomically.
type TransactionalStore interface {
	CreateProductWithEvent(ctx context.Context, product *model.Product, event *model.Event) (*model.Product, error)
	UpdateProductWithEvent(ctx context.Context, id uuid.UUID, update model.ProductUpdate, makeEvent func(*model.Product) (*model.Event, error)) (*model.Product, error)
	DeleteProductWithEvent(ctx context.Context, id uuid.UUID, event *model.Event) error
}

// ImageUpload is an uploaded image held in memory. The HTTP layer caps its
// size before it gets here.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateProductInput carries the fields of a product creation request.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Image       ImageUpload
}

// ProductService implements the product use-cases on top of the stores,
// the image uploader and the outbox.
type ProductService struct {
	store    repository.ProductStore
	txnStore TransactionalStore
	uploader storage.Uploader
}

// NewProductService creates a ProductService.
func NewProductService(store repository.ProductStore, txnStore TransactionalStore, uploader storage.Uploader) *ProductService {
	return &ProductService{
		store:    store,
		txnStore: txnStore,
		uploader: uploader,
	}
}

// CreateProduct uploads the image, then writes the product record and its
// outbox event in one transaction.
func (ps *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*model.Product, error) {
	product := &model.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
	}
	product.InitMeta()

	imageURL, err := ps.uploadImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}
	product.Image = imageURL

	if err := product.Validate(); err != nil {
		return nil, err
	}

	event, err := reposql.NewEvent(model.EventTypeProductCreated, productMessage("created", product))
	if err != nil {
		return nil, err
	}

	created, err := ps.txnStore.CreateProductWithEvent(ctx, product, event)
	if err != nil {
		return nil, err
	}

	metrics.ProductsCreated.Inc()
	return created, nil
}

// UpdateProduct applies a partial overwrite. When an image is supplied it is
// uploaded first and replaces the stored URL; otherwise the existing image is
// kept. The update and its outbox event commit together.
func (ps *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, update model.ProductUpdate, image *ImageUpload) (*model.Product, error) {
	if image != nil {
		imageURL, err := ps.uploadImage(ctx, *image)
		if err != nil {
			return nil, err
		}
		update.Image = &imageURL
	}

	if err := update.Validate(); err != nil {
		return nil, err
	}

	updated, err := ps.txnStore.UpdateProductWithEvent(ctx, id, update, func(p *model.Product) (*model.Event, error) {
		return reposql.NewEvent(model.EventTypeProductUpdated, productMessage("updated", p))
	})
	if err != nil {
		return nil, err
	}

	metrics.ProductsUpdated.Inc()
	return updated, nil
}

// DeleteProduct removes the product and records a deletion event in one
// transaction. Deletion is immediate and irreversible.
func (ps *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	// Find the product first to get its details for the message
	product, err := ps.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	event, err := reposql.NewEvent(model.EventTypeProductDeleted, productMessage("deleted", product))
	if err != nil {
		return err
	}

	if err := ps.txnStore.DeleteProductWithEvent(ctx, product.ID, event); err != nil {
		return err
	}

	metrics.ProductsDeleted.Inc()
	return nil
}

// GetProduct retrieves a single product by ID.
func (ps *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return ps.store.FindByID(ctx, id)
}

// ListProducts serves one page of the filtered, sorted product listing along
// with pagination metadata for the full matching set. The requested page is
// clamped into [1, totalPages]; an empty result still reports one page.
func (ps *ProductService) ListProducts(ctx context.Context, query repository.ProductQuery) (*repository.ProductPage, error) {
	totalItems, err := ps.store.Count(ctx, query)
	if err != nil {
		return nil, err
	}

	info := repository.PaginationFor(totalItems, query.Page, query.Limit)

	products, err := ps.store.List(ctx, query, info.Offset)
	if err != nil {
		return nil, err
	}

	return &repository.ProductPage{
		Products:   products,
		Page:       info.Page,
		Limit:      query.Limit,
		TotalPages: info.TotalPages,
		TotalItems: info.TotalItems,
	}, nil
}

func (ps *ProductService) uploadImage(ctx context.Context, image ImageUpload) (string, error) {
	key := fmt.Sprintf("products/%s%s", uuid.New(), path.Ext(image.Filename))
	return ps.uploader.Upload(ctx, key, image.ContentType, image.Data)
}

func productMessage(action string, product *model.Product) sqs.ProductMessage {
	return sqs.ProductMessage{
		Action:    action,
		ProductID: product.ID.String(),
		Name:      product.Name,
		Price:     product.Price,
		Category:  product.Category,
	}
}
