package controller

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ohalko/inventory-api/internal/model"
	"github.com/ohalko/inventory-api/internal/repository"
	"github.com/ohalko/inventory-api/internal/service"
)

// maxUploadSize caps uploaded image files at 5MB.
const maxUploadSize = 5 << 20

// ProductService defines the product use-cases the controller exposes.
type ProductService interface {
	CreateProduct(ctx context.Context, input service.CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, update model.ProductUpdate, image *service.ImageUpload) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, query repository.ProductQuery) (*repository.ProductPage, error)
}

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	productService ProductService
}

// NewProductController creates a new ProductController with the given product service.
func NewProductController(productService ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ProductResponse represents the response body for a product.
type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ListProducts handles the HTTP GET request for the filtered, sorted,
// paginated product listing.
func (pc *ProductController) ListProducts(c *gin.Context) {
	query := repository.ParseProductQuery(
		c.Query("search"),
		c.Query("categories"),
		c.Query("sort"),
		c.Query("order"),
		intQuery(c, "page"),
		intQuery(c, "limit"),
	)

	page, err := pc.productService.ListProducts(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err, "Failed to list products")
		return
	}

	products := make([]ProductResponse, 0, len(page.Products))
	for _, product := range page.Products {
		products = append(products, toProductResponse(product))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"page":       page.Page,
		"limit":      page.Limit,
		"totalPages": page.TotalPages,
		"totalItems": page.TotalItems,
		"products":   products,
	})
}

// GetProduct handles the HTTP GET request for a single product by ID.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}

	product, err := pc.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": toProductResponse(product),
	})
}

// CreateProduct handles the HTTP POST request for creating a new product.
// The request is multipart: text fields plus a mandatory image file.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	name := c.PostForm("name")
	description := c.PostForm("description")
	category := c.PostForm("category")
	priceRaw := c.PostForm("price")
	if name == "" || description == "" || category == "" || priceRaw == "" {
		respondError(c, http.StatusBadRequest, "All fields are required")
		return
	}

	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil || price < 0 {
		respondError(c, http.StatusBadRequest, "Price must be a non-negative number")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Image is required")
		return
	}

	image, ok := readImageFile(c, fileHeader)
	if !ok {
		return
	}

	product, err := pc.productService.CreateProduct(c.Request.Context(), service.CreateProductInput{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Image:       *image,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Product created",
		"product": toProductResponse(product),
	})
}

// UpdateProduct handles the HTTP PUT request for partially overwriting a
// product. Supplied fields replace stored values; an omitted image keeps the
// existing one.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}

	var update model.ProductUpdate
	if name, ok := c.GetPostForm("name"); ok {
		update.Name = &name
	}
	if description, ok := c.GetPostForm("description"); ok {
		update.Description = &description
	}
	if category, ok := c.GetPostForm("category"); ok {
		update.Category = &category
	}
	if priceRaw, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(priceRaw, 64)
		if err != nil || price < 0 {
			respondError(c, http.StatusBadRequest, "Price must be a non-negative number")
			return
		}
		update.Price = &price
	}

	var image *service.ImageUpload
	if fileHeader, err := c.FormFile("image"); err == nil {
		upload, ok := readImageFile(c, fileHeader)
		if !ok {
			return
		}
		image = upload
	}

	product, err := pc.productService.UpdateProduct(c.Request.Context(), id, update, image)
	if err != nil {
		respondServiceError(c, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product updated",
		"product": toProductResponse(product),
	})
}

// DeleteProduct handles the HTTP DELETE request for deleting a product by ID.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}

	if err := pc.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted",
	})
}

// readImageFile enforces the upload constraints (size cap, image content
// type) and reads the file into memory. It writes the error response itself
// and reports success through the bool.
func readImageFile(c *gin.Context, fileHeader *multipart.FileHeader) (*service.ImageUpload, bool) {
	if fileHeader.Size > maxUploadSize {
		respondError(c, http.StatusBadRequest, "Image must be smaller than 5MB")
		return nil, false
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "Only image files are allowed")
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read image")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read image")
		return nil, false
	}

	return &service.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	}, true
}

func intQuery(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}

func toProductResponse(product *model.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID.String(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Image:       product.Image,
		CreatedAt:   product.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   product.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
