package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ohalko/inventory-api/internal/model"
	"github.com/ohalko/inventory-api/internal/repository"
)

const productColumns = "id, name, description, price, category, image, created_at, updated_at"

// ProductRepository implements repository.ProductStore on PostgreSQL.
type ProductRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *ProductRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}

	// Only initialize metadata if not already set
	if product.ID == uuid.Nil {
		product.InitMeta()
	}

	query := `INSERT INTO products (id, name, description, price, category, image, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, product.ID, product.Name, product.Description, product.Price,
		product.Category, product.Image, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return product, nil
}

// Update overwrites the supplied fields of an existing product and returns
// the updated record. Fields left nil in the update keep their stored value.
func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, update model.ProductUpdate) (*model.Product, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	if update.Empty() {
		return r.FindByID(ctx, id)
	}

	var sets []string
	var args []interface{}
	argIndex := 1

	appendSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if update.Name != nil {
		appendSet("name", *update.Name)
	}
	if update.Description != nil {
		appendSet("description", *update.Description)
	}
	if update.Price != nil {
		appendSet("price", *update.Price)
	}
	if update.Category != nil {
		appendSet("category", *update.Category)
	}
	if update.Image != nil {
		appendSet("image", *update.Image)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), argIndex, productColumns)
	args = append(args, id)

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	var result model.Product
	err = scanProduct(stmt.QueryRowContext(ctx, args...), &result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &result, nil
}

// FindByID retrieves a single product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var result model.Product
	err = scanProduct(stmt.QueryRowContext(ctx, id), &result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &result, nil
}

// DeleteByID deletes a product by ID.
func (r *ProductRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List retrieves one page of products matching the query filter.
func (r *ProductRepository) List(ctx context.Context, query repository.ProductQuery, offset int) ([]*model.Product, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("SELECT %s FROM products", productColumns))

	args, argIndex := appendFilter(&queryBuilder, query)

	queryBuilder.WriteString(orderByClause(query))

	limit := query.Limit
	if limit <= 0 {
		limit = repository.DefaultPageSize
	}
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1))
	args = append(args, limit, offset)

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, queryBuilder.String())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		var product model.Product
		err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price,
			&product.Category, &product.Image, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

// Count returns the number of products matching the query filter.
func (r *ProductRepository) Count(ctx context.Context, query repository.ProductQuery) (int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT COUNT(*) FROM products")

	args, _ := appendFilter(&queryBuilder, query)

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, queryBuilder.String())
	if err != nil {
		return 0, fmt.Errorf("failed to prepare count statement: %w", err)
	}
	defer stmt.Close()

	var count int
	if err := stmt.QueryRowContext(ctx, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// appendFilter writes the WHERE clause for the query's search and category
// filters and returns the bound args plus the next free placeholder index.
func appendFilter(queryBuilder *strings.Builder, query repository.ProductQuery) ([]interface{}, int) {
	queryBuilder.WriteString(" WHERE 1=1")

	var args []interface{}
	argIndex := 1

	if query.Search != "" {
		pattern := "%" + escapeLikePattern(query.Search) + "%"
		queryBuilder.WriteString(fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex+1))
		args = append(args, pattern, pattern)
		argIndex += 2
	}

	if len(query.Categories) > 0 {
		placeholders := make([]string, len(query.Categories))
		for i, category := range query.Categories {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, category)
			argIndex++
		}
		queryBuilder.WriteString(fmt.Sprintf(" AND category IN (%s)", strings.Join(placeholders, ", ")))
	}

	return args, argIndex
}

// orderByClause builds the ORDER BY for the query. The id tiebreaker keeps
// the order total so pages never overlap and ties keep insertion order.
func orderByClause(query repository.ProductQuery) string {
	if query.Sort == "" {
		return " ORDER BY created_at ASC, id ASC"
	}
	direction := "ASC"
	if query.Descending {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", query.Sort, direction)
}

// escapeLikePattern neutralizes LIKE metacharacters in a user search term.
func escapeLikePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

func scanProduct(row *sql.Row, product *model.Product) error {
	return row.Scan(&product.ID, &product.Name, &product.Description, &product.Price,
		&product.Category, &product.Image, &product.CreatedAt, &product.UpdatedAt)
}
