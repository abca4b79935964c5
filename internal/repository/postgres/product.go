package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JoshMith/Techwave-Backend/internal/domain"
	"github.com/JoshMith/Techwave-Backend/internal/repository"
	"github.com/JoshMith/Techwave-Backend/pkg/database"
	apperrors "github.com/JoshMith/Techwave-Backend/pkg/errors"
)

const productColumns = `id, title, description, price, sale_price, stock, attributes,
		rating, review_count, category_id, seller_id, created_at, updated_at`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	attrJSON, err := json.Marshal(p.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}

	query := `
		INSERT INTO products (id, title, description, price, sale_price, stock, attributes, rating, review_count, category_id, seller_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.db.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.Price,
		p.SalePrice,
		p.Stock,
		attrJSON,
		p.Rating,
		p.ReviewCount,
		p.CategoryID,
		p.SellerID,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "id", p.ID)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID, including its category name.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT ` + searchColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`

	var (
		p        domain.Product
		attrJSON []byte
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.SalePrice,
		&p.Stock,
		&attrJSON,
		&p.Rating,
		&p.ReviewCount,
		&p.CategoryID,
		&p.CategoryName,
		&p.SellerID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	if attrJSON != nil {
		if err := json.Unmarshal(attrJSON, &p.Attributes); err != nil {
			return nil, fmt.Errorf("unmarshal attributes: %w", err)
		}
	}

	return &p, nil
}

// List returns products matching the filter with the total count.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	set := &PredicateSet{}

	if filter.CategoryID != nil {
		set.Add("category_id = ?", *filter.CategoryID)
	}
	if filter.SellerID != nil {
		set.Add("seller_id = ?", *filter.SellerID)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultPageSize
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	// count(*) OVER() yields the unpaginated total in the same read.
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM products
		%s
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?`,
		productColumns, set.WhereClause(),
	)
	query = bindPlaceholders(query)
	args := append(set.Args(), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		var (
			p        domain.Product
			attrJSON []byte
		)
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.Price,
			&p.SalePrice,
			&p.Stock,
			&attrJSON,
			&p.Rating,
			&p.ReviewCount,
			&p.CategoryID,
			&p.SellerID,
			&p.CreatedAt,
			&p.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		if attrJSON != nil {
			if err := json.Unmarshal(attrJSON, &p.Attributes); err != nil {
				return nil, 0, fmt.Errorf("unmarshal attributes: %w", err)
			}
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}

// Update modifies an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	attrJSON, err := json.Marshal(p.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}

	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET title = $1, description = $2, price = $3, sale_price = $4, stock = $5,
		    attributes = $6, category_id = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.db.Exec(ctx, query,
		p.Title,
		p.Description,
		p.Price,
		p.SalePrice,
		p.Stock,
		attrJSON,
		p.CategoryID,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
