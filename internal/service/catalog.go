package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JoshMith/Techwave-Backend/internal/domain"
	"github.com/JoshMith/Techwave-Backend/internal/event"
	"github.com/JoshMith/Techwave-Backend/internal/repository"
	apperrors "github.com/JoshMith/Techwave-Backend/pkg/errors"
	"github.com/JoshMith/Techwave-Backend/pkg/validator"
)

// CatalogService implements the write path and plain lookups for products and
// categories. Search reads live in SearchService.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	producer   *event.Producer
	logger     *slog.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		producer:   producer,
		logger:     logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Title       string         `validate:"required,min=2,max=200"`
	Description string         `validate:"max=5000"`
	Price       float64        `validate:"required,gte=0"`
	SalePrice   *float64       `validate:"omitempty,gte=0"`
	Stock       int            `validate:"gte=0"`
	Attributes  map[string]any `validate:"-"`
	CategoryID  string         `validate:"required,uuid"`
	SellerID    string         `validate:"required,uuid"`
}

// UpdateProductInput holds the parameters for updating a product. Nil fields
// are left unchanged.
type UpdateProductInput struct {
	Title       *string        `validate:"omitempty,min=2,max=200"`
	Description *string        `validate:"omitempty,max=5000"`
	Price       *float64       `validate:"omitempty,gte=0"`
	SalePrice   *float64       `validate:"omitempty,gte=0"`
	Stock       *int           `validate:"omitempty,gte=0"`
	Attributes  map[string]any `validate:"-"`
	CategoryID  *string        `validate:"omitempty,uuid"`
}

// CreateProduct validates the input, persists the product, and publishes a
// product.created event.
func (s *CatalogService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	if input.SalePrice != nil && *input.SalePrice > input.Price {
		return nil, apperrors.InvalidInput("sale price must not exceed list price")
	}

	// The category must exist before the product references it.
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		SalePrice:   input.SalePrice,
		Stock:       input.Stock,
		Attributes:  input.Attributes,
		CategoryID:  input.CategoryID,
		SellerID:    input.SellerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Attributes == nil {
		product.Attributes = make(map[string]any)
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("category_id", product.CategoryID),
	)

	return product, nil
}

// GetProduct retrieves a product by its ID.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// ListProducts returns products matching the filter with the total count.
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// UpdateProduct applies the non-nil input fields to an existing product and
// publishes a product.updated event.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.SalePrice != nil {
		product.SalePrice = input.SalePrice
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Attributes != nil {
		product.Attributes = input.Attributes
	}
	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, fmt.Errorf("check category: %w", err)
		}
		product.CategoryID = *input.CategoryID
	}

	if product.SalePrice != nil && *product.SalePrice > product.Price {
		return nil, apperrors.InvalidInput("sale price must not exceed list price")
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	return product, nil
}

// DeleteProduct removes a product and publishes a product.deleted event.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))

	return nil
}

// CreateCategoryInput holds the parameters for creating a category.
type CreateCategoryInput struct {
	Name        string `validate:"required,min=2,max=100"`
	Description string `validate:"max=1000"`
}

// CreateCategory validates the input and persists a new category.
func (s *CatalogService) CreateCategory(ctx context.Context, input *CreateCategoryInput) (*domain.Category, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", category.ID),
		slog.String("name", category.Name),
	)

	return category, nil
}

// GetCategory retrieves a category by its ID.
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
