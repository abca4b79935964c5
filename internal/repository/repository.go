package repository

import (
	"context"

	"github.com/JoshMith/Techwave-Backend/internal/domain"
)

// SearchRepository serves the read-only search and autocomplete queries.
type SearchRepository interface {
	// Search returns one page of matching products together with the total
	// match count. Both reads run against the same composed predicate set.
	Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Product, int, error)

	// Suggest returns autocomplete products and categories for a text
	// fragment. The caller is responsible for minimum-length gating.
	Suggest(ctx context.Context, fragment string) (*domain.Suggestions, error)
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	CategoryID *string
	SellerID   *string
	Limit      int
	Offset     int
}

// ProductRepository provides catalog write and lookup operations.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository provides category lookups.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}
