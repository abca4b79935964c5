package domain

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Sort modes accepted by the search endpoint.
const (
	SortRelevance  = "relevance"
	SortPriceLow   = "price-low"
	SortPriceHigh  = "price-high"
	SortRating     = "rating"
	SortNewest     = "newest"
	SortPopularity = "popularity"
)

// Pagination bounds.
const (
	DefaultPage     = 1
	DefaultPageSize = 12
	MaxPageSize     = 50
)

// IsValidSort reports whether sort is a recognized sort mode.
func IsValidSort(sort string) bool {
	switch sort {
	case SortRelevance, SortPriceLow, SortPriceHigh, SortRating, SortNewest, SortPopularity:
		return true
	}
	return false
}

// SearchCriteria is the normalized form of a search request. Optional filters
// are nil when absent; Query is "" when no text filter applies. Values are
// always in range after ParseSearchCriteria: Page >= 1 and
// 1 <= Limit <= MaxPageSize.
type SearchCriteria struct {
	Query    string
	Category *string
	Brand    *string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Page     int
	Limit    int
}

// ParseSearchCriteria normalizes raw query parameters into SearchCriteria.
// Malformed input never produces an error: non-numeric prices are dropped,
// out-of-range pagination is clamped to the nearest valid value, unrecognized
// sort modes fall back to newest, and the literal "all" means no filter.
func ParseSearchCriteria(values url.Values) SearchCriteria {
	c := SearchCriteria{
		Query: strings.TrimSpace(values.Get("q")),
		Sort:  SortRelevance,
		Page:  DefaultPage,
		Limit: DefaultPageSize,
	}

	c.Category = optionalFilter(values.Get("category"))
	c.Brand = optionalFilter(values.Get("brand"))
	c.MinPrice = optionalPrice(values.Get("minPrice"))
	c.MaxPrice = optionalPrice(values.Get("maxPrice"))

	if sort := values.Get("sort"); sort != "" {
		if IsValidSort(sort) {
			c.Sort = sort
		} else {
			c.Sort = SortNewest
		}
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 1 {
		c.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil {
		switch {
		case limit < 1:
			c.Limit = 1
		case limit > MaxPageSize:
			c.Limit = MaxPageSize
		default:
			c.Limit = limit
		}
	}

	return c
}

// optionalFilter treats "" and the literal "all" as absent.
func optionalFilter(raw string) *string {
	v := strings.TrimSpace(raw)
	if v == "" || strings.EqualFold(v, "all") {
		return nil
	}
	return &v
}

// optionalPrice treats absent or non-numeric values as no filter.
func optionalPrice(raw string) *float64 {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Normalize clamps a criteria value that was constructed directly (not via
// ParseSearchCriteria) back into range. It applies the same permissive policy:
// out-of-range pagination is clamped, an unrecognized sort falls back to
// newest, and "all" filters become absent.
func (c SearchCriteria) Normalize() SearchCriteria {
	c.Query = strings.TrimSpace(c.Query)
	if c.Category != nil {
		c.Category = optionalFilter(*c.Category)
	}
	if c.Brand != nil {
		c.Brand = optionalFilter(*c.Brand)
	}
	if !IsValidSort(c.Sort) {
		c.Sort = SortNewest
	}
	if c.Page < 1 {
		c.Page = DefaultPage
	}
	switch {
	case c.Limit < 1:
		c.Limit = DefaultPageSize
	case c.Limit > MaxPageSize:
		c.Limit = MaxPageSize
	}
	return c
}

// HasQuery reports whether a text filter is present.
func (c SearchCriteria) HasQuery() bool {
	return c.Query != ""
}

// Offset returns the row offset for the requested page.
func (c SearchCriteria) Offset() int {
	return (c.Page - 1) * c.Limit
}

// Filters is the echo of the applied filters in the search response. Absent
// filters serialize as null.
type Filters struct {
	Category *string  `json:"category"`
	Brand    *string  `json:"brand"`
	MinPrice *float64 `json:"minPrice"`
	MaxPrice *float64 `json:"maxPrice"`
	Sort     string   `json:"sort"`
}

// Filters returns the filter echo for this criteria.
func (c SearchCriteria) Filters() Filters {
	return Filters{
		Category: c.Category,
		Brand:    c.Brand,
		MinPrice: c.MinPrice,
		MaxPrice: c.MaxPrice,
		Sort:     c.Sort,
	}
}

// Pagination describes the position of a result page within the full match set.
type Pagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPagination computes pagination metadata for a total match count.
func NewPagination(total, page, limit int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// SearchResult is the assembled response for a search request.
type SearchResult struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
	Query      string     `json:"query"`
	Filters    Filters    `json:"filters"`
}

// ProductSuggestion is a lightweight autocomplete hit.
type ProductSuggestion struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	ReviewCount  int     `json:"review_count"`
	CategoryName string  `json:"category_name"`
	Brand        string  `json:"brand,omitempty"`
	Price        float64 `json:"price"`
}

// CategorySuggestion is a category name with its matching product count.
type CategorySuggestion struct {
	CategoryName string `json:"category_name"`
	Count        int    `json:"count"`
}

// Suggestions bundles both autocomplete result sets.
type Suggestions struct {
	Products   []ProductSuggestion  `json:"products"`
	Categories []CategorySuggestion `json:"categories"`
}
