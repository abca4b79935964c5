package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoshMith/Techwave-Backend/internal/domain"
)

func TestPredicateSet_Empty(t *testing.T) {
	set := &PredicateSet{}
	assert.True(t, set.Empty())
	assert.Equal(t, "", set.WhereClause())
	assert.Nil(t, set.Args())
}

func TestPredicateSet_OrderPreserved(t *testing.T) {
	set := &PredicateSet{}
	set.Add("a = ?", 1)
	set.Add("b ILIKE ?", "%x%")
	set.Add("c BETWEEN ? AND ?", 2, 3)

	assert.Equal(t, "WHERE a = ? AND b ILIKE ? AND c BETWEEN ? AND ?", set.WhereClause())
	assert.Equal(t, []any{1, "%x%", 2, 3}, set.Args())
}

func TestBindPlaceholders(t *testing.T) {
	sql := "SELECT * FROM t WHERE a = ? AND b IN (?, ?) LIMIT ? OFFSET ?"
	assert.Equal(t,
		"SELECT * FROM t WHERE a = $1 AND b IN ($2, $3) LIMIT $4 OFFSET $5",
		bindPlaceholders(sql),
	)

	// No placeholders leaves the statement untouched.
	assert.Equal(t, "SELECT 1", bindPlaceholders("SELECT 1"))
}

func float64Ptr(f float64) *float64 { return &f }
func strPtr(s string) *string       { return &s }

func TestComposePredicates_EmptyCriteria(t *testing.T) {
	set := composePredicates(domain.SearchCriteria{})
	assert.True(t, set.Empty())
}

func TestComposePredicates_TextBindsTwice(t *testing.T) {
	set := composePredicates(domain.SearchCriteria{Query: "iphone"})

	// The query text binds as a parameter in both the relevance arm and
	// the substring arm; it never appears in the SQL fragment itself.
	args := set.Args()
	require.Len(t, args, 2)
	assert.Equal(t, "iphone", args[0])
	assert.Equal(t, "%iphone%", args[1])
	assert.NotContains(t, set.WhereClause(), "iphone")
}

func TestComposePredicates_SubsetIndependence(t *testing.T) {
	base := domain.SearchCriteria{
		Query:    "tv",
		Category: strPtr("Electronics"),
		Brand:    strPtr("Samsung"),
	}
	withPrice := base
	withPrice.MinPrice = float64Ptr(100)
	withPrice.MaxPrice = float64Ptr(900)

	baseSet := composePredicates(base)
	priceSet := composePredicates(withPrice)

	// Adding price predicates appends to the set; the existing fragments
	// and their argument order are untouched.
	baseArgs := baseSet.Args()
	priceArgs := priceSet.Args()
	require.Greater(t, len(priceArgs), len(baseArgs))
	// text(2) + category + minPrice + maxPrice + brand
	assert.Equal(t, []any{"tv", "%tv%", "%Electronics%", 100.0, 900.0, "%Samsung%"}, priceArgs)
	assert.Equal(t, []any{"tv", "%tv%", "%Electronics%", "%Samsung%"}, baseArgs)
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name     string
		criteria domain.SearchCriteria
		want     string
		wantArgs int
	}{
		{
			name:     "relevance when text present and sort default",
			criteria: domain.SearchCriteria{Query: "iphone", Sort: domain.SortRelevance},
			want:     "ts_rank",
			wantArgs: 1,
		},
		{
			name:     "explicit sort overrides relevance even with text",
			criteria: domain.SearchCriteria{Query: "iphone", Sort: domain.SortPriceLow},
			want:     "COALESCE(p.sale_price, p.price) ASC",
			wantArgs: 0,
		},
		{
			name:     "price high",
			criteria: domain.SearchCriteria{Sort: domain.SortPriceHigh},
			want:     "COALESCE(p.sale_price, p.price) DESC",
			wantArgs: 0,
		},
		{
			name:     "rating",
			criteria: domain.SearchCriteria{Sort: domain.SortRating},
			want:     "p.rating DESC, p.review_count DESC",
			wantArgs: 0,
		},
		{
			name:     "popularity",
			criteria: domain.SearchCriteria{Sort: domain.SortPopularity},
			want:     "p.review_count DESC, p.rating DESC",
			wantArgs: 0,
		},
		{
			name:     "newest",
			criteria: domain.SearchCriteria{Sort: domain.SortNewest},
			want:     "p.created_at DESC",
			wantArgs: 0,
		},
		{
			name:     "relevance sort without text degrades to newest",
			criteria: domain.SearchCriteria{Sort: domain.SortRelevance},
			want:     "p.created_at DESC",
			wantArgs: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, args := orderClause(tt.criteria)
			assert.Contains(t, order, tt.want)
			assert.Len(t, args, tt.wantArgs)
			// Stable tie-break keeps identical criteria returning
			// identical row order.
			assert.Contains(t, order, "p.id")
		})
	}
}

func TestBuildSearchQueries_SharedPredicateSnapshot(t *testing.T) {
	criteria := domain.SearchCriteria{
		Query:    "laptop",
		Category: strPtr("Computers"),
		MinPrice: float64Ptr(500),
		Sort:     domain.SortRelevance,
		Page:     2,
		Limit:    12,
	}

	pageSQL, pageArgs, countSQL, countArgs := buildSearchQueries(criteria)

	// The count query carries exactly the predicate args; the page query
	// adds the relevance ordering arg plus LIMIT and OFFSET.
	assert.Equal(t, []any{"laptop", "%laptop%", "%Computers%", 500.0}, countArgs)
	assert.Equal(t, []any{"laptop", "%laptop%", "%Computers%", 500.0, "laptop", 12, 12}, pageArgs)

	// Placeholders are fully renumbered; no `?` survives assembly.
	assert.NotContains(t, pageSQL, "?")
	assert.NotContains(t, countSQL, "?")
	assert.Contains(t, pageSQL, "$7")
	assert.Contains(t, countSQL, "$4")

	// The count statement has no ordering or pagination.
	assert.NotContains(t, countSQL, "ORDER BY")
	assert.NotContains(t, countSQL, "LIMIT")
}
