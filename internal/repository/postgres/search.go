package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/JoshMith/Techwave-Backend/internal/domain"
	"github.com/JoshMith/Techwave-Backend/pkg/database"
)

// searchDocument is the weighted full-text document for a product row: title
// weighs highest, then description, then the serialized attribute bag.
const searchDocument = `setweight(to_tsvector('english', coalesce(p.title, '')), 'A') || ` +
	`setweight(to_tsvector('english', coalesce(p.description, '')), 'B') || ` +
	`setweight(to_tsvector('english', coalesce(p.attributes::text, '')), 'C')`

// effectivePrice is the sale price when set, otherwise the list price.
const effectivePrice = `COALESCE(p.sale_price, p.price)`

const searchColumns = `p.id, p.title, p.description, p.price, p.sale_price, p.stock,
		p.attributes, p.rating, p.review_count, p.category_id, c.name AS category_name,
		p.seller_id, p.created_at, p.updated_at`

const (
	suggestProductLimit  = 8
	suggestCategoryLimit = 3
)

// SearchRepository serves search and autocomplete reads from PostgreSQL.
type SearchRepository struct {
	db database.DBTX
}

// NewSearchRepository creates a PostgreSQL-backed search repository.
func NewSearchRepository(db database.DBTX) *SearchRepository {
	return &SearchRepository{db: db}
}

// composePredicates turns normalized criteria into the filter predicate set.
// Every value binds as a parameter, including the text query in both of its
// occurrences.
func composePredicates(c domain.SearchCriteria) *PredicateSet {
	set := &PredicateSet{}

	if c.HasQuery() {
		// Relevance match OR literal title substring. The substring arm
		// keeps exact title hits that rank below the relevance threshold
		// from dropping out of the result set.
		set.Add("("+searchDocument+" @@ plainto_tsquery('english', ?) OR p.title ILIKE ?)",
			c.Query, "%"+c.Query+"%")
	}
	if c.Category != nil {
		// Substring on purpose: "Phone" should match both "Phones" and
		// "Smartphones".
		set.Add("c.name ILIKE ?", "%"+*c.Category+"%")
	}
	if c.MinPrice != nil {
		set.Add(effectivePrice+" >= ?", *c.MinPrice)
	}
	if c.MaxPrice != nil {
		set.Add(effectivePrice+" <= ?", *c.MaxPrice)
	}
	if c.Brand != nil {
		set.Add("p.attributes->>'brand' ILIKE ?", "%"+*c.Brand+"%")
	}

	return set
}

// orderClause picks the ordering strategy. Relevance ordering applies only
// when a text filter is present and the caller did not request an explicit
// sort; every ordering ends with p.id so identical criteria always return
// identical row order.
func orderClause(c domain.SearchCriteria) (string, []any) {
	if c.HasQuery() && c.Sort == domain.SortRelevance {
		return "ts_rank(" + searchDocument + ", plainto_tsquery('english', ?)) DESC, p.review_count DESC, p.id",
			[]any{c.Query}
	}

	switch c.Sort {
	case domain.SortPriceLow:
		return effectivePrice + " ASC, p.id", nil
	case domain.SortPriceHigh:
		return effectivePrice + " DESC, p.id", nil
	case domain.SortRating:
		return "p.rating DESC, p.review_count DESC, p.id", nil
	case domain.SortPopularity:
		return "p.review_count DESC, p.rating DESC, p.id", nil
	default:
		return "p.created_at DESC, p.id", nil
	}
}

// buildSearchQueries assembles the page and count statements from one shared
// predicate set, so both reads always reflect the same filter snapshot. The
// count statement is the page statement minus ordering and pagination.
func buildSearchQueries(c domain.SearchCriteria) (pageSQL string, pageArgs []any, countSQL string, countArgs []any) {
	set := composePredicates(c)
	where := set.WhereClause()
	order, orderArgs := orderClause(c)

	pageSQL = fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		%s
		ORDER BY %s
		LIMIT ? OFFSET ?`,
		searchColumns, where, order,
	)
	pageArgs = append(append(set.Args(), orderArgs...), c.Limit, c.Offset())
	pageSQL = bindPlaceholders(pageSQL)

	countSQL = fmt.Sprintf(`
		SELECT count(*)
		FROM products p
		JOIN categories c ON c.id = p.category_id
		%s`,
		where,
	)
	countArgs = set.Args()
	countSQL = bindPlaceholders(countSQL)

	return pageSQL, pageArgs, countSQL, countArgs
}

// Search runs the page and count reads concurrently and joins them. Either
// failure aborts the whole operation; there is no partial result.
func (r *SearchRepository) Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Product, int, error) {
	pageSQL, pageArgs, countSQL, countArgs := buildSearchQueries(criteria)

	var (
		products []domain.Product
		total    int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		qctx, end := database.TraceQuery(gctx, "SearchPage", pageSQL)
		defer func() { end(err) }()

		rows, err := r.db.Query(qctx, pageSQL, pageArgs...)
		if err != nil {
			return fmt.Errorf("search products: %w", err)
		}
		defer rows.Close()

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
				&p.CategoryName,
				&p.SellerID,
				&p.CreatedAt,
				&p.UpdatedAt,
			); err != nil {
				return fmt.Errorf("scan search row: %w", err)
			}
			if attrJSON != nil {
				if err := json.Unmarshal(attrJSON, &p.Attributes); err != nil {
					return fmt.Errorf("unmarshal attributes: %w", err)
				}
			}
			products = append(products, p)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate search rows: %w", err)
		}
		return nil
	})

	g.Go(func() (err error) {
		qctx, end := database.TraceQuery(gctx, "SearchCount", countSQL)
		defer func() { end(err) }()

		if err := r.db.QueryRow(qctx, countSQL, countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("count search matches: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, total, nil
}

// Suggest runs the product and category autocomplete lookups concurrently.
// Minimum-length gating happens in the service layer; by the time this runs
// the fragment is known to be worth a store round trip.
func (r *SearchRepository) Suggest(ctx context.Context, fragment string) (*domain.Suggestions, error) {
	pattern := "%" + fragment + "%"

	suggestions := &domain.Suggestions{
		Products:   []domain.ProductSuggestion{},
		Categories: []domain.CategorySuggestion{},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		query := fmt.Sprintf(`
			SELECT p.id, p.title, p.review_count, c.name,
				COALESCE(p.attributes->>'brand', '') AS brand,
				%s AS price
			FROM products p
			JOIN categories c ON c.id = p.category_id
			WHERE p.title ILIKE $1 OR p.attributes->>'brand' ILIKE $1
			ORDER BY p.review_count DESC
			LIMIT %d`,
			effectivePrice, suggestProductLimit,
		)

		qctx, end := database.TraceQuery(gctx, "SuggestProducts", query)
		defer func() { end(err) }()

		rows, err := r.db.Query(qctx, query, pattern)
		if err != nil {
			return fmt.Errorf("suggest products: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var s domain.ProductSuggestion
			if err := rows.Scan(&s.ID, &s.Title, &s.ReviewCount, &s.CategoryName, &s.Brand, &s.Price); err != nil {
				return fmt.Errorf("scan product suggestion: %w", err)
			}
			suggestions.Products = append(suggestions.Products, s)
		}
		return rows.Err()
	})

	g.Go(func() (err error) {
		query := fmt.Sprintf(`
			SELECT c.name, count(*) AS product_count
			FROM products p
			JOIN categories c ON c.id = p.category_id
			WHERE c.name ILIKE $1
			GROUP BY c.name
			ORDER BY product_count DESC
			LIMIT %d`,
			suggestCategoryLimit,
		)

		qctx, end := database.TraceQuery(gctx, "SuggestCategories", query)
		defer func() { end(err) }()

		rows, err := r.db.Query(qctx, query, pattern)
		if err != nil {
			return fmt.Errorf("suggest categories: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var s domain.CategorySuggestion
			if err := rows.Scan(&s.CategoryName, &s.Count); err != nil {
				return fmt.Errorf("scan category suggestion: %w", err)
			}
			suggestions.Categories = append(suggestions.Categories, s)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return suggestions, nil
}
