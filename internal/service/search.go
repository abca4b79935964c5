package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"

	"github.com/JoshMith/Techwave-Backend/internal/domain"
	"github.com/JoshMith/Techwave-Backend/internal/repository"
)

// MinSuggestLength is the minimum trimmed fragment length before the store is
// consulted. Shorter fragments would degenerate into near-full-table wildcard
// scans for almost no signal.
const MinSuggestLength = 2

// suggestCacheTTL bounds staleness of cached autocomplete results.
const suggestCacheTTL = 5 * time.Minute

// SearchService runs the search and autocomplete pipeline: normalized
// criteria in, assembled results out.
type SearchService struct {
	repo   repository.SearchRepository
	cache  *redis.Client
	logger *slog.Logger
}

// NewSearchService creates a search service. cache may be nil, in which case
// suggestions always go to the store.
func NewSearchService(repo repository.SearchRepository, cache *redis.Client, logger *slog.Logger) *SearchService {
	return &SearchService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Search normalizes the criteria, runs the coupled page and count reads, and
// assembles the result with pagination metadata. Zero matches is a normal
// empty result, not an error.
func (s *SearchService) Search(ctx context.Context, criteria domain.SearchCriteria) (*domain.SearchResult, error) {
	criteria = criteria.Normalize()

	products, total, err := s.repo.Search(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	return &domain.SearchResult{
		Products:   products,
		Pagination: domain.NewPagination(total, criteria.Page, criteria.Limit),
		Query:      criteria.Query,
		Filters:    criteria.Filters(),
	}, nil
}

// Suggest returns autocomplete suggestions for a text fragment. Fragments
// shorter than two characters return empty sets without touching the store.
func (s *SearchService) Suggest(ctx context.Context, fragment string) (*domain.Suggestions, error) {
	fragment = strings.TrimSpace(fragment)
	if utf8.RuneCountInString(fragment) < MinSuggestLength {
		return &domain.Suggestions{
			Products:   []domain.ProductSuggestion{},
			Categories: []domain.CategorySuggestion{},
		}, nil
	}

	cacheKey := "suggest:" + strings.ToLower(fragment)

	if cached := s.cachedSuggestions(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	suggestions, err := s.repo.Suggest(ctx, fragment)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}

	s.storeSuggestions(ctx, cacheKey, suggestions)

	return suggestions, nil
}

// cachedSuggestions returns the cached result for key, or nil on miss or any
// cache failure. Cache trouble never fails a request.
func (s *SearchService) cachedSuggestions(ctx context.Context, key string) *domain.Suggestions {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.WarnContext(ctx, "suggestion cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	var suggestions domain.Suggestions
	if err := json.Unmarshal(data, &suggestions); err != nil {
		s.logger.WarnContext(ctx, "suggestion cache entry corrupt",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil
	}

	return &suggestions
}

func (s *SearchService) storeSuggestions(ctx context.Context, key string, suggestions *domain.Suggestions) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(suggestions)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, data, suggestCacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "suggestion cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
