package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JoshMith/Techwave-Backend/internal/domain"
	"github.com/JoshMith/Techwave-Backend/internal/event"
	"github.com/JoshMith/Techwave-Backend/internal/repository"
	"github.com/JoshMith/Techwave-Backend/internal/service"
	apperrors "github.com/JoshMith/Techwave-Backend/pkg/errors"
	pkgkafka "github.com/JoshMith/Techwave-Backend/pkg/kafka"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepo) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func newCatalogRouter(products *mockProductRepo, categories *mockCategoryRepo) http.Handler {
	logger := handlerTestLogger()
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:9092"}), logger)
	producer := event.NewProducer(kafkaProducer, logger)
	svc := service.NewCatalogService(products, categories, producer, logger)

	productHandler := NewProductHandler(svc, logger)
	categoryHandler := NewCategoryHandler(svc, logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products/{id}", productHandler.GetProduct)
		r.Post("/products", productHandler.CreateProduct)
		r.Get("/categories", categoryHandler.ListCategories)
	})
	return r
}

func TestProductHandler_GetProduct_InvalidUUID(t *testing.T) {
	router := newCatalogRouter(new(mockProductRepo), new(mockCategoryRepo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductHandler_GetProduct_NotFound(t *testing.T) {
	products := new(mockProductRepo)
	router := newCatalogRouter(products, new(mockCategoryRepo))

	id := uuid.NewString()
	products.On("GetByID", mock.Anything, id).Return(nil, apperrors.NotFound("product", id))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductHandler_CreateProduct_ValidationError(t *testing.T) {
	products := new(mockProductRepo)
	router := newCatalogRouter(products, new(mockCategoryRepo))

	body, _ := json.Marshal(map[string]any{
		"title":       "x",
		"price":       -5,
		"category_id": "nope",
		"seller_id":   uuid.NewString(),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "Title")
	assert.Contains(t, resp.Error.Fields, "CategoryID")

	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductHandler_CreateProduct_Success(t *testing.T) {
	products := new(mockProductRepo)
	categories := new(mockCategoryRepo)
	router := newCatalogRouter(products, categories)

	categoryID := uuid.NewString()
	categories.On("GetByID", mock.Anything, categoryID).
		Return(&domain.Category{ID: categoryID, Name: "Smartphones"}, nil)
	products.On("Create", mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(map[string]any{
		"title":       "iPhone 15 Pro",
		"price":       999.0,
		"stock":       10,
		"category_id": categoryID,
		"seller_id":   uuid.NewString(),
		"attributes":  map[string]any{"brand": "Apple"},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data domain.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "iPhone 15 Pro", resp.Data.Title)
	assert.NotEmpty(t, resp.Data.ID)
}

func TestCategoryHandler_ListCategories(t *testing.T) {
	categories := new(mockCategoryRepo)
	router := newCatalogRouter(new(mockProductRepo), categories)

	categories.On("List", mock.Anything).Return([]domain.Category{
		{ID: uuid.NewString(), Name: "Laptops"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []domain.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Laptops", resp.Data[0].Name)
}
