package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JoshMith/Techwave-Backend/internal/domain"
	"github.com/JoshMith/Techwave-Backend/internal/event"
	"github.com/JoshMith/Techwave-Backend/internal/repository"
	apperrors "github.com/JoshMith/Techwave-Backend/pkg/errors"
	pkgkafka "github.com/JoshMith/Techwave-Backend/pkg/kafka"
	"github.com/JoshMith/Techwave-Backend/pkg/validator"
)

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCategoryRepository struct {
	mock.Mock
}

func (m *mockCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func newTestCatalogService(products *mockProductRepository, categories *mockCategoryRepository) *CatalogService {
	logger := newTestLogger()
	// The broker is unreachable in tests; publish failures are logged and
	// swallowed by the service.
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:9092"}), logger)
	producer := event.NewProducer(kafkaProducer, logger)
	return NewCatalogService(products, categories, producer, logger)
}

func float64Ptr(f float64) *float64 { return &f }

var (
	testCategoryID = uuid.NewString()
	testSellerID   = uuid.NewString()
)

func validCreateInput() *CreateProductInput {
	return &CreateProductInput{
		Title:      "iPhone 15 Pro",
		Price:      999.0,
		Stock:      10,
		Attributes: map[string]any{"brand": "Apple"},
		CategoryID: testCategoryID,
		SellerID:   testSellerID,
	}
}

func TestCatalogService_CreateProduct_Success(t *testing.T) {
	products := new(mockProductRepository)
	categories := new(mockCategoryRepository)
	svc := newTestCatalogService(products, categories)

	categories.On("GetByID", mock.Anything, testCategoryID).
		Return(&domain.Category{ID: testCategoryID, Name: "Smartphones"}, nil)
	products.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Title == "iPhone 15 Pro" && p.ID != "" && p.CategoryID == testCategoryID
	})).Return(nil)

	product, err := svc.CreateProduct(context.Background(), validCreateInput())
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, 999.0, product.Price)
	assert.False(t, product.CreatedAt.IsZero())
	products.AssertExpectations(t)
	categories.AssertExpectations(t)
}

func TestCatalogService_CreateProduct_ValidationFailure(t *testing.T) {
	products := new(mockProductRepository)
	categories := new(mockCategoryRepository)
	svc := newTestCatalogService(products, categories)

	input := validCreateInput()
	input.Title = ""
	input.CategoryID = "not-a-uuid"

	product, err := svc.CreateProduct(context.Background(), input)
	require.Error(t, err)
	assert.Nil(t, product)

	var valErr *validator.ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Title")
	assert.Contains(t, fields, "CategoryID")

	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_CreateProduct_SalePriceAboveListPrice(t *testing.T) {
	products := new(mockProductRepository)
	categories := new(mockCategoryRepository)
	svc := newTestCatalogService(products, categories)

	input := validCreateInput()
	input.SalePrice = float64Ptr(1500.0)

	_, err := svc.CreateProduct(context.Background(), input)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_CreateProduct_UnknownCategory(t *testing.T) {
	products := new(mockProductRepository)
	categories := new(mockCategoryRepository)
	svc := newTestCatalogService(products, categories)

	categories.On("GetByID", mock.Anything, testCategoryID).
		Return(nil, apperrors.NotFound("category", testCategoryID))

	_, err := svc.CreateProduct(context.Background(), validCreateInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_UpdateProduct_AppliesPartialFields(t *testing.T) {
	products := new(mockProductRepository)
	categories := new(mockCategoryRepository)
	svc := newTestCatalogService(products, categories)

	id := uuid.NewString()
	existing := &domain.Product{
		ID:         id,
		Title:      "Old title",
		Price:      500.0,
		Stock:      3,
		CategoryID: testCategoryID,
	}

	products.On("GetByID", mock.Anything, id).Return(existing, nil)
	products.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Title == "New title" && p.Price == 500.0 && p.Stock == 7
	})).Return(nil)

	newTitle := "New title"
	newStock := 7
	product, err := svc.UpdateProduct(context.Background(), id, &UpdateProductInput{
		Title: &newTitle,
		Stock: &newStock,
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", product.Title)
	assert.Equal(t, 500.0, product.Price)
	products.AssertExpectations(t)
}

func TestCatalogService_DeleteProduct_NotFound(t *testing.T) {
	products := new(mockProductRepository)
	categories := new(mockCategoryRepository)
	svc := newTestCatalogService(products, categories)

	id := uuid.NewString()
	products.On("Delete", mock.Anything, id).Return(apperrors.NotFound("product", id))

	err := svc.DeleteProduct(context.Background(), id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogService_CreateCategory(t *testing.T) {
	products := new(mockProductRepository)
	categories := new(mockCategoryRepository)
	svc := newTestCatalogService(products, categories)

	categories.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Category) bool {
		return c.Name == "Wearables" && c.ID != ""
	})).Return(nil)

	category, err := svc.CreateCategory(context.Background(), &CreateCategoryInput{Name: "Wearables"})
	require.NoError(t, err)
	assert.Equal(t, "Wearables", category.Name)
	categories.AssertExpectations(t)

	_, err = svc.CreateCategory(context.Background(), &CreateCategoryInput{Name: "W"})
	require.Error(t, err)
}
