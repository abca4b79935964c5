package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JoshMith/Techwave-Backend/internal/domain"
	pkgkafka "github.com/JoshMith/Techwave-Backend/pkg/kafka"
	"github.com/JoshMith/Techwave-Backend/pkg/logger"
)

// Kafka topics for catalog domain events.
const (
	TopicProductCreated = "techwave.product.created"
	TopicProductUpdated = "techwave.product.updated"
	TopicProductDeleted = "techwave.product.deleted"
)

const (
	AggregateTypeProduct = "product"
	SourceCatalog        = "catalog-service"
)

// ProductData is the payload carried by product.created and product.updated
// events.
type ProductData struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	SalePrice   *float64       `json:"sale_price,omitempty"`
	Stock       int            `json:"stock"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	CategoryID  string         `json:"category_id"`
	SellerID    string         `json:"seller_id"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates an event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func productData(p *domain.Product) ProductData {
	return ProductData{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		SalePrice:   p.SalePrice,
		Stock:       p.Stock,
		Attributes:  p.Attributes,
		CategoryID:  p.CategoryID,
		SellerID:    p.SellerID,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicProductDeleted, id, ProductDeletedData{ID: id})
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, aggregateID, AggregateTypeProduct, SourceCatalog, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published catalog event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
