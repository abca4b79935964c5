package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	ProductID string  `json:"product_id"`
	Price     float64 `json:"price"`
}

func TestNewEvent(t *testing.T) {
	payload := testPayload{ProductID: "p1", Price: 999.0}

	event, err := NewEvent("product.created", "p1", "product", "catalog-service", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "product.created", event.EventType)
	assert.Equal(t, "p1", event.AggregateID)
	assert.Equal(t, "product", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.Equal(t, "catalog-service", event.Source)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEvent_RoundTrip(t *testing.T) {
	original, err := NewEvent("product.updated", "p2", "product", "catalog-service",
		testPayload{ProductID: "p2", Price: 849.0})
	require.NoError(t, err)
	original.WithCorrelationID("corr-1")

	raw, err := original.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, original.EventID, decoded.EventID)
	assert.Equal(t, "corr-1", decoded.CorrelationID)

	var payload testPayload
	require.NoError(t, decoded.UnmarshalData(&payload))
	assert.Equal(t, "p2", payload.ProductID)
	assert.Equal(t, 849.0, payload.Price)
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("product.created", "p1", "product", "catalog-service", make(chan int))
	assert.Error(t, err)
}

func TestUnmarshalEvent_InvalidJSON(t *testing.T) {
	_, err := UnmarshalEvent([]byte("{not json"))
	assert.Error(t, err)
}
