package rabbitmq

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	amqp "github.com/streadway/amqp"

	"gadgetstore/internal/logs"
)

func TestOrderEventLogger(t *testing.T) {
	handler := OrderEventLogger(logs.Discard())

	body, err := json.Marshal(OrderEvent{OrderID: "o-1", Status: "Pending", Total: 10, At: time.Now()})
	require.NoError(t, err)

	assert.NoError(t, handler(amqp.Delivery{RoutingKey: RoutingOrderCreated, Body: body}))
	assert.Error(t, handler(amqp.Delivery{RoutingKey: RoutingOrderCreated, Body: []byte("{not json")}))
}

func TestBindingsCoverRoutingKeys(t *testing.T) {
	assert.Equal(t, "order.*", bindings[OrderEventsQueue])
	assert.Equal(t, "mail.*", bindings[MailOutboxQueue])
}

func TestNewClient_BadURL(t *testing.T) {
	_, err := NewClient(Config{URL: "not-a-broker"}, logs.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to RabbitMQ")
	assert.Contains(t, fmt.Sprintf("%+v", err), "rabbitmq.NewClient")
}
