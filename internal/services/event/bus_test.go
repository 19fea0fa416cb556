package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus(nil)

	var got []string
	bus.Subscribe(func(e models.EconomyEvent) { got = append(got, "first:"+string(e.Type)) })
	unsubscribe := bus.Subscribe(func(e models.EconomyEvent) { got = append(got, "second:"+string(e.Type)) })

	bus.Publish(models.EconomyEvent{Type: models.EventTokensEarned})
	unsubscribe()
	bus.Publish(models.EconomyEvent{Type: models.EventTokensSpent})

	assert.Equal(t, []string{"first:tokens_earned", "second:tokens_earned", "first:tokens_spent"}, got)
	assert.Equal(t, 1, bus.Len())
}

func TestBusAssignsIDAndSurvivesPanics(t *testing.T) {
	bus := NewBus(nil)

	var received models.EconomyEvent
	bus.Subscribe(func(models.EconomyEvent) { panic("boom") })
	bus.Subscribe(func(e models.EconomyEvent) { received = e })

	require.NotPanics(t, func() { bus.Publish(models.EconomyEvent{Type: models.EventNFTMinted}) })
	assert.NotEmpty(t, received.ID)

	bus.Publish(models.EconomyEvent{ID: "fixed", Type: models.EventNFTMinted})
	assert.Equal(t, "fixed", received.ID)
}

type MockMqProvider struct {
	mock.Mock
}

func (m *MockMqProvider) Connect(connectionString string) error {
	return m.Called(connectionString).Error(0)
}

func (m *MockMqProvider) Disconnect() {
	m.Called()
}

func (m *MockMqProvider) Publish(exchangeName string, routingKey string, data interface{}) error {
	return m.Called(exchangeName, routingKey, data).Error(0)
}

func (m *MockMqProvider) Subscribe(queueName string, consumerTag string, callback func(data []byte) error) error {
	return m.Called(queueName, consumerTag, callback).Error(0)
}

func (m *MockMqProvider) DeclareExchange(exchangeName string, exchangeType string, durable bool) error {
	return m.Called(exchangeName, exchangeType, durable).Error(0)
}

func (m *MockMqProvider) DeclareQueue(queueName string, durable bool, bindingKey, exchange string) error {
	return m.Called(queueName, durable, bindingKey, exchange).Error(0)
}

func TestMQPublisherForwardsEvents(t *testing.T) {
	provider := new(MockMqProvider)
	provider.On("DeclareExchange", EconomyExchange, "topic", true).Return(nil)
	provider.On("Publish", EconomyExchange, "economy.tokens_earned.p1", mock.AnythingOfType("models.EconomyEvent")).Return(nil)
	provider.On("Publish", EconomyExchange, "economy.economy_error.system", mock.Anything).Return(assert.AnError)

	publisher, err := NewMQPublisher(provider, EconomyExchange, nil)
	require.NoError(t, err)

	bus := NewBus(nil)
	publisher.Attach(bus)

	bus.Publish(models.EconomyEvent{Type: models.EventTokensEarned, PlayerID: "p1", Amount: 10})
	bus.Publish(models.EconomyEvent{Type: models.EventEconomyError})

	provider.AssertExpectations(t)
}
