package consumers

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

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

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) AwardTokens(playerID string, amount int64, reason string) (int64, error) {
	args := m.Called(playerID, amount, reason)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEngine) SetPlayerLevel(playerID string, level int) error {
	return m.Called(playerID, level).Error(0)
}

func TestTokenAwardConsumerAppliesEachAward(t *testing.T) {
	engine := new(MockEngine)
	engine.On("AwardTokens", "p1", int64(100), "match_win").Return(int64(100), nil)
	engine.On("AwardTokens", "", int64(50), "quest").Return(int64(0), models.ErrInvalidAmount)

	consumer := NewTokenAwardConsumer("token-award", nil, engine, nil)
	err := consumer.Consume([]byte(`{"awards":[
		{"player_id":"p1","amount":100,"reason":"match_win"},
		{"player_id":"","amount":50,"reason":"quest"}
	]}`))

	require.NoError(t, err)
	engine.AssertExpectations(t)
}

func TestTokenAwardConsumerRejectsWhenNothingApplies(t *testing.T) {
	engine := new(MockEngine)
	engine.On("AwardTokens", "p1", int64(-5), "bad").Return(int64(0), models.ErrInvalidAmount)

	consumer := NewTokenAwardConsumer("token-award", nil, engine, nil)
	err := consumer.Consume([]byte(`{"awards":[{"player_id":"p1","amount":-5,"reason":"bad"}]}`))

	assert.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestTokenAwardConsumerRejectsMalformedJSON(t *testing.T) {
	engine := new(MockEngine)
	consumer := NewTokenAwardConsumer("token-award", nil, engine, nil)

	assert.Error(t, consumer.Consume([]byte("not json")))
	engine.AssertNotCalled(t, "AwardTokens", mock.Anything, mock.Anything, mock.Anything)
}

func TestLevelUpdateConsumer(t *testing.T) {
	engine := new(MockEngine)
	engine.On("SetPlayerLevel", "p1", 12).Return(nil)
	engine.On("SetPlayerLevel", "p2", 0).Return(models.ErrInvalidAmount)

	consumer := NewLevelUpdateConsumer("level-update", nil, engine, nil)

	assert.NoError(t, consumer.Consume([]byte(`{"player_id":"p1","level":12}`)))
	assert.ErrorIs(t, consumer.Consume([]byte(`{"player_id":"p2","level":0}`)), models.ErrInvalidAmount)
	engine.AssertExpectations(t)
}

func TestTokenAwardConsumerStartBindsQueue(t *testing.T) {
	provider := new(MockMqProvider)
	provider.On("DeclareQueue", TokenAwardQueue, true, TokenAwardRoutingKey, CommandExchange).Return(nil)
	provider.On("Subscribe", TokenAwardQueue, "token-award", mock.Anything).Return(nil)

	consumer := NewTokenAwardConsumer("token-award", provider, new(MockEngine), nil)
	var wg sync.WaitGroup

	require.NoError(t, consumer.Start("token-award", &wg))
	provider.AssertExpectations(t)
}

func TestConsumerManagerStartsEveryConsumer(t *testing.T) {
	provider := new(MockMqProvider)
	provider.On("DeclareExchange", CommandExchange, "topic", true).Return(nil)
	provider.On("DeclareQueue", mock.Anything, true, mock.Anything, CommandExchange).Return(nil)
	subscribed := make(chan string, 2)
	provider.On("Subscribe", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { subscribed <- args.String(0) }).
		Return(nil)
	provider.On("Disconnect").Return()

	engine := new(MockEngine)
	manager, err := NewConsumerManager(provider, map[string]IConsumer{
		"token-award":  NewTokenAwardConsumer("token-award", provider, engine, nil),
		"level-update": NewLevelUpdateConsumer("level-update", provider, engine, nil),
	}, nil)
	require.NoError(t, err)

	manager.Start()
	queues := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case queue := <-subscribed:
			queues[queue] = true
		case <-time.After(time.Second):
			t.Fatal("consumer did not subscribe")
		}
	}
	assert.Equal(t, map[string]bool{TokenAwardQueue: true, LevelUpdateQueue: true}, queues)

	manager.Shutdown()
	provider.AssertCalled(t, "Disconnect")
}

func TestConsumerManagerFailsWithoutExchange(t *testing.T) {
	provider := new(MockMqProvider)
	provider.On("DeclareExchange", CommandExchange, "topic", true).Return(errors.New("channel closed"))

	_, err := NewConsumerManager(provider, nil, nil)

	assert.ErrorContains(t, err, "channel closed")
}
