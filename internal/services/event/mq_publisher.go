package event

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wearedood/base-gaming-sdk-unity/common/mq"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

const EconomyExchange = "economy.events"

// RoutingKey is economy.<event type>.<player id>.
func RoutingKey(e models.EconomyEvent) string {
	player := e.PlayerID
	if player == "" {
		player = "system"
	}
	return fmt.Sprintf("economy.%s.%s", e.Type, player)
}

// MQPublisher forwards bus events to a topic exchange.
type MQPublisher struct {
	provider mq.IMqProvider
	exchange string
	logger   *zap.Logger
}

func NewMQPublisher(provider mq.IMqProvider, exchange string, logger *zap.Logger) (*MQPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := provider.DeclareExchange(exchange, "topic", true); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &MQPublisher{provider: provider, exchange: exchange, logger: logger}, nil
}

// Attach subscribes the publisher to bus.
func (p *MQPublisher) Attach(bus *Bus) (detach func()) {
	return bus.Subscribe(p.Handle)
}

func (p *MQPublisher) Handle(e models.EconomyEvent) {
	if err := p.provider.Publish(p.exchange, RoutingKey(e), e); err != nil {
		p.logger.Error("Failed to publish economy event",
			zap.String("event_id", e.ID),
			zap.String("event_type", string(e.Type)),
			zap.Error(err))
	}
}
