package consumers

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/wearedood/base-gaming-sdk-unity/common/mq"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

type LevelSetter interface {
	SetPlayerLevel(playerID string, level int) error
}

type LevelUpdateConsumer struct {
	key      string
	provider mq.IMqProvider
	setter   LevelSetter
	logger   *zap.Logger
}

func NewLevelUpdateConsumer(key string, provider mq.IMqProvider, setter LevelSetter, logger *zap.Logger) *LevelUpdateConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LevelUpdateConsumer{key: key, provider: provider, setter: setter, logger: logger}
}

func (h *LevelUpdateConsumer) Start(key string, wg *sync.WaitGroup) error {
	err := h.provider.DeclareQueue(LevelUpdateQueue, true, LevelUpdateRoutingKey, CommandExchange)
	if err != nil {
		return err
	}

	h.logger.Info("Starting consumer", zap.String("consumer", key))

	wg.Add(1)
	defer wg.Done()

	return h.provider.Subscribe(LevelUpdateQueue, key, h.Consume)
}

func (h *LevelUpdateConsumer) Consume(rawMsg []byte) error {
	var msg models.LevelUpdateMessage
	if err := json.Unmarshal(rawMsg, &msg); err != nil {
		return err
	}

	if err := h.setter.SetPlayerLevel(msg.PlayerID, msg.Level); err != nil {
		h.logger.Warn("Level update rejected",
			zap.String("consumer", h.key),
			zap.String("player_id", msg.PlayerID),
			zap.Int("level", msg.Level),
			zap.Error(err))
		return err
	}
	return nil
}
