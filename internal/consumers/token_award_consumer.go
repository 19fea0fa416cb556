package consumers

import (
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/wearedood/base-gaming-sdk-unity/common/mq"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

type TokenAwarder interface {
	AwardTokens(playerID string, amount int64, reason string) (int64, error)
}

type TokenAwardConsumer struct {
	key      string
	provider mq.IMqProvider
	awarder  TokenAwarder
	logger   *zap.Logger
}

func NewTokenAwardConsumer(key string, provider mq.IMqProvider, awarder TokenAwarder, logger *zap.Logger) *TokenAwardConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenAwardConsumer{key: key, provider: provider, awarder: awarder, logger: logger}
}

func (h *TokenAwardConsumer) Start(key string, wg *sync.WaitGroup) error {
	// Declare queue (idempotent)
	err := h.provider.DeclareQueue(TokenAwardQueue, true, TokenAwardRoutingKey, CommandExchange)
	if err != nil {
		return err
	}

	h.logger.Info("Starting consumer", zap.String("consumer", key))

	wg.Add(1)
	defer wg.Done()

	return h.provider.Subscribe(TokenAwardQueue, key, h.Consume)
}

// Consume applies every award in the message. Awards are independent: a
// rejected award does not undo the others, and the message is rejected
// only when none of them could be applied.
func (h *TokenAwardConsumer) Consume(rawMsg []byte) error {
	var msg models.TokenAwardMessage
	if err := json.Unmarshal(rawMsg, &msg); err != nil {
		return err
	}

	var errs []error
	for _, award := range msg.Awards {
		awarded, err := h.awarder.AwardTokens(award.PlayerID, award.Amount, award.Reason)
		if err != nil {
			h.logger.Warn("Token award rejected",
				zap.String("consumer", h.key),
				zap.String("player_id", award.PlayerID),
				zap.Int64("amount", award.Amount),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}

		h.logger.Debug("Token award applied",
			zap.String("player_id", award.PlayerID),
			zap.Int64("awarded", awarded))
	}

	if len(msg.Awards) > 0 && len(errs) == len(msg.Awards) {
		return errors.Join(errs...)
	}
	return nil
}
