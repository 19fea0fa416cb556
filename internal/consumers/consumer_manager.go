package consumers

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wearedood/base-gaming-sdk-unity/common/mq"
)

type ConsumerManager struct {
	provider  mq.IMqProvider
	wg        sync.WaitGroup
	consumers map[string]IConsumer
	logger    *zap.Logger
}

// NewConsumerManager declares the command exchange the consumers bind
// their queues to.
func NewConsumerManager(provider mq.IMqProvider, consumers map[string]IConsumer, logger *zap.Logger) (*ConsumerManager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := provider.DeclareExchange(CommandExchange, "topic", true); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", CommandExchange, err)
	}

	return &ConsumerManager{
		provider:  provider,
		consumers: consumers,
		logger:    logger,
	}, nil
}

func (s *ConsumerManager) Start() {
	for key, consumer := range s.consumers {
		go func(key string, consumer IConsumer) {
			if err := consumer.Start(key, &s.wg); err != nil {
				s.logger.Error("Consumer failed to start", zap.String("consumer", key), zap.Error(err))
			}
		}(key, consumer)
	}
}

// Shutdown closes the broker connection, which ends every delivery loop.
func (s *ConsumerManager) Shutdown() {
	s.provider.Disconnect()
	s.wg.Wait()
}
