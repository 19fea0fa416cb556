package consumers

import "sync"

const (
	CommandExchange = "economy.commands"

	TokenAwardQueue      = "economy.token-awards"
	TokenAwardRoutingKey = "economy.award"

	LevelUpdateQueue      = "economy.level-updates"
	LevelUpdateRoutingKey = "economy.level"
)

type IConsumer interface {
	Start(key string, wg *sync.WaitGroup) error
	Consume(rawMsg []byte) error
}
