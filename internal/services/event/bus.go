// Package event is the observer registry for economy outcome events.
package event

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

type Handler func(models.EconomyEvent)

// Bus delivers each published event synchronously to every subscriber in
// subscription order. A panicking subscriber is logged and skipped.
type Bus struct {
	mu       sync.RWMutex
	next     uint64
	handlers map[uint64]Handler
	logger   *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{handlers: make(map[uint64]Handler), logger: logger}
}

// Subscribe registers h until the returned function is called.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

func (b *Bus) Publish(e models.EconomyEvent) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	b.mu.RLock()
	ids := make([]uint64, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	handlers := make([]Handler, len(ids))
	for i, id := range ids {
		handlers[i] = b.handlers[id]
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, e)
	}
}

func (b *Bus) deliver(h Handler, e models.EconomyEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event subscriber panicked",
				zap.String("event_type", string(e.Type)),
				zap.String("event_id", e.ID),
				zap.Any("panic", r))
		}
	}()
	h(e)
}
