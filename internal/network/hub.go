package network

import (
	"sync"

	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/api"
)

// Broadcaster рассылает слепки сцены подписанным наблюдателям.
// Наблюдатели равноправны: все получают одинаковые снапшоты.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ObserverID -> личный канал
	subscribers map[string]chan api.Snapshot
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.Snapshot),
	}
}

// Register создает личный канал для наблюдателя.
func (b *Broadcaster) Register(observerID string) chan api.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[observerID]; ok {
		close(old)
	}

	ch := make(chan api.Snapshot, 16)
	b.subscribers[observerID] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(observerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[observerID]; ok {
		close(ch)
		delete(b.subscribers, observerID)
	}
}

// Broadcast отправляет слепок всем. Медленный наблюдатель теряет
// слепки, а не тормозит цикл движка (select с default).
func (b *Broadcaster) Broadcast(msg api.Snapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscriberCount возвращает количество активных наблюдателей.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
