// Package noop содержит заглушки для запуска сервиса без Kafka.
package noop

import "github.com/vladislavdragonenkov/orders/internal/domain"

// Publisher молча игнорирует публикации событий.
type Publisher struct{}

func (Publisher) PublishOrderCreated(_ domain.Order) {}

func (Publisher) PublishOrderStatusChanged(_ int64, _, _ domain.OrderStatus) {}

// Reader всегда сообщает, что событий в очереди нет.
type Reader struct{}

func (Reader) ReadLastCreated(_ string) (domain.Order, bool) {
	return domain.Order{}, false
}

var (
	_ domain.EventPublisher = Publisher{}
	_ domain.QueueReader    = Reader{}
)
