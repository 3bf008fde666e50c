package kafka

import (
	"time"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// Топики по умолчанию; переопределяются конфигурацией приложения.
const (
	DefaultTopicOrderCreated       = "order.created"
	DefaultTopicOrderStatusChanged = "order.status.changed"
)

// OrderCreatedEvent — снимок заказа на момент создания.
type OrderCreatedEvent struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Status      string    `json:"status"`
	UserID      int64     `json:"userId"`
	Description string    `json:"description"`
}

// OrderStatusChangedEvent — запись о переходе заказа в новый статус.
// Timestamp фиксируется в момент публикации.
type OrderStatusChangedEvent struct {
	OrderID   int64     `json:"orderId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOrderCreatedEvent строит событие из персистентного заказа.
func NewOrderCreatedEvent(order domain.Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		ID:          order.ID,
		CreatedAt:   order.CreatedAt,
		Status:      string(order.Status),
		UserID:      order.UserID,
		Description: order.Description,
	}
}

// Order разворачивает событие обратно в доменный заказ.
func (e OrderCreatedEvent) Order() domain.Order {
	return domain.Order{
		ID:          e.ID,
		CreatedAt:   e.CreatedAt,
		Status:      domain.OrderStatus(e.Status),
		UserID:      e.UserID,
		Description: e.Description,
	}
}
