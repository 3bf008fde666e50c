package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusNew — заказ только что создан; единственный статус при создании.
	OrderStatusNew OrderStatus = "NEW"
	// OrderStatusProcessing — заказ взят в работу.
	OrderStatusProcessing OrderStatus = "PROCESSING"
	// OrderStatusCompleted — заказ выполнен.
	OrderStatusCompleted OrderStatus = "COMPLETED"
	// OrderStatusCancelled — заказ отменён.
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid проверяет, что статус принадлежит известному набору значений.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order — персистентная сущность заказа.
// ID назначается хранилищем при создании и больше не меняется.
type Order struct {
	ID          int64
	CreatedAt   time.Time
	Status      OrderStatus
	UserID      int64
	Description string
}
