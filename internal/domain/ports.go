package domain

// EventPublisher публикует доменные события заказов во внешний брокер.
// Публикация — fire-and-forget: вызов возвращается, не дожидаясь подтверждения.
type EventPublisher interface {
	// PublishOrderCreated отправляет событие о создании заказа.
	PublishOrderCreated(order Order)
	// PublishOrderStatusChanged отправляет событие о смене статуса.
	PublishOrderStatusChanged(orderID int64, oldStatus, newStatus OrderStatus)
}

// QueueReader читает последнее опубликованное событие создания заказа из топика.
type QueueReader interface {
	// ReadLastCreated возвращает заказ из последнего события топика.
	// Второй результат false означает "событие не найдено" — пустой топик,
	// недоступный брокер и ошибка десериализации не различаются.
	ReadLastCreated(topic string) (Order, bool)
}
