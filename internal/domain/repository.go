package domain

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ и возвращает его с назначенным хранилищем ID.
	Create(order Order) (Order, error)
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id int64) (Order, error)
	// List возвращает все заказы; порядок определяется хранилищем.
	List() ([]Order, error)
	// Search возвращает заказы, удовлетворяющие всем условиям фильтра.
	Search(filter OrderFilter) ([]Order, error)
	// Save применяет изменения статуса к существующему заказу.
	// Возвращает ErrOrderNotFound, если заказа нет.
	Save(order Order) error
	// Delete удаляет заказ по идентификатору. Отсутствие заказа ошибкой не считается.
	Delete(id int64) error
}
