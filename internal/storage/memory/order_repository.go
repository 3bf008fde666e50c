package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu     sync.RWMutex
	items  map[int64]domain.Order
	nextID int64
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[int64]domain.Order),
	}
}

// Create назначает заказу следующий свободный ID и сохраняет его.
// Идентификаторы монотонно растут и никогда не переиспользуются.
func (r *orderRepositoryInMemory) Create(order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	order.ID = r.nextID
	r.items[order.ID] = order
	return order, nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(id int64) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// List возвращает все заказы, отсортированные по ID.
func (r *orderRepositoryInMemory) List() ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(domain.OrderFilter{}), nil
}

// Search возвращает заказы, удовлетворяющие всем условиям фильтра.
func (r *orderRepositoryInMemory) Search(filter domain.OrderFilter) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(filter), nil
}

// Save перезаписывает существующий заказ.
func (r *orderRepositoryInMemory) Save(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.items[order.ID] = order
	return nil
}

// Delete удаляет заказ; отсутствие записи ошибкой не считается.
func (r *orderRepositoryInMemory) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

// collect отбирает заказы под фильтр; вызывающий держит блокировку.
func (r *orderRepositoryInMemory) collect(filter domain.OrderFilter) []domain.Order {
	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if filter.Matches(order) {
			result = append(result, order)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
