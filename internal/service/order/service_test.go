package order_test

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/service/order"
	"github.com/vladislavdragonenkov/orders/internal/storage/memory"
)

type statusChange struct {
	orderID   int64
	oldStatus domain.OrderStatus
	newStatus domain.OrderStatus
}

// stubPublisher записывает публикации для проверок в тестах.
type stubPublisher struct {
	mu      sync.Mutex
	created []domain.Order
	changes []statusChange
}

func (p *stubPublisher) PublishOrderCreated(order domain.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, order)
}

func (p *stubPublisher) PublishOrderStatusChanged(orderID int64, oldStatus, newStatus domain.OrderStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, statusChange{orderID, oldStatus, newStatus})
}

// stubQueue отдаёт заранее заданный заказ и запоминает запрошенный топик.
type stubQueue struct {
	order     domain.Order
	found     bool
	lastTopic string
}

func (q *stubQueue) ReadLastCreated(topic string) (domain.Order, bool) {
	q.lastTopic = topic
	return q.order, q.found
}

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

func newService(t *testing.T) (*order.Service, *stubPublisher, *stubQueue) {
	t.Helper()
	publisher := &stubPublisher{}
	queue := &stubQueue{}
	svc := order.New(memory.NewOrderRepository(), publisher, queue, "order.created", nil, loggerForTests())
	return svc, publisher, queue
}

func int64Ptr(v int64) *int64 { return &v }

func TestService_Create(t *testing.T) {
	svc, publisher, _ := newService(t)

	created, err := svc.Create(int64Ptr(42), "Foobar order")
	require.NoError(t, err)

	require.NotZero(t, created.ID)
	require.Equal(t, domain.OrderStatusNew, created.Status)
	require.Equal(t, int64(42), created.UserID)
	require.Equal(t, "Foobar order", created.Description)
	require.WithinDuration(t, time.Now().UTC(), created.CreatedAt, time.Minute)

	// Ровно одно событие создания с персистентными значениями.
	require.Len(t, publisher.created, 1)
	require.Equal(t, created.ID, publisher.created[0].ID)
	require.Equal(t, created.UserID, publisher.created[0].UserID)
	require.Equal(t, created.Description, publisher.created[0].Description)
}

func TestService_CreateAssignsUniqueIDs(t *testing.T) {
	svc, _, _ := newService(t)

	first, err := svc.Create(int64Ptr(1), "first")
	require.NoError(t, err)
	second, err := svc.Create(int64Ptr(1), "second")
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
}

func TestService_CreateValidation(t *testing.T) {
	svc, publisher, _ := newService(t)

	tests := []struct {
		name        string
		userID      *int64
		description string
		wantFields  []string
	}{
		{"missing user id", nil, "order", []string{"userId"}},
		{"empty description", int64Ptr(1), "", []string{"description"}},
		{"whitespace description", int64Ptr(1), "   ", []string{"description"}},
		{"both missing", nil, "", []string{"userId", "description"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(tc.userID, tc.description)
			require.Error(t, err)

			ve, ok := domain.AsValidation(err)
			require.True(t, ok, "expected ValidationError, got %v", err)
			require.Len(t, ve.Fields, len(tc.wantFields))
			for _, field := range tc.wantFields {
				require.Contains(t, ve.Fields, field)
			}
		})
	}

	// Ни одного события при неудачной валидации.
	require.Empty(t, publisher.created)
}

func TestService_GetByID(t *testing.T) {
	svc, _, _ := newService(t)

	created, err := svc.Create(int64Ptr(1), "order")
	require.NoError(t, err)

	found, err := svc.GetByID(created.ID)
	require.NoError(t, err)
	require.Equal(t, created, found)

	_, err = svc.GetByID(created.ID + 100)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestService_Search(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Create(int64Ptr(1), "Foobar order")
	require.NoError(t, err)
	_, err = svc.Create(int64Ptr(2), "pizza delivery")
	require.NoError(t, err)

	orders, err := svc.Search(domain.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	orders, err = svc.Search(domain.OrderFilter{Description: "foo"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "Foobar order", orders[0].Description)
}

func TestService_UpdateStatus(t *testing.T) {
	svc, publisher, _ := newService(t)

	created, err := svc.Create(int64Ptr(1), "order")
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(created.ID, domain.OrderStatusProcessing)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusProcessing, updated.Status)

	stored, err := svc.GetByID(created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusProcessing, stored.Status)

	// Одно событие со старым и новым статусом.
	require.Len(t, publisher.changes, 1)
	require.Equal(t, created.ID, publisher.changes[0].orderID)
	require.Equal(t, domain.OrderStatusNew, publisher.changes[0].oldStatus)
	require.Equal(t, domain.OrderStatusProcessing, publisher.changes[0].newStatus)
}

func TestService_UpdateStatusErrors(t *testing.T) {
	svc, publisher, _ := newService(t)

	created, err := svc.Create(int64Ptr(1), "order")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(created.ID+100, domain.OrderStatusProcessing)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, err = svc.UpdateStatus(created.ID, "")
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	require.Contains(t, ve.Fields, "status")

	_, err = svc.UpdateStatus(created.ID, "SHIPPED")
	_, ok = domain.AsValidation(err)
	require.True(t, ok)

	require.Empty(t, publisher.changes)
}

func TestService_Delete(t *testing.T) {
	svc, _, _ := newService(t)

	created, err := svc.Create(int64Ptr(1), "order")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID))

	_, err = svc.GetByID(created.ID)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	// Удаление несуществующего заказа проходит молча.
	require.NoError(t, svc.Delete(created.ID))
}

func TestService_ReadLastFromQueue(t *testing.T) {
	svc, _, queue := newService(t)

	queue.order = domain.Order{
		ID:          9,
		CreatedAt:   time.Now().UTC(),
		Status:      domain.OrderStatusNew,
		UserID:      42,
		Description: "queued order",
	}
	queue.found = true

	found, err := svc.ReadLastFromQueue("custom.topic")
	require.NoError(t, err)
	require.Equal(t, queue.order, found)
	require.Equal(t, "custom.topic", queue.lastTopic)

	// Пустое имя топика заменяется топиком из конфигурации.
	_, err = svc.ReadLastFromQueue("")
	require.NoError(t, err)
	require.Equal(t, "order.created", queue.lastTopic)
}

func TestService_ReadLastFromQueueEmpty(t *testing.T) {
	svc, _, queue := newService(t)
	queue.found = false

	_, err := svc.ReadLastFromQueue("order.created")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}
