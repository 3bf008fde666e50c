// Package order реализует прикладные операции над заказами: CRUD, поиск,
// смену статуса и чтение последнего события из очереди.
package order

import (
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/metrics"
)

// Service оркестрирует хранилище заказов и публикацию событий.
type Service struct {
	repo         domain.OrderRepository
	publisher    domain.EventPublisher
	queue        domain.QueueReader
	createdTopic string
	metrics      *metrics.OrderMetrics
	logger       *log.Entry
}

// New конструирует сервис с зависимостями. metrics может быть nil.
func New(
	repo domain.OrderRepository,
	publisher domain.EventPublisher,
	queue domain.QueueReader,
	createdTopic string,
	m *metrics.OrderMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "order-service")
	}
	return &Service{
		repo:         repo,
		publisher:    publisher,
		queue:        queue,
		createdTopic: createdTopic,
		metrics:      m,
		logger:       logger,
	}
}

// Create валидирует вход, сохраняет заказ со статусом NEW и публикует
// событие о создании. Статус и время создания назначаются сервисом,
// что бы ни прислал вызывающий.
func (s *Service) Create(userID *int64, description string) (domain.Order, error) {
	fields := make(map[string]string)
	if userID == nil {
		fields["userId"] = "User ID cannot be null"
	}
	if strings.TrimSpace(description) == "" {
		fields["description"] = "Description cannot be empty"
	}
	if len(fields) > 0 {
		return domain.Order{}, &domain.ValidationError{Fields: fields}
	}

	order := domain.Order{
		CreatedAt:   time.Now().UTC(),
		Status:      domain.OrderStatusNew,
		UserID:      *userID,
		Description: description,
	}

	saved, err := s.repo.Create(order)
	if err != nil {
		s.logger.WithError(err).Error("failed to create order")
		return domain.Order{}, err
	}

	s.publisher.PublishOrderCreated(saved)
	s.metrics.RecordOrderCreated()

	s.logger.WithFields(log.Fields{
		"order_id": saved.ID,
		"user_id":  saved.UserID,
	}).Info("order created")

	return saved, nil
}

// GetByID возвращает заказ или ErrOrderNotFound.
func (s *Service) GetByID(id int64) (domain.Order, error) {
	return s.repo.Get(id)
}

// List возвращает все заказы.
func (s *Service) List() ([]domain.Order, error) {
	return s.repo.List()
}

// Search возвращает заказы, удовлетворяющие всем условиям фильтра.
func (s *Service) Search(filter domain.OrderFilter) ([]domain.Order, error) {
	s.metrics.RecordSearch()
	return s.repo.Search(filter)
}

// UpdateStatus переводит заказ в новый статус и публикует событие
// с настоящим предыдущим статусом.
func (s *Service) UpdateStatus(id int64, newStatus domain.OrderStatus) (domain.Order, error) {
	if newStatus == "" {
		return domain.Order{}, domain.NewValidationError("status", "Status cannot be null")
	}
	if !newStatus.IsValid() {
		return domain.Order{}, domain.NewValidationError("status", "Unknown status: "+string(newStatus))
	}

	order, err := s.repo.Get(id)
	if err != nil {
		return domain.Order{}, err
	}

	oldStatus := order.Status
	order.Status = newStatus
	if err := s.repo.Save(order); err != nil {
		s.logger.WithError(err).WithField("order_id", id).Error("failed to save order status")
		return domain.Order{}, err
	}

	s.publisher.PublishOrderStatusChanged(order.ID, oldStatus, newStatus)
	s.metrics.RecordStatusChange()

	s.logger.WithFields(log.Fields{
		"order_id":   order.ID,
		"old_status": oldStatus,
		"new_status": newStatus,
	}).Info("order status updated")

	return order, nil
}

// Delete удаляет заказ по идентификатору.
// Удаление несуществующего заказа проходит без ошибки.
func (s *Service) Delete(id int64) error {
	if err := s.repo.Delete(id); err != nil {
		s.logger.WithError(err).WithField("order_id", id).Error("failed to delete order")
		return err
	}
	s.metrics.RecordOrderDeleted()
	return nil
}

// ReadLastFromQueue возвращает заказ из последнего события топика.
// Пустое имя топика означает топик созданных заказов из конфигурации.
func (s *Service) ReadLastFromQueue(topic string) (domain.Order, error) {
	if topic == "" {
		topic = s.createdTopic
	}

	order, ok := s.queue.ReadLastCreated(topic)
	s.metrics.RecordQueueRead(ok)
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}
