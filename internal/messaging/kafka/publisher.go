package kafka

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// Publisher публикует события заказов в Kafka в режиме fire-and-forget:
// отправка выполняется в фоне, вызывающий не ждёт подтверждения брокера.
type Publisher struct {
	producer     sarama.SyncProducer
	createdTopic string
	statusTopic  string
	logger       *log.Entry
	wg           sync.WaitGroup
}

// NewPublisher создаёт Kafka publisher поверх синхронного producer.
func NewPublisher(brokers []string, createdTopic, statusTopic string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1 // Требование идемпотентного producer.

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	if createdTopic == "" {
		createdTopic = DefaultTopicOrderCreated
	}
	if statusTopic == "" {
		statusTopic = DefaultTopicOrderStatusChanged
	}

	return &Publisher{
		producer:     producer,
		createdTopic: createdTopic,
		statusTopic:  statusTopic,
		logger:       log.WithField("component", "kafka-publisher"),
	}, nil
}

// PublishOrderCreated отправляет событие о создании заказа.
func (p *Publisher) PublishOrderCreated(order domain.Order) {
	p.sendAsync(p.createdTopic, order.ID, NewOrderCreatedEvent(order))
}

// PublishOrderStatusChanged отправляет событие о смене статуса заказа.
func (p *Publisher) PublishOrderStatusChanged(orderID int64, oldStatus, newStatus domain.OrderStatus) {
	event := OrderStatusChangedEvent{
		OrderID:   orderID,
		OldStatus: string(oldStatus),
		NewStatus: string(newStatus),
		Timestamp: time.Now().UTC(),
	}
	p.sendAsync(p.statusTopic, orderID, event)
}

// sendAsync публикует событие в фоне. Ошибки публикации логируются
// и не доходят до вызывающего; откат записи в хранилище не выполняется.
func (p *Publisher) sendAsync(topic string, orderID int64, event any) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.send(topic, strconv.FormatInt(orderID, 10), event); err != nil {
			p.logger.WithError(err).WithFields(log.Fields{
				"topic":    topic,
				"order_id": orderID,
			}).Error("failed to publish event")
		}
	}()
}

func (p *Publisher) send(topic, key string, event any) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(eventData),
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"topic":     topic,
		"key":       key,
		"partition": partition,
		"offset":    offset,
	}).Debug("message sent to kafka")

	return nil
}

// Close дожидается фоновых отправок и закрывает producer.
func (p *Publisher) Close() error {
	p.wg.Wait()
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

var _ domain.EventPublisher = (*Publisher)(nil)
