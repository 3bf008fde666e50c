package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// defaultPollTimeout ограничивает ожидание единственного сообщения.
const defaultPollTimeout = 2 * time.Second

// partitionOffsets — минимальная часть sarama.Client, нужная для поиска
// последней записанной позиции топика.
type partitionOffsets interface {
	Partitions(topic string) ([]int32, error)
	GetOffset(topic string, partition int32, time int64) (int64, error)
}

// LastEventReader возвращает последнее опубликованное событие создания заказа.
// Каждый вызов открывает одноразовое подключение с уникальным client id и
// закрывает его по завершении: состояние офсетов между вызовами не разделяется.
type LastEventReader struct {
	brokers     []string
	pollTimeout time.Duration
	logger      *log.Entry
}

// NewLastEventReader создаёт reader для перечисленных брокеров.
func NewLastEventReader(brokers []string) *LastEventReader {
	return &LastEventReader{
		brokers:     brokers,
		pollTimeout: defaultPollTimeout,
		logger:      log.WithField("component", "kafka-last-reader"),
	}
}

// ReadLastCreated читает последнее событие топика и разворачивает его в заказ.
// Пустой топик, недоступный брокер и ошибка десериализации одинаково дают
// false; причина остаётся в логе.
func (r *LastEventReader) ReadLastCreated(topic string) (domain.Order, bool) {
	config := sarama.NewConfig()
	config.ClientID = "last-message-reader-" + uuid.NewString()
	config.Consumer.Return.Errors = false

	client, err := sarama.NewClient(r.brokers, config)
	if err != nil {
		r.logger.WithError(err).WithField("topic", topic).Warn("failed to connect to kafka")
		return domain.Order{}, false
	}
	defer func() { _ = client.Close() }()

	consumer, err := sarama.NewConsumerFromClient(client)
	if err != nil {
		r.logger.WithError(err).WithField("topic", topic).Warn("failed to create consumer")
		return domain.Order{}, false
	}
	defer func() { _ = consumer.Close() }()

	event, err := r.readLast(client, consumer, topic)
	if err != nil {
		r.logger.WithError(err).WithField("topic", topic).Warn("failed to read last event")
		return domain.Order{}, false
	}
	if event == nil {
		return domain.Order{}, false
	}

	return event.Order(), true
}

// readLast находит партицию с наибольшей последней позицией и читает из неё
// одно сообщение. nil без ошибки означает "в топике нет данных".
func (r *LastEventReader) readLast(offsets partitionOffsets, consumer sarama.Consumer, topic string) (*OrderCreatedEvent, error) {
	partitions, err := offsets.Partitions(topic)
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}

	var (
		target    int32
		maxOffset = int64(-1)
	)
	for _, partition := range partitions {
		end, err := offsets.GetOffset(topic, partition, sarama.OffsetNewest)
		if err != nil {
			return nil, fmt.Errorf("get offset for partition %d: %w", partition, err)
		}
		// Позиция последней записи — на единицу меньше следующей свободной.
		if last := end - 1; last >= 0 && last > maxOffset {
			maxOffset = last
			target = partition
		}
	}

	if maxOffset < 0 {
		return nil, nil
	}

	pc, err := consumer.ConsumePartition(topic, target, maxOffset)
	if err != nil {
		return nil, fmt.Errorf("consume partition %d at %d: %w", target, maxOffset, err)
	}
	defer func() { _ = pc.Close() }()

	select {
	case msg, ok := <-pc.Messages():
		if !ok {
			return nil, nil
		}
		var event OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return nil, fmt.Errorf("unmarshal order created event: %w", err)
		}
		return &event, nil
	case <-time.After(r.pollTimeout):
		return nil, nil
	}
}

var _ domain.QueueReader = (*LastEventReader)(nil)
