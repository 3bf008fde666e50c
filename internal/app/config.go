package app

import (
	"os"
	"strings"

	"github.com/vladislavdragonenkov/orders/internal/messaging/kafka"
)

// Config описывает настройки запуска приложения.
// Конфигурация передаётся конструкторам явно; глобальных значений нет.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	// PostgresDSN пустой — используется in-memory хранилище.
	PostgresDSN string

	// KafkaBrokers пустой — события не публикуются, очередь не читается.
	KafkaBrokers            []string
	TopicOrderCreated       string
	TopicOrderStatusChanged string
}

// DefaultConfig возвращает базовые адреса и имена топиков.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:                ":8080",
		MetricsAddr:             ":9090",
		TopicOrderCreated:       kafka.DefaultTopicOrderCreated,
		TopicOrderStatusChanged: kafka.DefaultTopicOrderStatusChanged,
	}
}

// ConfigFromEnv строит конфигурацию из переменных окружения поверх значений
// по умолчанию.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("ORDERS_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("ORDERS_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("ORDERS_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = splitBrokers(v)
	}
	if v := os.Getenv("ORDERS_TOPIC_CREATED"); v != "" {
		cfg.TopicOrderCreated = v
	}
	if v := os.Getenv("ORDERS_TOPIC_STATUS_CHANGED"); v != "" {
		cfg.TopicOrderStatusChanged = v
	}
	return cfg
}

func splitBrokers(value string) []string {
	parts := strings.Split(value, ",")
	brokers := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}
