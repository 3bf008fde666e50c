package kafka

import "github.com/IBM/sarama"

// PingBrokers возвращает проверку доступности брокеров для health check.
// Каждый вызов устанавливает и закрывает одноразовое подключение.
func PingBrokers(brokers []string) func() error {
	return func() error {
		client, err := sarama.NewClient(brokers, sarama.NewConfig())
		if err != nil {
			return err
		}
		return client.Close()
	}
}
