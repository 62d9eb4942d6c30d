package kafka

import (
	"context"
	log "log/slog"

	"github.com/IBM/sarama"

	"github.com/e-hat/PixelShelf-sub001/internal/api/config"
	"github.com/e-hat/PixelShelf-sub001/internal/service"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	eventConsumer sarama.ConsumerGroup
	eventHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, fanoutService service.FanoutService) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	eventConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaEventConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		eventConsumer: eventConsumer,
		eventHandler:  NewDomainEventHandler(fanoutService),
	}, nil
}

// Start 启动消费循环，阻塞直到 ctx 被取消
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaEventConsumer.Topic
		log.Info("Domain event consumer started", "topic", topic)
		for {
			if err := m.eventConsumer.Consume(ctx, []string{topic}, m.eventHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.eventConsumer.Close(); err != nil {
		log.Error("Failed to close event consumer", "err", err)
	}

	return nil
}
