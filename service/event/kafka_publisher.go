/*
 * @module service/event/kafka_publisher
 * @description Kafka变更影响发布器，以实体ID为消息键保证同一实体的影响消息有序
 * @architecture 事件驱动架构 - 发布层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 构建Writer -> 序列化影响结果 -> 按实体ID分区发布
 * @rules 消息键为实体ID，同一实体的消息落到同一分区
 * @dependencies github.com/segmentio/kafka-go
 * @refs publisher.go
 */

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/segmentio/kafka-go"

	"recommendation-service/service/models"
)

// KafkaImpactPublisher 基于Kafka的影响发布器
type KafkaImpactPublisher struct {
	writer *kafka.Writer
}

// NewKafkaImpactPublisher 创建Kafka影响发布器，broker列表从环境变量读取
func NewKafkaImpactPublisher() *KafkaImpactPublisher {
	brokers := strings.Split(getEnvWithDefault("KAFKA_BROKERS", "localhost:9092"), ",")
	topic := getEnvWithDefault("KAFKA_IMPACT_TOPIC", "recommendation.impacts")

	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}
	slog.Info("Kafka影响发布器已创建", "brokers", brokers, "topic", topic)

	return &KafkaImpactPublisher{writer: writer}
}

// PublishImpact 发布影响结果，消息键为实体ID
func (p *KafkaImpactPublisher) PublishImpact(ctx context.Context, impact *models.ChangeImpact) error {
	payload, err := json.Marshal(impact)
	if err != nil {
		return fmt.Errorf("序列化影响结果失败: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(impact.EntityID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "source_module", Value: []byte(impact.SourceModule)},
		},
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("Kafka发布失败: %w", err)
	}

	slog.Debug("变更影响已发布", "topic", p.writer.Topic, "entity_id", impact.EntityID)
	return nil
}

// Close 关闭Kafka Writer
func (p *KafkaImpactPublisher) Close() error {
	return p.writer.Close()
}
