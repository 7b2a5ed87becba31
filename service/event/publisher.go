/*
 * @module service/event/publisher
 * @description 变更影响发布接口定义，向下游系统推送影响传播结果
 * @architecture 事件驱动架构 - 发布层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 变更分析完成 -> 影响发布 -> 下游模块消费
 * @rules 发布失败由调用方决定降级策略，发布器本身不重试
 * @dependencies recommendation-service/service/models
 * @refs mqtt_publisher.go, kafka_publisher.go, change_listener.go
 */

package event

import (
	"context"
	"os"

	"recommendation-service/service/models"
)

// ImpactPublisher 变更影响发布器
type ImpactPublisher interface {
	// PublishImpact 发布一次变更影响分析结果
	PublishImpact(ctx context.Context, impact *models.ChangeImpact) error
	// Close 关闭底层连接
	Close() error
}

// getEnvWithDefault 获取环境变量，不存在时返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
