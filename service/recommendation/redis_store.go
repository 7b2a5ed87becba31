/*
 * @module service/recommendation/redis_store
 * @description 基于Redis的结果缓存与历史日志实现，供多实例部署时共享评估结果
 * @architecture 工具层 - 提供分布式缓存能力
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 结果序列化 -> SET带TTL -> 历史LPUSH/LTRIM
 * @rules Redis读写失败一律按未命中/空历史处理并记录告警，不向调用方抛错；历史按实体维度保留最近N条
 * @dependencies github.com/go-redis/redis/v8
 * @refs cache.go, service/init.go
 */

package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"recommendation-service/service/models"

	"github.com/go-redis/redis/v8"
)

const (
	redisResultKeyPrefix  = "recommendation:result:"
	redisHistoryKeyPrefix = "recommendation:history:"
)

// RedisResultStore 基于Redis的ResultStore实现
type RedisResultStore struct {
	client          *redis.Client
	historyCapacity int64
}

// NewRedisResultStore 从环境变量读取Redis配置并创建存储实例
func NewRedisResultStore(historyCapacity int) (*RedisResultStore, error) {
	host := getEnvWithDefault("REDIS_HOST", "localhost")
	port := getEnvWithDefault("REDIS_PORT", "6379")
	password := os.Getenv("REDIS_PASSWORD")
	db := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		fmt.Sscanf(dbStr, "%d", &db)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis连接失败: %w", err)
	}

	if historyCapacity <= 0 {
		historyCapacity = DefaultHistoryCapacity
	}

	slog.Info("Redis结果缓存初始化成功", "redis_host", host, "redis_port", port)

	return &RedisResultStore{
		client:          client,
		historyCapacity: int64(historyCapacity),
	}, nil
}

func resultKey(entityID, moduleID string) string {
	return redisResultKeyPrefix + moduleID + ":" + entityID
}

func historyKey(entityID string) string {
	return redisHistoryKeyPrefix + entityID
}

// GetResult 查询缓存结果，TTL过期由Redis负责，读取或反序列化失败按未命中处理
func (s *RedisResultStore) GetResult(ctx context.Context, entityID, moduleID string) (*models.RecommendationResult, bool) {
	data, err := s.client.Get(ctx, resultKey(entityID, moduleID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("读取缓存结果失败，按未命中处理", "entity_id", entityID, "module_id", moduleID, "error", err)
		return nil, false
	}

	var result models.RecommendationResult
	if err := json.Unmarshal(data, &result); err != nil {
		slog.Warn("缓存结果反序列化失败，按未命中处理", "entity_id", entityID, "error", err)
		return nil, false
	}
	return &result, true
}

// PutResult 写入缓存结果，TTL由Redis过期机制保证
func (s *RedisResultStore) PutResult(ctx context.Context, result *models.RecommendationResult, ttl time.Duration) {
	if result == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		slog.Warn("缓存结果序列化失败", "entity_id", result.EntityID, "error", err)
		return
	}

	if err := s.client.Set(ctx, resultKey(result.EntityID, result.ModuleID), data, ttl).Err(); err != nil {
		slog.Warn("写入缓存结果失败", "entity_id", result.EntityID, "error", err)
	}
}

// AppendHistory 追加历史记录并裁剪到容量上限
func (s *RedisResultStore) AppendHistory(ctx context.Context, entry models.HistoryEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		slog.Warn("历史记录序列化失败", "entity_id", entry.EntityID, "error", err)
		return
	}

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, historyKey(entry.EntityID), data)
	pipe.LTrim(ctx, historyKey(entry.EntityID), 0, s.historyCapacity-1)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("追加历史记录失败", "entity_id", entry.EntityID, "error", err)
	}
}

// RecentHistory 返回实体最近的历史记录，读取失败按空历史处理
func (s *RedisResultStore) RecentHistory(ctx context.Context, entityID string, limit int) []models.HistoryEntry {
	values, err := s.client.LRange(ctx, historyKey(entityID), 0, int64(limit)-1).Result()
	if err != nil {
		slog.Warn("读取历史记录失败，按空历史处理", "entity_id", entityID, "error", err)
		return nil
	}

	history := make([]models.HistoryEntry, 0, len(values))
	for _, value := range values {
		var entry models.HistoryEntry
		if err := json.Unmarshal([]byte(value), &entry); err != nil {
			slog.Warn("历史记录反序列化失败，跳过", "entity_id", entityID, "error", err)
			continue
		}
		history = append(history, entry)
	}
	return history
}

// Close 关闭Redis连接
func (s *RedisResultStore) Close() error {
	return s.client.Close()
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
