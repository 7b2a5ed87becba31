/*
 * @module service/recommendation/cache
 * @description 结果缓存与历史日志存储，定义可注入的存储接口并提供进程内实现
 * @architecture 分层架构 - 工具层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 结果写入 -> TTL过期判定 -> 历史追加 -> 容量淘汰
 * @rules 过期条目等同未命中；历史日志按FIFO淘汰最旧记录；存储异常不向调用方抛错
 * @dependencies recommendation-service/service/models
 * @refs engine.go, redis_store.go
 */

package recommendation

import (
	"context"
	"sync"
	"time"

	"recommendation-service/service/models"
)

// DefaultHistoryCapacity 历史日志默认容量
const DefaultHistoryCapacity = 100

// ResultStore 结果缓存与历史日志的存储接口
// 实现约定：存储不可用时按未命中/空历史处理，不向上抛错；并发写入按后写覆盖处理
type ResultStore interface {
	// GetResult 查询缓存结果，过期条目等同未命中
	GetResult(ctx context.Context, entityID, moduleID string) (*models.RecommendationResult, bool)
	// PutResult 写入缓存结果
	PutResult(ctx context.Context, result *models.RecommendationResult, ttl time.Duration)
	// AppendHistory 追加历史评估记录，超出容量时淘汰最旧记录
	AppendHistory(ctx context.Context, entry models.HistoryEntry)
	// RecentHistory 按时间倒序返回实体最近的历史记录
	RecentHistory(ctx context.Context, entityID string, limit int) []models.HistoryEntry
}

type cacheEntry struct {
	result    *models.RecommendationResult
	createdAt time.Time
	ttl       time.Duration
}

func (c *cacheEntry) expired(now time.Time) bool {
	return c.ttl > 0 && now.Sub(c.createdAt) > c.ttl
}

// MemoryStore 进程内的结果缓存与历史日志实现
type MemoryStore struct {
	mu       sync.Mutex
	entries  map[string]*cacheEntry
	history  []models.HistoryEntry
	capacity int
	now      func() time.Time
}

// NewMemoryStore 创建进程内存储，capacity非正时取默认容量
func NewMemoryStore(capacity int) *MemoryStore {
	return NewMemoryStoreWithClock(capacity, time.Now)
}

// NewMemoryStoreWithClock 创建带注入时钟的进程内存储，用于测试TTL行为
func NewMemoryStoreWithClock(capacity int, now func() time.Time) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &MemoryStore{
		entries:  make(map[string]*cacheEntry),
		history:  make([]models.HistoryEntry, 0),
		capacity: capacity,
		now:      now,
	}
}

func cacheKey(entityID, moduleID string) string {
	return entityID + ":" + moduleID
}

// GetResult 查询缓存结果，过期条目被删除并按未命中处理
func (s *MemoryStore) GetResult(ctx context.Context, entityID, moduleID string) (*models.RecommendationResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cacheKey(entityID, moduleID)
	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if entry.expired(s.now()) {
		delete(s.entries, key)
		return nil, false
	}
	return entry.result, true
}

// PutResult 写入缓存结果，后写覆盖
func (s *MemoryStore) PutResult(ctx context.Context, result *models.RecommendationResult, ttl time.Duration) {
	if result == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[cacheKey(result.EntityID, result.ModuleID)] = &cacheEntry{
		result:    result,
		createdAt: s.now(),
		ttl:       ttl,
	}
}

// AppendHistory 追加历史记录，超出容量时按FIFO淘汰最旧记录
func (s *MemoryStore) AppendHistory(ctx context.Context, entry models.HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, entry)
	if len(s.history) > s.capacity {
		s.history = s.history[len(s.history)-s.capacity:]
	}
}

// RecentHistory 按时间倒序返回实体最近的历史记录
func (s *MemoryStore) RecentHistory(ctx context.Context, entityID string, limit int) []models.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	recent := make([]models.HistoryEntry, 0, limit)
	for i := len(s.history) - 1; i >= 0 && len(recent) < limit; i-- {
		if s.history[i].EntityID == entityID {
			recent = append(recent, s.history[i])
		}
	}
	return recent
}

// HistoryLen 返回当前历史日志长度
func (s *MemoryStore) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
