/*
 * @module service/recommendation/cache_test
 * @description 进程内结果缓存与历史日志单元测试
 * @architecture 单元测试
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 注入测试时钟 -> 缓存读写 -> 验证TTL过期与容量淘汰
 * @rules TTL行为通过可注入时钟验证，不依赖真实时间流逝
 * @dependencies testing, github.com/stretchr/testify
 * @refs cache.go
 */

package recommendation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recommendation-service/service/models"
)

func TestMemoryStore_TTLExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	store := NewMemoryStoreWithClock(DefaultHistoryCapacity, clock)
	ctx := context.Background()

	result := &models.RecommendationResult{AssessmentID: "a1", EntityID: "p1", ModuleID: ModuleQuality}
	store.PutResult(ctx, result, 5*time.Minute)

	cached, ok := store.GetResult(ctx, "p1", ModuleQuality)
	require.True(t, ok)
	assert.Equal(t, "a1", cached.AssessmentID)

	// TTL内再次命中
	now = now.Add(4 * time.Minute)
	_, ok = store.GetResult(ctx, "p1", ModuleQuality)
	assert.True(t, ok)

	// 超过TTL后按未命中处理
	now = now.Add(2 * time.Minute)
	_, ok = store.GetResult(ctx, "p1", ModuleQuality)
	assert.False(t, ok)
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Now()
	store := NewMemoryStoreWithClock(DefaultHistoryCapacity, func() time.Time { return now })
	ctx := context.Background()

	store.PutResult(ctx, &models.RecommendationResult{AssessmentID: "a1", EntityID: "p1", ModuleID: ModuleQuality}, 0)

	now = now.Add(24 * time.Hour)
	_, ok := store.GetResult(ctx, "p1", ModuleQuality)
	assert.True(t, ok)
}

func TestMemoryStore_KeyIsolation(t *testing.T) {
	store := NewMemoryStore(DefaultHistoryCapacity)
	ctx := context.Background()

	store.PutResult(ctx, &models.RecommendationResult{AssessmentID: "a1", EntityID: "p1", ModuleID: ModuleQuality}, time.Minute)
	store.PutResult(ctx, &models.RecommendationResult{AssessmentID: "a2", EntityID: "p1", ModuleID: ModulePerformance}, time.Minute)

	cached, ok := store.GetResult(ctx, "p1", ModuleQuality)
	require.True(t, ok)
	assert.Equal(t, "a1", cached.AssessmentID)

	cached, ok = store.GetResult(ctx, "p1", ModulePerformance)
	require.True(t, ok)
	assert.Equal(t, "a2", cached.AssessmentID)

	_, ok = store.GetResult(ctx, "p2", ModuleQuality)
	assert.False(t, ok)
}

func TestMemoryStore_HistoryFIFOCapacity(t *testing.T) {
	store := NewMemoryStore(3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		store.AppendHistory(ctx, models.HistoryEntry{
			EntityID: "p1",
			Score:    float64(i * 10),
		})
	}

	assert.Equal(t, 3, store.HistoryLen(), "超出容量后淘汰最旧记录")

	recent := store.RecentHistory(ctx, "p1", 10)
	require.Len(t, recent, 3)
	// 按时间倒序，最新的在前
	assert.Equal(t, 50.0, recent[0].Score)
	assert.Equal(t, 40.0, recent[1].Score)
	assert.Equal(t, 30.0, recent[2].Score)
}

func TestMemoryStore_RecentHistoryFilterAndLimit(t *testing.T) {
	store := NewMemoryStore(DefaultHistoryCapacity)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		store.AppendHistory(ctx, models.HistoryEntry{EntityID: fmt.Sprintf("p%d", i%2), Score: float64(i)})
	}

	recent := store.RecentHistory(ctx, "p0", 2)
	require.Len(t, recent, 2)
	assert.Equal(t, 4.0, recent[0].Score)
	assert.Equal(t, 2.0, recent[1].Score)

	assert.Empty(t, store.RecentHistory(ctx, "unknown", 10))
}
