/*
 * @module service/scheduler/insight_scheduler
 * @description 全局洞察定时任务，周期性拉取实体群体并执行系统级分析，多实例部署时通过分布式锁防重
 * @architecture 分层架构 - 调度层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow cron触发 -> 获取分布式锁 -> 拉取群体 -> 全局洞察 -> 回调下发
 * @rules 单次任务失败只记录日志，不影响后续调度；未配置分布式锁时单实例直接执行
 * @dependencies github.com/robfig/cron/v3, recommendation-service/service/recommendation
 * @refs service/distributed_lock/redis_lock.go, service/init.go
 */

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"recommendation-service/service/distributed_lock"
	"recommendation-service/service/models"
	"recommendation-service/service/recommendation"
)

const (
	insightLockKey = "system_insights"
	insightLockTTL = 5 * time.Minute
	// 默认每小时整点执行
	defaultInsightCron = "0 0 * * * *"
)

// PopulationProvider 实体群体数据源
type PopulationProvider interface {
	FetchPopulation(ctx context.Context) ([]models.Entity, error)
}

// InsightScheduler 全局洞察调度器
type InsightScheduler struct {
	engine   *recommendation.Engine
	provider PopulationProvider
	lock     distributed_lock.DistributedLock // 可为nil，单实例部署时不需要
	cron     *cron.Cron
	entryID  cron.EntryID

	// OnInsights 洞察完成后的回调，可为nil
	OnInsights func(ctx context.Context, insights *models.SystemInsights)
}

// NewInsightScheduler 创建全局洞察调度器
func NewInsightScheduler(engine *recommendation.Engine, provider PopulationProvider, lock distributed_lock.DistributedLock) *InsightScheduler {
	return &InsightScheduler{
		engine:   engine,
		provider: provider,
		lock:     lock,
		cron:     cron.New(cron.WithSeconds()),
	}
}

// Start 注册cron任务并启动调度，表达式从环境变量INSIGHT_CRON读取
func (s *InsightScheduler) Start() error {
	spec := getEnvWithDefault("INSIGHT_CRON", defaultInsightCron)

	entryID, err := s.cron.AddFunc(spec, s.runOnce)
	if err != nil {
		return fmt.Errorf("注册洞察定时任务失败: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	slog.Info("全局洞察调度器已启动", "cron", spec)
	return nil
}

// Stop 停止调度，等待正在执行的任务完成
func (s *InsightScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("全局洞察调度器已停止")
}

// runOnce 执行一次全局洞察任务
func (s *InsightScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), insightLockTTL)
	defer cancel()

	if s.lock == nil {
		if err := s.analyze(ctx); err != nil {
			slog.Error("全局洞察任务执行失败", "error", err)
		}
		return
	}

	err := distributed_lock.ExecuteWithLock(ctx, s.lock, insightLockKey, insightLockTTL, func() error {
		return s.analyze(ctx)
	})
	if err != nil {
		slog.Error("全局洞察任务执行失败", "error", err)
	}
}

// analyze 拉取群体并执行系统级分析
func (s *InsightScheduler) analyze(ctx context.Context) error {
	startTime := time.Now()

	population, err := s.provider.FetchPopulation(ctx)
	if err != nil {
		return fmt.Errorf("拉取实体群体失败: %w", err)
	}

	insights, err := s.engine.GetSystemWideInsights(ctx, population)
	if err != nil {
		return fmt.Errorf("全局洞察分析失败: %w", err)
	}

	slog.Info("全局洞察分析完成",
		"entity_count", insights.Health.EntityCount,
		"average_score", insights.Health.AverageScore,
		"pattern_count", len(insights.Patterns),
		"duration", time.Since(startTime))

	if s.OnInsights != nil {
		s.OnInsights(ctx, insights)
	}
	return nil
}

// getEnvWithDefault 获取环境变量，不存在时返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
