/*
 * @module service/event/change_listener
 * @description PostgreSQL变更监听器，订阅数据库NOTIFY通知，对实体快照变更执行影响分析并向下游发布
 * @architecture 事件驱动架构 - 监听层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow LISTEN通道 -> 解析变更通知 -> 引擎影响分析 -> 影响发布
 * @rules 单条通知处理失败只记录日志，不中断监听循环
 * @dependencies github.com/lib/pq, recommendation-service/service/recommendation
 * @refs publisher.go, service/recommendation/change_detector.go
 */

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lib/pq"

	"recommendation-service/service/models"
	"recommendation-service/service/recommendation"
)

const changeChannel = "project_changes"

// changeNotification 数据库通知的载荷格式
type changeNotification struct {
	EntityID string        `json:"entity_id"`
	ModuleID string        `json:"module_id"`
	Old      models.Entity `json:"old"`
	New      models.Entity `json:"new"`
}

// ChangeListener 数据库变更监听器
type ChangeListener struct {
	engine    *recommendation.Engine
	publisher ImpactPublisher
	listener  *pq.Listener
	cancel    context.CancelFunc
}

// NewChangeListener 创建变更监听器
func NewChangeListener(engine *recommendation.Engine, publisher ImpactPublisher) *ChangeListener {
	return &ChangeListener{
		engine:    engine,
		publisher: publisher,
	}
}

// buildConnString 构建PostgreSQL连接串，优先使用DATABASE_URL
func buildConnString() string {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		return connStr
	}
	host := getEnvWithDefault("DB_HOST", "localhost")
	port := getEnvWithDefault("DB_PORT", "5432")
	user := getEnvWithDefault("DB_USER", "postgres")
	password := getEnvWithDefault("DB_PASSWORD", "things2024")
	dbname := getEnvWithDefault("DB_NAME", "postgres")
	sslmode := getEnvWithDefault("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)
}

// Start 启动监听循环
func (l *ChangeListener) Start() error {
	l.listener = pq.NewListener(buildConnString(), 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			slog.Warn("PostgreSQL监听器事件", "event", ev, "error", err)
		}
	})

	if err := l.listener.Listen(changeChannel); err != nil {
		return fmt.Errorf("监听数据库通知失败: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel

	go l.loop(ctx)
	slog.Info("数据库变更监听器已启动", "channel", changeChannel)
	return nil
}

// loop 持续消费数据库通知直到被取消
func (l *ChangeListener) loop(ctx context.Context) {
	for {
		select {
		case notification := <-l.listener.Notify:
			if notification != nil {
				l.handleNotification(ctx, notification)
			}
		case <-ctx.Done():
			slog.Info("数据库变更监听器已停止")
			return
		}
	}
}

// handleNotification 处理单条变更通知
func (l *ChangeListener) handleNotification(ctx context.Context, notification *pq.Notification) {
	var change changeNotification
	if err := json.Unmarshal([]byte(notification.Extra), &change); err != nil {
		slog.Warn("解析变更通知失败", "error", err)
		return
	}

	impact, err := l.engine.AnalyzeChange(ctx, change.Old, change.New, change.ModuleID)
	if err != nil {
		slog.Warn("变更影响分析失败", "entity_id", change.EntityID, "module_id", change.ModuleID, "error", err)
		return
	}
	if len(impact.Changes) == 0 {
		return
	}

	if l.publisher != nil {
		if err := l.publisher.PublishImpact(ctx, impact); err != nil {
			slog.Warn("变更影响发布失败", "entity_id", change.EntityID, "error", err)
		}
	}
}

// Stop 停止监听并关闭连接
func (l *ChangeListener) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
	if l.listener != nil {
		if err := l.listener.Close(); err != nil {
			slog.Warn("关闭数据库监听器失败", "error", err)
		}
	}
}
