/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、缓存选型、推荐引擎与事件监听的装配
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules 数据库与Redis均为可选依赖，未配置时引擎以内存模式运行
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs main.go
 */

package service

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"recommendation-service/service/distributed_lock"
	"recommendation-service/service/event"
	"recommendation-service/service/models"
	"recommendation-service/service/monitoring"
	"recommendation-service/service/recommendation"
	"recommendation-service/service/scheduler"
)

var (
	DB                  *gorm.DB
	GlobalMetrics       *monitoring.EngineMetrics
	GlobalEngine        *recommendation.Engine
	GlobalReportService *recommendation.ReportService
	GlobalLock          *distributed_lock.RedisLock
	GlobalListener      *event.ChangeListener
)

func init() {
	GlobalMetrics = monitoring.NewEngineMetrics()

	initDatabase()
	initEngine()
	initChangeListener()
}

// initDatabase 初始化数据库连接，未配置时跳过报告持久化
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else if os.Getenv("DB_HOST") != "" {
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "things2024")
		dbname := getEnvWithDefault("DB_NAME", "postgres")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=Asia/Shanghai",
			host, port, user, password, dbname, sslmode, schema)
	} else {
		log.Println("未配置数据库，评估报告持久化已禁用")
		return
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	if err := DB.AutoMigrate(&models.AssessmentReport{}); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	GlobalReportService = recommendation.NewReportService(DB)
	log.Println("数据库连接成功")
}

// initEngine 装配推荐引擎，优先使用Redis结果缓存
func initEngine() {
	opts := []recommendation.Option{
		recommendation.WithMetrics(GlobalMetrics),
	}

	if os.Getenv("REDIS_HOST") != "" {
		store, err := recommendation.NewRedisResultStore(recommendation.DefaultHistoryCapacity)
		if err != nil {
			log.Printf("Redis结果缓存初始化失败，降级为内存缓存: %v", err)
		} else {
			opts = append(opts, recommendation.WithStore(store))
		}

		lock, err := distributed_lock.NewRedisLock()
		if err != nil {
			log.Printf("Redis分布式锁初始化失败，调度任务将不做多实例防重: %v", err)
		} else {
			GlobalLock = lock
		}
	}

	GlobalEngine = recommendation.NewEngine(nil, opts...)
	log.Println("推荐引擎初始化完成")
}

// initChangeListener 启动数据库变更监听，未配置数据库时跳过
func initChangeListener() {
	if DB == nil {
		return
	}

	publisher := buildImpactPublisher()
	GlobalListener = event.NewChangeListener(GlobalEngine, publisher)
	if err := GlobalListener.Start(); err != nil {
		log.Printf("启动数据库变更监听失败: %v", err)
	}
}

// buildImpactPublisher 按环境变量选择影响发布通道，未配置时返回nil
func buildImpactPublisher() event.ImpactPublisher {
	switch getEnvWithDefault("IMPACT_PUBLISHER", "") {
	case "mqtt":
		publisher, err := event.NewMQTTImpactPublisher()
		if err != nil {
			log.Printf("MQTT影响发布器初始化失败: %v", err)
			return nil
		}
		return publisher
	case "kafka":
		return event.NewKafkaImpactPublisher()
	default:
		return nil
	}
}

// StartInsightScheduler 启动全局洞察定时任务
func StartInsightScheduler(provider scheduler.PopulationProvider) (*scheduler.InsightScheduler, error) {
	var lock distributed_lock.DistributedLock
	if GlobalLock != nil {
		lock = GlobalLock
	}

	insightScheduler := scheduler.NewInsightScheduler(GlobalEngine, provider, lock)
	if err := insightScheduler.Start(); err != nil {
		return nil, err
	}
	return insightScheduler, nil
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
