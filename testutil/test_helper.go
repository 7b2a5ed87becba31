/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试数据库和实体数据工厂
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite
 * @refs service/models
 */

package testutil

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recommendation-service/service/models"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	if err := db.AutoMigrate(&models.AssessmentReport{}); err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	tdb.DB.Exec("DELETE FROM assessment_reports")
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// HealthyProject 构造各项指标均处于健康区间的项目实体
func HealthyProject(id string) models.Entity {
	return models.Entity{
		"id":              id,
		"openIssues":      0,
		"defectRate":      0.5,
		"reworkRate":      2,
		"kpi":             95,
		"completion":      90,
		"onTimeDelivery":  92,
		"auditDelayDays":  0,
		"openFindings":    0,
		"complianceRate":  98,
		"resourceBalance": 80,
		"budgetUsage":     60,
		"utilization":     78,
	}
}

// TroubledProject 构造多项指标处于风险区间的项目实体
func TroubledProject(id string) models.Entity {
	return models.Entity{
		"id":              id,
		"openIssues":      8,
		"defectRate":      9,
		"reworkRate":      18,
		"kpi":             55,
		"completion":      35,
		"onTimeDelivery":  45,
		"auditDelayDays":  15,
		"openFindings":    7,
		"complianceRate":  65,
		"resourceBalance": 25,
		"budgetUsage":     96,
		"utilization":     35,
	}
}
