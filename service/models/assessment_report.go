/*
 * @module service/models/assessment_report
 * @description 评估报告持久化模型，保存每次推荐评估的结果快照
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 评估完成 -> 报告落库 -> 历史查询
 * @rules 报告一经生成不再修改
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/recommendation/report_service.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssessmentReport 推荐评估报告
type AssessmentReport struct {
	ID           string           `gorm:"type:uuid;primary_key" json:"id"`
	EntityID     string           `gorm:"not null;index" json:"entity_id"`
	ModuleID     string           `gorm:"not null;index" json:"module_id"`
	OverallScore float64          `gorm:"not null" json:"overall_score"`
	RiskLevel    string           `gorm:"not null" json:"risk_level"`
	Confidence   float64          `gorm:"not null" json:"confidence"`
	Insights     JSONB            `gorm:"type:jsonb" json:"insights"`
	ActionItems  JSONB            `gorm:"type:jsonb" json:"action_items"`
	Sources      JSONBStringArray `gorm:"type:jsonb" json:"sources"`
	GeneratedAt  time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"generated_at"`
	GeneratedBy  string           `gorm:"not null;default:'system';size:100" json:"generated_by"`
}

// BeforeCreate 创建前钩子
func (r *AssessmentReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.GeneratedBy == "" {
		r.GeneratedBy = "system"
	}
	return nil
}
