/*
 * @module service/recommendation/report_service
 * @description 评估报告持久化服务，将推荐评估结果落库并支持按实体查询历史报告
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 评估完成 -> 构建报告 -> 落库 -> 历史查询
 * @rules 报告只增不改；落库失败不影响评估结果返回
 * @dependencies gorm.io/gorm
 * @refs service/models/assessment_report.go
 */

package recommendation

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"recommendation-service/service/models"
)

// ReportService 评估报告服务
type ReportService struct {
	db *gorm.DB
}

// NewReportService 创建评估报告服务实例
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// SaveAssessment 保存一次评估结果的报告快照
func (s *ReportService) SaveAssessment(ctx context.Context, result *models.RecommendationResult) (*models.AssessmentReport, error) {
	if result == nil {
		return nil, fmt.Errorf("评估结果为空")
	}

	insights := make([]interface{}, 0, len(result.Insights))
	for _, insight := range result.Insights {
		insights = append(insights, map[string]interface{}{
			"factor":  insight.Factor,
			"value":   insight.Value,
			"level":   string(insight.Level),
			"message": insight.Message,
		})
	}
	actionItems := make([]interface{}, 0, len(result.ActionItems))
	for _, item := range result.ActionItems {
		actionItems = append(actionItems, map[string]interface{}{
			"action":   item.Action,
			"priority": string(item.Priority),
		})
	}

	report := &models.AssessmentReport{
		ID:           result.AssessmentID,
		EntityID:     result.EntityID,
		ModuleID:     result.ModuleID,
		OverallScore: result.OverallScore,
		RiskLevel:    string(result.RiskLevel),
		Confidence:   result.Confidence,
		Insights:     models.JSONB{"items": insights},
		ActionItems:  models.JSONB{"items": actionItems},
		Sources:      models.JSONBStringArray(result.Sources),
		GeneratedAt:  result.GeneratedAt,
	}

	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, fmt.Errorf("保存评估报告失败: %w", err)
	}
	return report, nil
}

// ListByEntity 查询某实体的历史评估报告，按生成时间倒序
func (s *ReportService) ListByEntity(ctx context.Context, entityID string, limit int) ([]models.AssessmentReport, error) {
	if limit <= 0 {
		limit = 20
	}
	var reports []models.AssessmentReport
	err := s.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("generated_at DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("查询评估报告失败: %w", err)
	}
	return reports, nil
}
