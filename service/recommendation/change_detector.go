/*
 * @module service/recommendation/change_detector
 * @description 变更检测与影响传播，比对实体前后快照的风险相关字段，评估各模块需要如何响应
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 白名单字段比对 -> 变更分类 -> 领域规则判定 -> 影响传播
 * @rules 只比对白名单内的风险相关字段；紧急判定按显式领域规则分支，新变更类型以新增分支扩展
 * @dependencies recommendation-service/service/models
 * @refs engine.go, service/event/change_listener.go
 */

package recommendation

import (
	"context"
	"fmt"
	"time"

	"recommendation-service/service/models"
)

// significantFields 变更检测的字段白名单，只有风险相关字段参与比对
var significantFields = []string{
	"openIssues",
	"kpi",
	"auditDelayDays",
	"resourceBalance",
	"budgetUsage",
	"completion",
}

// 紧急判定的固定界限
const (
	openIssuesUrgentBound = 5.0
	kpiUrgentBound        = 70.0
	auditDelayUrgentBound = 7.0
	budgetUrgentBound     = 90.0
)

// DetectChanges 比对同一实体的两个快照，返回白名单字段中发生变化的记录
func DetectChanges(oldEntity, newEntity models.Entity) []models.ChangeRecord {
	changes := make([]models.ChangeRecord, 0)
	for _, field := range significantFields {
		oldValue := attributeValue(oldEntity, field)
		newValue := attributeValue(newEntity, field)

		changeType := classifyChange(oldValue, newValue)
		if changeType == models.ChangeUnchanged {
			continue
		}

		changes = append(changes, models.ChangeRecord{
			Field:      field,
			OldValue:   oldValue,
			NewValue:   newValue,
			ChangeType: changeType,
		})
	}
	return changes
}

// classifyChange 按数值比较对变更分类
func classifyChange(oldValue, newValue float64) models.ChangeType {
	switch {
	case newValue > oldValue:
		return models.ChangeIncreased
	case newValue < oldValue:
		return models.ChangeDecreased
	default:
		return models.ChangeUnchanged
	}
}

// AssessChangeImpact 评估单条变更的影响范围与紧急程度
// 影响范围由模块关联图决定；紧急判定是显式的领域规则分支
func (e *Engine) AssessChangeImpact(change models.ChangeRecord, entity models.Entity, sourceModule string) models.ChangeAssessment {
	assessment := models.ChangeAssessment{
		AffectedModules:   make([]string, 0),
		PropagationNeeded: make([]models.PropagationTarget, 0),
	}

	if connection, ok := e.config.Connections[sourceModule]; ok {
		assessment.AffectedModules = append(assessment.AffectedModules, connection.ImpactedModules...)
	}

	reason := fmt.Sprintf("%s 由 %.0f 变为 %.0f（%s），需要重新评估",
		change.Field, change.OldValue, change.NewValue, changeTypeLabel(change.ChangeType))
	for _, module := range assessment.AffectedModules {
		assessment.PropagationNeeded = append(assessment.PropagationNeeded, models.PropagationTarget{
			Module: module,
			Reason: reason,
		})
	}

	switch {
	case change.Field == "openIssues" && change.ChangeType == models.ChangeIncreased && change.NewValue > openIssuesUrgentBound:
		assessment.Urgent = true
		assessment.UrgentAction = fmt.Sprintf("未解决问题数升至 %.0f，超过告警线 %.0f，请立即安排问题处理", change.NewValue, openIssuesUrgentBound)
	case change.Field == "kpi" && change.ChangeType == models.ChangeDecreased && change.NewValue < kpiUrgentBound:
		assessment.Urgent = true
		assessment.UrgentAction = fmt.Sprintf("KPI 降至 %.0f，低于告警线 %.0f，请核查绩效下滑原因", change.NewValue, kpiUrgentBound)
	case change.Field == "auditDelayDays" && change.ChangeType == models.ChangeIncreased && change.NewValue > auditDelayUrgentBound:
		assessment.Urgent = true
		assessment.UrgentAction = fmt.Sprintf("审计延期达到 %.0f 天，超过告警线 %.0f 天，请尽快补交审计材料", change.NewValue, auditDelayUrgentBound)
	case change.Field == "budgetUsage" && change.ChangeType == models.ChangeIncreased && change.NewValue > budgetUrgentBound:
		assessment.Urgent = true
		assessment.UrgentAction = fmt.Sprintf("预算使用率达到 %.0f%%，超过告警线 %.0f%%，请启动预算管控", change.NewValue, budgetUrgentBound)
	}

	return assessment
}

// AnalyzeChange 比对实体前后快照并汇总整体变更影响
func (e *Engine) AnalyzeChange(ctx context.Context, oldEntity, newEntity models.Entity, moduleID string) (*models.ChangeImpact, error) {
	if _, err := e.moduleFactors(moduleID); err != nil {
		return nil, err
	}

	if err := e.simulateProcessing(ctx); err != nil {
		return nil, err
	}

	impact := &models.ChangeImpact{
		EntityID:          newEntity.ID(),
		SourceModule:      moduleID,
		Changes:           DetectChanges(oldEntity, newEntity),
		AffectedModules:   make([]string, 0),
		PropagationNeeded: make([]models.PropagationTarget, 0),
		UrgentActions:     make([]string, 0),
		Predictions:       make([]string, 0),
		AnalyzedAt:        time.Now(),
	}

	seenModules := make(map[string]bool)
	seenPropagation := make(map[string]bool)
	for _, change := range impact.Changes {
		assessment := e.AssessChangeImpact(change, newEntity, moduleID)

		for _, module := range assessment.AffectedModules {
			if !seenModules[module] {
				seenModules[module] = true
				impact.AffectedModules = append(impact.AffectedModules, module)
			}
		}
		for _, target := range assessment.PropagationNeeded {
			key := target.Module + "|" + target.Reason
			if !seenPropagation[key] {
				seenPropagation[key] = true
				impact.PropagationNeeded = append(impact.PropagationNeeded, target)
			}
		}
		if assessment.Urgent && assessment.UrgentAction != "" {
			impact.UrgentActions = append(impact.UrgentActions, assessment.UrgentAction)
		}
		if prediction := changePrediction(change); prediction != "" {
			impact.Predictions = append(impact.Predictions, prediction)
		}
	}

	impact.Confidence = e.EstimateConfidence(
		e.DataQuality(newEntity),
		e.HistoricalAccuracy(ctx, impact.EntityID),
		e.ContextRelevance(newEntity, moduleID),
	)

	return impact, nil
}

// changePrediction 对单条变更给出简单前瞻性提示，无可提示内容时返回空串
func changePrediction(change models.ChangeRecord) string {
	switch {
	case change.Field == "openIssues" && change.ChangeType == models.ChangeIncreased:
		return "若问题数保持当前增速，质量风险预计将在两周内升级"
	case change.Field == "kpi" && change.ChangeType == models.ChangeDecreased:
		return "KPI 持续走低可能带动关联模块绩效下滑，建议提前介入"
	case change.Field == "budgetUsage" && change.ChangeType == models.ChangeIncreased:
		return "按当前消耗速度，预算可能在本周期结束前用尽"
	default:
		return ""
	}
}

func changeTypeLabel(changeType models.ChangeType) string {
	switch changeType {
	case models.ChangeIncreased:
		return "上升"
	case models.ChangeDecreased:
		return "下降"
	default:
		return "不变"
	}
}
