/*
 * @module service/recommendation/population_analyzer
 * @description 群体分析器，对全体实体做阈值模式扫描、条件频率关联和简单前瞻推演
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 占比统计 -> 模式判定 -> 条件频率比对 -> 推演输出
 * @rules 全部阈值与系数来自AnalyzerConfig的固定配置，不做统计推断；关联结果仅供人工复核
 * @dependencies recommendation-service/service/models
 * @refs engine.go, service/scheduler
 */

package recommendation

import (
	"fmt"
	"math"

	"recommendation-service/service/models"
)

// DetectPatterns 扫描群体中的阈值模式，占比达到固定阈值时产出模式信号
func (e *Engine) DetectPatterns(population []models.Entity) []models.Pattern {
	patterns := make([]models.Pattern, 0)
	if len(population) == 0 {
		return patterns
	}
	cfg := e.config.Analyzer

	type patternCheck struct {
		patternType    string
		ratio          float64
		message        string
		recommendation string
	}

	checks := []patternCheck{
		{
			patternType:    "quality-degradation",
			ratio:          matchRatio(population, "openIssues", models.OperatorGT, cfg.HighIssueBound),
			message:        fmt.Sprintf("未解决问题数超过 %.0f 的项目占比偏高", cfg.HighIssueBound),
			recommendation: "建议跨项目组织质量专项治理，优先消化问题积压",
		},
		{
			patternType:    "performance-decline",
			ratio:          matchRatio(population, "kpi", models.OperatorLT, cfg.LowKPIBound),
			message:        fmt.Sprintf("KPI 低于 %.0f 的项目占比偏高", cfg.LowKPIBound),
			recommendation: "建议复盘绩效目标设定与执行偏差，必要时调整资源倾斜",
		},
		{
			patternType:    "resource-strain",
			ratio:          matchRatio(population, "resourceBalance", models.OperatorLT, cfg.LowResourceBound),
			message:        fmt.Sprintf("资源均衡度低于 %.0f 的项目占比偏高", cfg.LowResourceBound),
			recommendation: "建议重新评估资源分配方案，缓解资源紧张项目的压力",
		},
		{
			patternType:    "audit-backlog",
			ratio:          matchRatio(population, "auditDelayDays", models.OperatorGT, cfg.AuditDelayBound),
			message:        fmt.Sprintf("审计延期超过 %.0f 天的项目占比偏高", cfg.AuditDelayBound),
			recommendation: "建议集中清理审计积压，并检查审计流程瓶颈",
		},
	}

	for _, check := range checks {
		if check.ratio < cfg.PatternRatioThreshold {
			continue
		}
		patterns = append(patterns, models.Pattern{
			Type:           check.patternType,
			Severity:       e.patternSeverity(check.ratio),
			Ratio:          check.ratio,
			Message:        fmt.Sprintf("%s（当前占比 %.0f%%）", check.message, check.ratio*100),
			Recommendation: check.recommendation,
		})
	}

	return patterns
}

// patternSeverity 按占比确定模式严重程度
func (e *Engine) patternSeverity(ratio float64) models.RiskLevel {
	if ratio >= e.config.Analyzer.SevereRatioThreshold {
		return models.RiskCritical
	}
	return models.RiskHigh
}

// FindCorrelations 计算两组二元条件间的条件频率
// 条件频率相对无条件基准频率的提升超过固定倍数时产出关联信号
func (e *Engine) FindCorrelations(population []models.Entity) []models.Correlation {
	correlations := make([]models.Correlation, 0)
	if len(population) == 0 {
		return correlations
	}
	cfg := e.config.Analyzer

	// 低KPI项目中高问题数的条件频率
	if correlation := e.conditionalCorrelation(population,
		"kpi", models.OperatorLT, cfg.LowKPIBound,
		"openIssues", models.OperatorGT, cfg.HighIssueBound,
		[]string{"performance", "quality"},
		"低KPI项目中 %.0f%% 同时存在高问题数（整体基准 %.0f%%）",
	); correlation != nil {
		correlations = append(correlations, *correlation)
	}

	// 资源失衡项目中预算超限的条件频率
	if correlation := e.conditionalCorrelation(population,
		"resourceBalance", models.OperatorLT, cfg.LowResourceBound,
		"budgetUsage", models.OperatorGT, cfg.HighBudgetBound,
		[]string{"resource", "performance"},
		"资源失衡项目中 %.0f%% 同时预算超限（整体基准 %.0f%%）",
	); correlation != nil {
		correlations = append(correlations, *correlation)
	}

	return correlations
}

// conditionalCorrelation 统计满足条件A的实体中同时满足条件B的占比，并与B的无条件基准比较
func (e *Engine) conditionalCorrelation(population []models.Entity,
	conditionField string, conditionOp models.ConditionOperator, conditionBound float64,
	targetField string, targetOp models.ConditionOperator, targetBound float64,
	modules []string, messageFormat string) *models.Correlation {

	baseRate := matchRatio(population, targetField, targetOp, targetBound)
	if baseRate == 0 {
		return nil
	}

	conditioned := make([]models.Entity, 0)
	for _, entity := range population {
		if compare(attributeValue(entity, conditionField), conditionOp, conditionBound) {
			conditioned = append(conditioned, entity)
		}
	}
	if len(conditioned) == 0 {
		return nil
	}

	conditionalRate := matchRatio(conditioned, targetField, targetOp, targetBound)
	if conditionalRate < baseRate*e.config.Analyzer.CorrelationLiftMin {
		return nil
	}

	strength := "moderate"
	if conditionalRate >= 0.75 {
		strength = "strong"
	}

	return &models.Correlation{
		Modules:     modules,
		Strength:    strength,
		Correlation: conditionalRate,
		Message:     fmt.Sprintf(messageFormat, conditionalRate*100, baseRate*100),
		Confidence:  math.Min(0.9, 0.5+0.4*conditionalRate),
	}
}

// GeneratePredictions 基于固定系数做简单前瞻推演，返回带时间范围标签的有界置信度预测
func (e *Engine) GeneratePredictions(population []models.Entity) []models.Prediction {
	predictions := make([]models.Prediction, 0)
	if len(population) == 0 {
		return predictions
	}
	cfg := e.config.Analyzer

	averageBudget := averageValue(population, "budgetUsage")
	if projected := averageBudget * cfg.BudgetProjectionMultiplier; projected > 100 {
		predictions = append(predictions, models.Prediction{
			Type:       "budget-overrun",
			Message:    fmt.Sprintf("按当前消耗速度推演，平均预算使用率将达到 %.0f%%，存在超支风险", projected),
			Timeframe:  "下一季度",
			Confidence: 0.7,
		})
	}

	averageIssues := averageValue(population, "openIssues")
	if projected := averageIssues * cfg.IssueProjectionMultiplier; projected > cfg.HighIssueBound {
		predictions = append(predictions, models.Prediction{
			Type:       "issue-backlog",
			Message:    fmt.Sprintf("按当前趋势推演，平均未解决问题数将达到 %.1f，超过高位界限 %.0f", projected, cfg.HighIssueBound),
			Timeframe:  "未来30天",
			Confidence: 0.65,
		})
	}

	return predictions
}

// matchRatio 统计满足条件的实体占比
func matchRatio(population []models.Entity, field string, operator models.ConditionOperator, bound float64) float64 {
	if len(population) == 0 {
		return 0
	}
	matched := 0
	for _, entity := range population {
		if compare(attributeValue(entity, field), operator, bound) {
			matched++
		}
	}
	return float64(matched) / float64(len(population))
}

// averageValue 统计字段平均值
func averageValue(population []models.Entity, field string) float64 {
	if len(population) == 0 {
		return 0
	}
	total := 0.0
	for _, entity := range population {
		total += attributeValue(entity, field)
	}
	return total / float64(len(population))
}
