/*
 * @module service/recommendation/scoring
 * @description 评分聚合与风险分级，将因子评估结果按权重聚合为0-100总分并映射为离散风险等级
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 因子分级 -> 等级子分映射 -> 加权平均 -> 风险分级
 * @rules 总权重为0时返回中性评分50，总分始终限制在[0,100]
 * @dependencies recommendation-service/service/models
 * @refs engine.go, factor_evaluator.go
 */

package recommendation

import (
	"math"

	"recommendation-service/service/models"
)

const (
	// NeutralScore 总权重为0时的中性评分
	// 这是一个策略常量而非推导结果，调整前需要评估对风险分级的影响
	NeutralScore = 50.0
	// MaxScore 评分上限
	MaxScore = 100.0
)

// 因子等级对应的子分
var levelSubScores = map[models.FactorLevel]float64{
	models.LevelCritical: 30,
	models.LevelWarning:  60,
	models.LevelGood:     90,
}

// AggregateScore 对实体在指定模块下做加权平均评分，返回[0,100]内的总分
// 权重非正的因子不参与聚合
func (e *Engine) AggregateScore(entity models.Entity, moduleID string) (float64, error) {
	factors, err := e.moduleFactors(moduleID)
	if err != nil {
		return 0, err
	}

	totalScore := 0.0
	totalWeight := 0.0
	for _, factor := range factors {
		if factor.Weight <= 0 {
			continue
		}
		value := attributeValue(entity, factor.Field)
		level := classifyFactor(value, factor)
		totalScore += levelSubScores[level] * factor.Weight
		totalWeight += factor.Weight
	}

	if totalWeight == 0 {
		return NeutralScore, nil
	}

	return clampScore(totalScore / totalWeight), nil
}

// ClassifyRisk 由总分和触发规则数确定风险等级
// 分级断点是固定设计常量
func ClassifyRisk(score float64, triggered []models.RuleDefinition) models.RiskLevel {
	highPriorityCount := 0
	for _, rule := range triggered {
		if rule.Priority == models.PriorityHigh || rule.Priority == models.PriorityCritical {
			highPriorityCount++
		}
	}

	switch {
	case score < 60 || highPriorityCount > 2:
		return models.RiskCritical
	case score < 75 || highPriorityCount > 0:
		return models.RiskHigh
	case score < 85:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func clampScore(score float64) float64 {
	return math.Max(0, math.Min(MaxScore, score))
}
