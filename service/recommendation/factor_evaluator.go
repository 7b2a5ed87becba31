/*
 * @module service/recommendation/factor_evaluator
 * @description 因子评估器，将实体属性按模块因子表的阈值和方向分级，产出非良好因子的洞察
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 属性读取 -> 数值转换 -> 阈值分级 -> 洞察输出
 * @rules 缺失或无法解析的属性值按0处理，方向由因子显式声明而非阈值比较推断
 * @dependencies recommendation-service/service/models, github.com/spf13/cast
 * @refs engine.go, scoring.go
 */

package recommendation

import (
	"strings"

	"recommendation-service/service/models"

	"github.com/spf13/cast"
)

// EvaluateFactors 按模块因子表评估实体，返回所有非良好因子的洞察
// 纯函数，无副作用
func (e *Engine) EvaluateFactors(entity models.Entity, moduleID string) ([]models.Insight, error) {
	factors, err := e.moduleFactors(moduleID)
	if err != nil {
		return nil, err
	}

	insights := make([]models.Insight, 0)
	for _, factor := range factors {
		value := attributeValue(entity, factor.Field)
		level := classifyFactor(value, factor)
		if level == models.LevelGood {
			continue
		}

		insights = append(insights, models.Insight{
			Factor:  factor.Field,
			Value:   value,
			Level:   level,
			Message: factor.Recommendations[level],
			Impacts: factor.Impacts,
			Weight:  factor.Weight,
		})
	}

	return insights, nil
}

// classifyFactor 按因子方向对值分级
// descending: 值越高越差，达到critical断点即为critical
// ascending: 值越高越好，低于critical断点即为critical
// 实体缺失该属性时值为0，是否触发洞察取决于方向，不做静默跳过
func classifyFactor(value float64, factor models.FactorDefinition) models.FactorLevel {
	switch factor.Direction {
	case models.DirectionDescending:
		if value >= factor.Threshold.Critical {
			return models.LevelCritical
		}
		if value >= factor.Threshold.Warning {
			return models.LevelWarning
		}
		return models.LevelGood
	default:
		if value <= factor.Threshold.Critical {
			return models.LevelCritical
		}
		if value <= factor.Threshold.Warning {
			return models.LevelWarning
		}
		return models.LevelGood
	}
}

// attributeValue 读取实体属性并转换为数值
// 百分比字符串去掉%后缀后解析；缺失、空值、"N/A"或无法解析的值按0处理
func attributeValue(entity models.Entity, field string) float64 {
	raw, ok := entity[field]
	if !ok || raw == nil {
		return 0
	}

	if str, ok := raw.(string); ok {
		str = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(str), "%"))
		if str == "" || strings.EqualFold(str, "N/A") {
			return 0
		}
		value, err := cast.ToFloat64E(str)
		if err != nil {
			return 0
		}
		return value
	}

	value, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0
	}
	return value
}
