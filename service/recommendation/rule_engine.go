/*
 * @module service/recommendation/rule_engine
 * @description 声明式规则引擎，对单个实体及全体实体评估规则条件，返回触发的规则子集
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 规则遍历 -> 条件评估 -> 触发判定
 * @rules 单条规则评估异常按未触发处理并记录告警，不中断其余规则的评估
 * @dependencies recommendation-service/service/models, log/slog
 * @refs engine.go, defaults.go
 */

package recommendation

import (
	"fmt"
	"log/slog"

	"recommendation-service/service/models"
)

// EvaluateRules 评估全部已启用规则，返回触发的规则子集
// 返回顺序不承诺与声明顺序一致，下游按优先级排序使用
func (e *Engine) EvaluateRules(entity models.Entity, population []models.Entity) []models.RuleDefinition {
	triggered := make([]models.RuleDefinition, 0)
	for _, rule := range e.config.Rules {
		if !rule.IsEnabled {
			continue
		}
		if e.ruleTriggered(rule, entity, population) {
			triggered = append(triggered, rule)
		}
	}
	return triggered
}

// ruleTriggered 判定单条规则是否触发，所有条件同时满足才算触发
// 条件评估发生panic时按未触发处理
func (e *Engine) ruleTriggered(rule models.RuleDefinition, entity models.Entity, population []models.Entity) (triggered bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("规则评估异常，按未触发处理", "rule_id", rule.ID, "error", r)
			if e.metrics != nil {
				e.metrics.IncRuleFailure(rule.ID)
			}
			triggered = false
		}
	}()

	if len(rule.Conditions) == 0 {
		return false
	}

	for _, condition := range rule.Conditions {
		if !evaluateCondition(condition, entity, population) {
			return false
		}
	}
	return true
}

// evaluateCondition 评估单个条件
// population作用域下统计满足条件实体的占比，与MinRatio比较；群体为空时条件不成立
func evaluateCondition(condition models.RuleCondition, entity models.Entity, population []models.Entity) bool {
	switch condition.Scope {
	case models.ScopePopulation:
		if len(population) == 0 {
			return false
		}
		matched := 0
		for _, member := range population {
			if compare(attributeValue(member, condition.Field), condition.Operator, condition.Value) {
				matched++
			}
		}
		return float64(matched)/float64(len(population)) >= condition.MinRatio
	default:
		return compare(attributeValue(entity, condition.Field), condition.Operator, condition.Value)
	}
}

// compare 数值比较，未知操作符视为规则配置错误
func compare(value float64, operator models.ConditionOperator, target float64) bool {
	switch operator {
	case models.OperatorGT:
		return value > target
	case models.OperatorGTE:
		return value >= target
	case models.OperatorLT:
		return value < target
	case models.OperatorLTE:
		return value <= target
	case models.OperatorEQ:
		return value == target
	case models.OperatorNEQ:
		return value != target
	default:
		panic(fmt.Sprintf("未知条件操作符: %s", operator))
	}
}
