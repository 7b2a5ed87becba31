/*
 * @module service/recommendation/rule_engine_test
 * @description 规则引擎单元测试，覆盖实体条件、群体占比条件和异常规则的降级处理
 * @architecture 单元测试
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 构造规则配置 -> 规则评估 -> 验证触发子集
 * @rules 异常规则不得中断其余规则的评估
 * @dependencies testing, github.com/stretchr/testify
 * @refs rule_engine.go
 */

package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recommendation-service/service/models"
)

func ruleIDs(rules []models.RuleDefinition) []string {
	ids := make([]string, 0, len(rules))
	for _, rule := range rules {
		ids = append(ids, rule.ID)
	}
	return ids
}

func TestEvaluateRules_EntityCondition(t *testing.T) {
	engine := NewEngine(nil)

	entity := models.Entity{"id": "p1", "openIssues": 6}
	triggered := engine.EvaluateRules(entity, nil)
	assert.Contains(t, ruleIDs(triggered), "rule-quality-open-issues")

	entity = models.Entity{"id": "p1", "openIssues": 5}
	triggered = engine.EvaluateRules(entity, nil)
	assert.NotContains(t, ruleIDs(triggered), "rule-quality-open-issues", "边界值5不超过告警线，不应触发")
}

func TestEvaluateRules_PopulationRatioCondition(t *testing.T) {
	engine := NewEngine(nil)
	entity := models.Entity{"id": "p1", "completion": 40, "kpi": 90}

	// 4/10 的项目进度滞后，达到0.3占比要求
	population := make([]models.Entity, 0, 10)
	for i := 0; i < 4; i++ {
		population = append(population, models.Entity{"completion": 30})
	}
	for i := 0; i < 6; i++ {
		population = append(population, models.Entity{"completion": 90})
	}

	triggered := engine.EvaluateRules(entity, population)
	assert.Contains(t, ruleIDs(triggered), "rule-performance-population-lag")

	// 2/10 不满足占比要求
	population = population[:2]
	for i := 0; i < 8; i++ {
		population = append(population, models.Entity{"completion": 90})
	}
	triggered = engine.EvaluateRules(entity, population)
	assert.NotContains(t, ruleIDs(triggered), "rule-performance-population-lag")

	// 群体为空时population条件不成立
	triggered = engine.EvaluateRules(entity, nil)
	assert.NotContains(t, ruleIDs(triggered), "rule-performance-population-lag")
}

func TestEvaluateRules_BrokenRuleDoesNotAbortOthers(t *testing.T) {
	config := DefaultEngineConfig()
	config.Rules = []models.RuleDefinition{
		{
			ID:   "rule-broken",
			Name: "操作符配置错误的规则",
			Conditions: []models.RuleCondition{
				{Scope: models.ScopeEntity, Field: "openIssues", Operator: "between", Value: 5},
			},
			Priority:  models.PriorityHigh,
			IsEnabled: true,
		},
		{
			ID:   "rule-valid",
			Name: "正常规则",
			Conditions: []models.RuleCondition{
				{Scope: models.ScopeEntity, Field: "openIssues", Operator: models.OperatorGT, Value: 5},
			},
			Priority:  models.PriorityHigh,
			IsEnabled: true,
		},
	}
	engine := NewEngine(config)

	triggered := engine.EvaluateRules(models.Entity{"id": "p1", "openIssues": 6}, nil)
	require.Len(t, triggered, 1)
	assert.Equal(t, "rule-valid", triggered[0].ID)
}

func TestEvaluateRules_DisabledAndEmptyRules(t *testing.T) {
	config := DefaultEngineConfig()
	config.Rules = []models.RuleDefinition{
		{
			ID: "rule-disabled",
			Conditions: []models.RuleCondition{
				{Scope: models.ScopeEntity, Field: "openIssues", Operator: models.OperatorGT, Value: 0},
			},
			Priority:  models.PriorityHigh,
			IsEnabled: false,
		},
		{
			ID:        "rule-no-conditions",
			Priority:  models.PriorityHigh,
			IsEnabled: true,
		},
	}
	engine := NewEngine(config)

	triggered := engine.EvaluateRules(models.Entity{"id": "p1", "openIssues": 6}, nil)
	assert.Empty(t, triggered)
}

func TestCompare_Operators(t *testing.T) {
	assert.True(t, compare(6, models.OperatorGT, 5))
	assert.True(t, compare(5, models.OperatorGTE, 5))
	assert.True(t, compare(4, models.OperatorLT, 5))
	assert.True(t, compare(5, models.OperatorLTE, 5))
	assert.True(t, compare(5, models.OperatorEQ, 5))
	assert.True(t, compare(4, models.OperatorNEQ, 5))
	assert.False(t, compare(5, models.OperatorGT, 5))

	assert.Panics(t, func() {
		compare(1, "unknown", 2)
	})
}
