/*
 * @module service/recommendation/scoring_test
 * @description 评分聚合与风险分级单元测试
 * @architecture 单元测试
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 构造因子配置 -> 评分聚合 -> 验证总分与风险等级
 * @rules 覆盖零权重降级、权重缩放不变性和风险分级断点
 * @dependencies testing, github.com/stretchr/testify
 * @refs scoring.go
 */

package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recommendation-service/service/models"
)

func TestAggregateScore_AllGood(t *testing.T) {
	engine := NewEngine(nil)

	entity := models.Entity{"id": "p1", "openIssues": 0, "defectRate": 0.5, "reworkRate": 2}
	score, err := engine.AggregateScore(entity, ModuleQuality)
	require.NoError(t, err)
	assert.Equal(t, 90.0, score)
}

func TestAggregateScore_MixedLevels(t *testing.T) {
	engine := NewEngine(nil)

	// openIssues critical(子分30, 权重2)，其余良好(子分90, 权重1.5+1)
	entity := models.Entity{"id": "p1", "openIssues": 6, "defectRate": 0.5, "reworkRate": 2}
	score, err := engine.AggregateScore(entity, ModuleQuality)
	require.NoError(t, err)
	assert.InDelta(t, (30*2.0+90*1.5+90*1.0)/4.5, score, 0.001)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, MaxScore)
}

func TestAggregateScore_ZeroWeightFallsBackToNeutral(t *testing.T) {
	config := DefaultEngineConfig()
	config.Factors["zeroed"] = []models.FactorDefinition{
		{Field: "kpi", Weight: 0, Direction: models.DirectionAscending, Threshold: models.FactorThreshold{Critical: 60, Warning: 75, Good: 85}},
		{Field: "completion", Weight: -1, Direction: models.DirectionAscending, Threshold: models.FactorThreshold{Critical: 40, Warning: 60, Good: 80}},
	}
	engine := NewEngine(config)

	score, err := engine.AggregateScore(models.Entity{"id": "p1", "kpi": 95}, "zeroed")
	require.NoError(t, err)
	assert.Equal(t, NeutralScore, score)
}

func TestAggregateScore_WeightScalingInvariance(t *testing.T) {
	entity := models.Entity{"id": "p1", "openIssues": 6, "defectRate": 5, "reworkRate": 2}

	baseEngine := NewEngine(nil)
	baseScore, err := baseEngine.AggregateScore(entity, ModuleQuality)
	require.NoError(t, err)

	scaled := DefaultEngineConfig()
	for i := range scaled.Factors[ModuleQuality] {
		scaled.Factors[ModuleQuality][i].Weight *= 10
	}
	scaledEngine := NewEngine(scaled)
	scaledScore, err := scaledEngine.AggregateScore(entity, ModuleQuality)
	require.NoError(t, err)

	assert.InDelta(t, baseScore, scaledScore, 0.001, "统一缩放权重不应改变加权平均结果")
}

func TestClassifyRisk_ScoreBands(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected models.RiskLevel
	}{
		{"低于60为critical", 55, models.RiskCritical},
		{"60到75为high", 70, models.RiskHigh},
		{"75到85为medium", 80, models.RiskMedium},
		{"85以上为low", 90, models.RiskLow},
		{"断点60落入high", 60, models.RiskHigh},
		{"断点85落入low", 85, models.RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyRisk(tt.score, nil))
		})
	}
}

func TestClassifyRisk_HighPriorityRulesEscalate(t *testing.T) {
	highRule := models.RuleDefinition{ID: "r1", Priority: models.PriorityHigh}
	criticalRule := models.RuleDefinition{ID: "r2", Priority: models.PriorityCritical}
	lowRule := models.RuleDefinition{ID: "r3", Priority: models.PriorityLow}

	// 高优先级规则触发时，高分也至少是high
	assert.Equal(t, models.RiskHigh, ClassifyRisk(90, []models.RuleDefinition{highRule}))

	// 超过2条高优先级规则触发时升级为critical
	assert.Equal(t, models.RiskCritical, ClassifyRisk(90, []models.RuleDefinition{highRule, criticalRule, highRule}))

	// 低优先级规则不参与升级
	assert.Equal(t, models.RiskLow, ClassifyRisk(90, []models.RuleDefinition{lowRule}))
}
