/*
 * @module service/recommendation/population_analyzer_test
 * @description 群体分析器单元测试，覆盖模式扫描、条件频率关联和前瞻推演
 * @architecture 单元测试
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 构造群体数据 -> 模式/关联/推演 -> 验证信号输出
 * @rules 构造的群体数据需保证其他检查项不被意外触发
 * @dependencies testing, github.com/stretchr/testify
 * @refs population_analyzer.go
 */

package recommendation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recommendation-service/service/models"
)

// calmProject 构造不触发任何群体检查项的实体
func calmProject(id string) models.Entity {
	return models.Entity{
		"id":              id,
		"openIssues":      0,
		"kpi":             90,
		"resourceBalance": 80,
		"auditDelayDays":  0,
		"budgetUsage":     50,
		"completion":      90,
	}
}

func findPattern(patterns []models.Pattern, patternType string) *models.Pattern {
	for i := range patterns {
		if patterns[i].Type == patternType {
			return &patterns[i]
		}
	}
	return nil
}

func TestDetectPatterns_QualityDegradationRatio(t *testing.T) {
	engine := NewEngine(nil)

	// 4/10 项目问题数超过高位界限
	population := make([]models.Entity, 0, 10)
	for i := 0; i < 4; i++ {
		entity := calmProject(fmt.Sprintf("p%d", i))
		entity["openIssues"] = 5
		population = append(population, entity)
	}
	for i := 4; i < 10; i++ {
		population = append(population, calmProject(fmt.Sprintf("p%d", i)))
	}

	patterns := engine.DetectPatterns(population)
	pattern := findPattern(patterns, "quality-degradation")
	require.NotNil(t, pattern)
	assert.Equal(t, models.RiskHigh, pattern.Severity)
	assert.InDelta(t, 0.4, pattern.Ratio, 0.001)
	assert.NotEmpty(t, pattern.Recommendation)
}

func TestDetectPatterns_BelowThresholdProducesNothing(t *testing.T) {
	engine := NewEngine(nil)

	// 2/10 未达到0.25的占比阈值
	population := make([]models.Entity, 0, 10)
	for i := 0; i < 2; i++ {
		entity := calmProject(fmt.Sprintf("p%d", i))
		entity["openIssues"] = 5
		population = append(population, entity)
	}
	for i := 2; i < 10; i++ {
		population = append(population, calmProject(fmt.Sprintf("p%d", i)))
	}

	patterns := engine.DetectPatterns(population)
	assert.Nil(t, findPattern(patterns, "quality-degradation"))
}

func TestDetectPatterns_SevereRatioEscalates(t *testing.T) {
	engine := NewEngine(nil)

	// 6/10 达到0.5的严重占比阈值
	population := make([]models.Entity, 0, 10)
	for i := 0; i < 6; i++ {
		entity := calmProject(fmt.Sprintf("p%d", i))
		entity["openIssues"] = 5
		population = append(population, entity)
	}
	for i := 6; i < 10; i++ {
		population = append(population, calmProject(fmt.Sprintf("p%d", i)))
	}

	pattern := findPattern(engine.DetectPatterns(population), "quality-degradation")
	require.NotNil(t, pattern)
	assert.Equal(t, models.RiskCritical, pattern.Severity)
}

func TestDetectPatterns_EmptyPopulation(t *testing.T) {
	engine := NewEngine(nil)
	assert.Empty(t, engine.DetectPatterns(nil))
}

func TestFindCorrelations_LowKPIWithHighIssues(t *testing.T) {
	engine := NewEngine(nil)

	// 低KPI项目全部伴随高问题数，基准频率0.4，条件频率1.0
	population := make([]models.Entity, 0, 10)
	for i := 0; i < 4; i++ {
		entity := calmProject(fmt.Sprintf("p%d", i))
		entity["kpi"] = 50
		entity["openIssues"] = 10
		population = append(population, entity)
	}
	for i := 4; i < 10; i++ {
		population = append(population, calmProject(fmt.Sprintf("p%d", i)))
	}

	correlations := engine.FindCorrelations(population)
	require.NotEmpty(t, correlations)

	correlation := correlations[0]
	assert.ElementsMatch(t, []string{"performance", "quality"}, correlation.Modules)
	assert.Equal(t, "strong", correlation.Strength)
	assert.InDelta(t, 1.0, correlation.Correlation, 0.001)
	assert.InDelta(t, 0.9, correlation.Confidence, 0.001)
}

func TestFindCorrelations_NoLiftProducesNothing(t *testing.T) {
	engine := NewEngine(nil)

	// 高问题数均匀分布，条件频率不高于基准频率
	population := make([]models.Entity, 0, 10)
	for i := 0; i < 10; i++ {
		entity := calmProject(fmt.Sprintf("p%d", i))
		entity["openIssues"] = 10
		if i < 5 {
			entity["kpi"] = 50
		}
		population = append(population, entity)
	}

	assert.Empty(t, engine.FindCorrelations(population))
}

func TestGeneratePredictions_BudgetAndIssueProjection(t *testing.T) {
	engine := NewEngine(nil)

	population := make([]models.Entity, 0, 4)
	for i := 0; i < 4; i++ {
		entity := calmProject(fmt.Sprintf("p%d", i))
		entity["budgetUsage"] = 95
		entity["openIssues"] = 5
		population = append(population, entity)
	}

	predictions := engine.GeneratePredictions(population)
	require.Len(t, predictions, 2)

	types := []string{predictions[0].Type, predictions[1].Type}
	assert.Contains(t, types, "budget-overrun")
	assert.Contains(t, types, "issue-backlog")
	for _, prediction := range predictions {
		assert.NotEmpty(t, prediction.Timeframe)
		assert.Greater(t, prediction.Confidence, 0.0)
		assert.Less(t, prediction.Confidence, 1.0)
	}
}

func TestGeneratePredictions_CalmPopulation(t *testing.T) {
	engine := NewEngine(nil)

	population := []models.Entity{calmProject("p1"), calmProject("p2")}
	assert.Empty(t, engine.GeneratePredictions(population))
}
