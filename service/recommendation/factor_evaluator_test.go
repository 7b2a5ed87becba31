/*
 * @module service/recommendation/factor_evaluator_test
 * @description 因子评估器单元测试，覆盖双向阈值分级、百分比解析和缺失属性处理
 * @architecture 单元测试
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 准备实体数据 -> 因子评估 -> 验证洞察输出
 * @rules 不依赖外部存储，全部用内置默认配置或自定义配置
 * @dependencies testing, github.com/stretchr/testify
 * @refs factor_evaluator.go
 */

package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recommendation-service/service/models"
)

func findInsight(insights []models.Insight, factor string) *models.Insight {
	for i := range insights {
		if insights[i].Factor == factor {
			return &insights[i]
		}
	}
	return nil
}

func TestEvaluateFactors_DescendingCritical(t *testing.T) {
	engine := NewEngine(nil)

	entity := models.Entity{"id": "p1", "openIssues": 6, "defectRate": 0.5, "reworkRate": 2}
	insights, err := engine.EvaluateFactors(entity, ModuleQuality)
	require.NoError(t, err)

	insight := findInsight(insights, "openIssues")
	require.NotNil(t, insight, "超过临界断点应当产出洞察")
	assert.Equal(t, models.LevelCritical, insight.Level)
	assert.Equal(t, 6.0, insight.Value)
	assert.NotEmpty(t, insight.Message)
	assert.Contains(t, insight.Impacts, ModulePerformance)

	// 其余因子处于良好区间，不应出现在洞察中
	assert.Nil(t, findInsight(insights, "defectRate"))
	assert.Nil(t, findInsight(insights, "reworkRate"))
}

func TestEvaluateFactors_AscendingCritical(t *testing.T) {
	engine := NewEngine(nil)

	entity := models.Entity{"id": "p1", "kpi": 50, "completion": 90, "onTimeDelivery": 90}
	insights, err := engine.EvaluateFactors(entity, ModulePerformance)
	require.NoError(t, err)

	insight := findInsight(insights, "kpi")
	require.NotNil(t, insight)
	assert.Equal(t, models.LevelCritical, insight.Level)
}

func TestEvaluateFactors_WarningBand(t *testing.T) {
	engine := NewEngine(nil)

	// openIssues=4 处于 [3,5) 告警区间
	entity := models.Entity{"id": "p1", "openIssues": 4, "defectRate": 0.5, "reworkRate": 2}
	insights, err := engine.EvaluateFactors(entity, ModuleQuality)
	require.NoError(t, err)

	insight := findInsight(insights, "openIssues")
	require.NotNil(t, insight)
	assert.Equal(t, models.LevelWarning, insight.Level)
}

func TestEvaluateFactors_PercentStringParsing(t *testing.T) {
	engine := NewEngine(nil)

	entity := models.Entity{
		"id":             "p1",
		"kpi":            "90%",
		"completion":     "85%",
		"onTimeDelivery": "90%",
	}
	insights, err := engine.EvaluateFactors(entity, ModulePerformance)
	require.NoError(t, err)
	assert.Empty(t, insights, "百分比字符串应按数值解析，全部处于良好区间")
}

func TestEvaluateFactors_MissingAttributeByDirection(t *testing.T) {
	engine := NewEngine(nil)

	// kpi缺失按0处理，ascending方向 0 <= 60 为critical
	insights, err := engine.EvaluateFactors(models.Entity{"id": "p1"}, ModulePerformance)
	require.NoError(t, err)
	insight := findInsight(insights, "kpi")
	require.NotNil(t, insight)
	assert.Equal(t, models.LevelCritical, insight.Level)
	assert.Equal(t, 0.0, insight.Value)

	// openIssues缺失按0处理，descending方向 0 < 3 为良好
	insights, err = engine.EvaluateFactors(models.Entity{"id": "p1"}, ModuleQuality)
	require.NoError(t, err)
	assert.Nil(t, findInsight(insights, "openIssues"))
}

func TestEvaluateFactors_UnknownModule(t *testing.T) {
	engine := NewEngine(nil)

	_, err := engine.EvaluateFactors(models.Entity{"id": "p1"}, "nonexistent")
	assert.Error(t, err)
}

func TestAttributeValue_SpecialValues(t *testing.T) {
	entity := models.Entity{
		"percent":  "85%",
		"padded":   " 42 ",
		"empty":    "",
		"notAvail": "N/A",
		"garbage":  "abc",
		"number":   7,
		"nilValue": nil,
	}

	assert.Equal(t, 85.0, attributeValue(entity, "percent"))
	assert.Equal(t, 42.0, attributeValue(entity, "padded"))
	assert.Equal(t, 0.0, attributeValue(entity, "empty"))
	assert.Equal(t, 0.0, attributeValue(entity, "notAvail"))
	assert.Equal(t, 0.0, attributeValue(entity, "garbage"))
	assert.Equal(t, 7.0, attributeValue(entity, "number"))
	assert.Equal(t, 0.0, attributeValue(entity, "nilValue"))
	assert.Equal(t, 0.0, attributeValue(entity, "missing"))
}
