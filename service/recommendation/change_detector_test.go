/*
 * @module service/recommendation/change_detector_test
 * @description 变更检测与影响传播单元测试
 * @architecture 单元测试
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 构造前后快照 -> 变更检测 -> 影响评估 -> 验证传播与紧急判定
 * @rules 相同快照不产生变更；紧急判定按领域规则分支验证
 * @dependencies testing, github.com/stretchr/testify
 * @refs change_detector.go
 */

package recommendation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recommendation-service/service/models"
)

func TestDetectChanges_IdenticalSnapshots(t *testing.T) {
	entity := models.Entity{"id": "p1", "openIssues": 3, "kpi": 80}
	assert.Empty(t, DetectChanges(entity, entity))
}

func TestDetectChanges_WhitelistedFieldsOnly(t *testing.T) {
	oldEntity := models.Entity{"id": "p1", "openIssues": 3, "name": "旧名称"}
	newEntity := models.Entity{"id": "p1", "openIssues": 6, "name": "新名称"}

	changes := DetectChanges(oldEntity, newEntity)
	require.Len(t, changes, 1, "非白名单字段的变化不参与比对")
	assert.Equal(t, "openIssues", changes[0].Field)
	assert.Equal(t, 3.0, changes[0].OldValue)
	assert.Equal(t, 6.0, changes[0].NewValue)
	assert.Equal(t, models.ChangeIncreased, changes[0].ChangeType)
}

func TestAssessChangeImpact_UrgentBranches(t *testing.T) {
	engine := NewEngine(nil)
	entity := models.Entity{"id": "p1"}

	tests := []struct {
		name   string
		change models.ChangeRecord
		urgent bool
	}{
		{
			name:   "问题数升破告警线",
			change: models.ChangeRecord{Field: "openIssues", OldValue: 3, NewValue: 6, ChangeType: models.ChangeIncreased},
			urgent: true,
		},
		{
			name:   "KPI跌破告警线",
			change: models.ChangeRecord{Field: "kpi", OldValue: 80, NewValue: 65, ChangeType: models.ChangeDecreased},
			urgent: true,
		},
		{
			name:   "审计延期超限",
			change: models.ChangeRecord{Field: "auditDelayDays", OldValue: 3, NewValue: 10, ChangeType: models.ChangeIncreased},
			urgent: true,
		},
		{
			name:   "预算使用率超限",
			change: models.ChangeRecord{Field: "budgetUsage", OldValue: 85, NewValue: 93, ChangeType: models.ChangeIncreased},
			urgent: true,
		},
		{
			name:   "问题数上升但未破线",
			change: models.ChangeRecord{Field: "openIssues", OldValue: 1, NewValue: 3, ChangeType: models.ChangeIncreased},
			urgent: false,
		},
		{
			name:   "KPI下降但仍在线上",
			change: models.ChangeRecord{Field: "kpi", OldValue: 90, NewValue: 80, ChangeType: models.ChangeDecreased},
			urgent: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := engine.AssessChangeImpact(tt.change, entity, ModuleQuality)
			assert.Equal(t, tt.urgent, assessment.Urgent)
			if tt.urgent {
				assert.NotEmpty(t, assessment.UrgentAction)
			} else {
				assert.Empty(t, assessment.UrgentAction)
			}
		})
	}
}

func TestAssessChangeImpact_PropagationFollowsConnections(t *testing.T) {
	engine := NewEngine(nil)

	change := models.ChangeRecord{Field: "openIssues", OldValue: 3, NewValue: 6, ChangeType: models.ChangeIncreased}
	assessment := engine.AssessChangeImpact(change, models.Entity{"id": "p1"}, ModuleQuality)

	// quality模块的关联图指向performance和audit
	assert.ElementsMatch(t, []string{ModulePerformance, ModuleAudit}, assessment.AffectedModules)
	require.Len(t, assessment.PropagationNeeded, 2)
	for _, target := range assessment.PropagationNeeded {
		assert.NotEmpty(t, target.Reason)
	}
}

func TestAnalyzeChange_MergesAssessments(t *testing.T) {
	engine := NewEngine(nil)

	oldEntity := models.Entity{"id": "p1", "openIssues": 3, "kpi": 80, "budgetUsage": 85}
	newEntity := models.Entity{"id": "p1", "openIssues": 6, "kpi": 65, "budgetUsage": 93}

	impact, err := engine.AnalyzeChange(context.Background(), oldEntity, newEntity, ModuleQuality)
	require.NoError(t, err)

	assert.Equal(t, "p1", impact.EntityID)
	assert.Equal(t, ModuleQuality, impact.SourceModule)
	assert.Len(t, impact.Changes, 3)

	// 受影响模块跨多条变更去重
	assert.ElementsMatch(t, []string{ModulePerformance, ModuleAudit}, impact.AffectedModules)

	// 三条变更都触发紧急分支
	assert.Len(t, impact.UrgentActions, 3)
	assert.NotEmpty(t, impact.Predictions)
	assert.GreaterOrEqual(t, impact.Confidence, 0.40)
	assert.LessOrEqual(t, impact.Confidence, 0.99)
}

func TestAnalyzeChange_NoChanges(t *testing.T) {
	engine := NewEngine(nil)

	entity := models.Entity{"id": "p1", "openIssues": 3}
	impact, err := engine.AnalyzeChange(context.Background(), entity, entity, ModuleQuality)
	require.NoError(t, err)

	assert.Empty(t, impact.Changes)
	assert.Empty(t, impact.AffectedModules)
	assert.Empty(t, impact.UrgentActions)
}

func TestAnalyzeChange_UnknownModule(t *testing.T) {
	engine := NewEngine(nil)

	_, err := engine.AnalyzeChange(context.Background(), models.Entity{}, models.Entity{}, "nonexistent")
	assert.Error(t, err)
}
