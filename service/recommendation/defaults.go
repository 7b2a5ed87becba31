/*
 * @module service/recommendation/defaults
 * @description 引擎默认配置，内置质量、绩效、审计、资源四个模块的因子表、规则、模块关联与帮助目录
 * @architecture 分层架构 - 配置层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 配置声明 -> 引擎构造时加载 -> 运行期只读
 * @rules 全部阈值与权重为业务设计常量；规则均为声明式条件，不包含可执行代码
 * @dependencies recommendation-service/service/models
 * @refs engine.go, rule_engine.go
 */

package recommendation

import (
	"time"

	"recommendation-service/service/models"
)

// 内置模块ID
const (
	ModuleQuality     = "quality"
	ModulePerformance = "performance"
	ModuleAudit       = "audit"
	ModuleResource    = "resource"
)

// DefaultCacheTTL 评估结果缓存的默认TTL
const DefaultCacheTTL = 5 * time.Minute

// DefaultEngineConfig 返回内置的引擎默认配置
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Factors: map[string][]models.FactorDefinition{
			ModuleQuality: {
				{
					Field:     "openIssues",
					Weight:    2.0,
					Threshold: models.FactorThreshold{Critical: 5, Warning: 3, Good: 1},
					Direction: models.DirectionDescending,
					Impacts:   []string{ModulePerformance, ModuleAudit},
					Recommendations: map[models.FactorLevel]string{
						models.LevelCritical: "未解决问题数已达临界水平，建议立即组织问题攻关",
						models.LevelWarning:  "未解决问题数偏高，建议在本迭代内安排消化",
						models.LevelGood:     "问题处理情况良好，保持当前节奏",
					},
				},
				{
					Field:     "defectRate",
					Weight:    1.5,
					Threshold: models.FactorThreshold{Critical: 8, Warning: 4, Good: 1},
					Direction: models.DirectionDescending,
					Impacts:   []string{ModulePerformance},
					Recommendations: map[models.FactorLevel]string{
						models.LevelCritical: "缺陷率显著偏高，建议暂停新功能开发优先修复",
						models.LevelWarning:  "缺陷率偏高，建议加强评审与回归测试",
						models.LevelGood:     "缺陷率处于健康区间",
					},
				},
				{
					Field:     "reworkRate",
					Weight:    1.0,
					Threshold: models.FactorThreshold{Critical: 15, Warning: 8, Good: 3},
					Direction: models.DirectionDescending,
					Impacts:   []string{ModuleResource},
					Recommendations: map[models.FactorLevel]string{
						models.LevelCritical: "返工率过高，建议排查需求澄清与设计评审环节",
						models.LevelWarning:  "返工率偏高，建议复盘近期变更来源",
						models.LevelGood:     "返工率处于健康区间",
					},
				},
			},
			ModulePerformance: {
				{
					Field:     "kpi",
					Weight:    2.0,
					Threshold: models.FactorThreshold{Critical: 60, Warning: 75, Good: 85},
					Direction: models.DirectionAscending,
					Impacts:   []string{ModuleResource},
					Recommendations: map[models.FactorLevel]string{
						models.LevelCritical: "KPI 已低于临界线，建议立即复盘绩效目标与执行偏差",
						models.LevelWarning:  "KPI 未达预期，建议识别关键阻塞项",
						models.LevelGood:     "KPI 达标，保持当前执行力度",
					},
				},
				{
					Field:     "completion",
					Weight:    1.5,
					Threshold: models.FactorThreshold{Critical: 40, Warning: 60, Good: 80},
					Direction: models.DirectionAscending,
					Impacts:   []string{ModuleQuality},
					Recommendations: map[models.FactorLevel]string{
						models.LevelCritical: "完成率严重滞后，建议重排计划并评估范围裁剪",
						models.LevelWarning:  "完成率滞后，建议关注关键路径任务",
						models.LevelGood:     "进度完成情况良好",
					},
				},
				{
					Field:     "onTimeDelivery",
					Weight:    1.0,
					Threshold: models.FactorThreshold{Critical: 50, Warning: 70, Good: 85},
					Direction: models.DirectionAscending,
					Impacts:   []string{ModuleAudit},
					Recommendations: map[models.FactorLevel]string{
						models.LevelCritical: "按期交付率过低，建议检查排期合理性与依赖管理",
						models.LevelWarning:  "按期交付率偏低，建议加强里程碑跟踪",
						models.LevelGood:     "按期交付情况良好",
					},
				},
			},
			ModuleAudit: {
				{
					Field:     "auditDelayDays",
					Weight:    2.0,
					Threshold: models.FactorThreshold{Critical: 14, Warning: 7, Good: 2},
					Direction: models.DirectionDescending,
					Impacts:   []string{ModuleQuality},
					Recommendations: map[models.FactorLevel]string{
						models.LevelCritical: "审计材料延期已超两周，存在合规风险，请立即补交",
						models.LevelWarning:  "审计材料存在延期，建议本周内补齐",
						models.LevelGood:     "审计材料提交及时",
					},
				},
				{
					Field:     "openFindings",
					Weight:    1.5,
					Threshold: models.FactorThreshold{Critical: 6, Warning: 3, Good: 1},
					Direction: models.DirectionDescending,
					Impacts:   []string{ModuleQuality},
					Recommendations: map[models.FactorLevel]string{
						models.LevelCritical: "未闭环审计发现过多，建议成立专项整改",
						models.LevelWarning:  "存在未闭环审计发现，建议跟踪整改进度",
						models.LevelGood:     "审计发现均已及时闭环",
					},
				},
				{
					Field:     "complianceRate",
					Weight:    1.0,
					Threshold: models.FactorThreshold{Critical: 70, Warning: 85, Good: 95},
					Direction: models.DirectionAscending,
					Impacts:   []string{ModuleResource},
					Recommendations: map[models.FactorLevel]string{
						models.LevelCritical: "合规率过低，建议全面核查流程执行情况",
						models.LevelWarning:  "合规率未达标，建议针对薄弱环节补强",
						models.LevelGood:     "合规率达标",
					},
				},
			},
			ModuleResource: {
				{
					Field:     "resourceBalance",
					Weight:    2.0,
					Threshold: models.FactorThreshold{Critical: 30, Warning: 50, Good: 70},
					Direction: models.DirectionAscending,
					Impacts:   []string{ModulePerformance},
					Recommendations: map[models.FactorLevel]string{
						models.LevelCritical: "资源配置严重失衡，建议立即重新分配人力与预算",
						models.LevelWarning:  "资源配置不够均衡，建议评估瓶颈岗位",
						models.LevelGood:     "资源配置均衡",
					},
				},
				{
					Field:     "budgetUsage",
					Weight:    1.5,
					Threshold: models.FactorThreshold{Critical: 95, Warning: 85, Good: 70},
					Direction: models.DirectionDescending,
					Impacts:   []string{ModuleAudit},
					Recommendations: map[models.FactorLevel]string{
						models.LevelCritical: "预算使用率接近上限，建议启动预算管控",
						models.LevelWarning:  "预算消耗偏快，建议核对剩余工作量与预算匹配度",
						models.LevelGood:     "预算使用节奏正常",
					},
				},
				{
					Field:     "utilization",
					Weight:    1.0,
					Threshold: models.FactorThreshold{Critical: 40, Warning: 60, Good: 75},
					Direction: models.DirectionAscending,
					Impacts:   []string{ModulePerformance},
					Recommendations: map[models.FactorLevel]string{
						models.LevelCritical: "资源利用率过低，建议重新评估人员配置",
						models.LevelWarning:  "资源利用率偏低，建议优化任务分派",
						models.LevelGood:     "资源利用率健康",
					},
				},
			},
		},
		Rules: []models.RuleDefinition{
			{
				ID:   "rule-quality-open-issues",
				Name: "未解决问题数超限",
				Conditions: []models.RuleCondition{
					{Scope: models.ScopeEntity, Field: "openIssues", Operator: models.OperatorGT, Value: 5},
				},
				Priority:        models.PriorityHigh,
				AffectedModules: []string{ModuleQuality, ModulePerformance},
				Message:         "未解决问题数超过告警线，质量风险上升",
				Actions: []string{
					"组织问题分级评审，明确责任人与截止时间",
					"冻结低优先级需求，集中资源消化问题积压",
				},
				Insight:   "未解决问题数超过5，历史上同类项目的质量风险显著升高",
				IsEnabled: true,
			},
			{
				ID:   "rule-quality-defect-surge",
				Name: "缺陷率激增",
				Conditions: []models.RuleCondition{
					{Scope: models.ScopeEntity, Field: "defectRate", Operator: models.OperatorGTE, Value: 8},
				},
				Priority:        models.PriorityCritical,
				AffectedModules: []string{ModuleQuality},
				Message:         "缺陷率达到临界水平，交付质量不可接受",
				Actions: []string{
					"暂停新功能合入，启动缺陷清零专项",
				},
				Insight:   "缺陷率达到8%以上时继续开发会放大返工成本",
				IsEnabled: true,
			},
			{
				ID:   "rule-performance-kpi-low",
				Name: "KPI低于临界线",
				Conditions: []models.RuleCondition{
					{Scope: models.ScopeEntity, Field: "kpi", Operator: models.OperatorLT, Value: 60},
				},
				Priority:        models.PriorityHigh,
				AffectedModules: []string{ModulePerformance, ModuleResource},
				Message:         "KPI 低于临界线，绩效目标面临失守",
				Actions: []string{
					"召开绩效复盘会，识别关键阻塞项",
					"评估是否需要调整资源投入",
				},
				Insight:   "KPI 低于60通常意味着目标设定或执行存在系统性问题",
				IsEnabled: true,
			},
			{
				ID:   "rule-performance-population-lag",
				Name: "群体性进度滞后",
				Conditions: []models.RuleCondition{
					{Scope: models.ScopeEntity, Field: "completion", Operator: models.OperatorLT, Value: 50},
					{Scope: models.ScopePopulation, Field: "completion", Operator: models.OperatorLT, Value: 50, MinRatio: 0.3},
				},
				Priority:        models.PriorityMedium,
				AffectedModules: []string{ModulePerformance},
				Message:         "超过三成项目进度滞后，本项目也在其中",
				Actions: []string{
					"对照同批次项目排查共性阻塞因素",
				},
				Insight:   "群体性滞后往往指向共享依赖或流程瓶颈，而非单项目问题",
				IsEnabled: true,
			},
			{
				ID:   "rule-audit-delay",
				Name: "审计材料延期",
				Conditions: []models.RuleCondition{
					{Scope: models.ScopeEntity, Field: "auditDelayDays", Operator: models.OperatorGT, Value: 7},
				},
				Priority:        models.PriorityHigh,
				AffectedModules: []string{ModuleAudit, ModuleQuality},
				Message:         "审计材料延期超过一周，存在合规风险",
				Actions: []string{
					"指定专人负责审计材料补交，设定三日内完成",
				},
				Insight:   "审计延期超过一周后补交成本和合规风险同步上升",
				IsEnabled: true,
			},
			{
				ID:   "rule-resource-budget-overrun",
				Name: "预算消耗超限",
				Conditions: []models.RuleCondition{
					{Scope: models.ScopeEntity, Field: "budgetUsage", Operator: models.OperatorGT, Value: 90},
				},
				Priority:        models.PriorityHigh,
				AffectedModules: []string{ModuleResource, ModuleAudit},
				Message:         "预算使用率超过90%，余量不足以覆盖剩余工作",
				Actions: []string{
					"启动预算管控，暂停非必要开支",
					"评估追加预算或裁剪范围的可行性",
				},
				Insight:   "预算使用率超过90%且项目未收尾时，超支几乎不可避免",
				IsEnabled: true,
			},
			{
				ID:   "rule-resource-imbalance",
				Name: "资源配置失衡",
				Conditions: []models.RuleCondition{
					{Scope: models.ScopeEntity, Field: "resourceBalance", Operator: models.OperatorLT, Value: 30},
				},
				Priority:        models.PriorityMedium,
				AffectedModules: []string{ModuleResource, ModulePerformance},
				Message:         "资源配置失衡，部分岗位过载",
				Actions: []string{
					"重新评估人力分布，平衡关键岗位负载",
				},
				Insight:   "资源均衡度低于30时过载岗位的交付质量会快速劣化",
				IsEnabled: true,
			},
		},
		Connections: map[string]models.ModuleConnection{
			ModuleQuality: {
				ID:              ModuleQuality,
				ImpactedModules: []string{ModulePerformance, ModuleAudit},
				TriggerEvents:   []string{"issue_spike", "defect_surge"},
			},
			ModulePerformance: {
				ID:              ModulePerformance,
				ImpactedModules: []string{ModuleResource},
				TriggerEvents:   []string{"kpi_drop", "schedule_slip"},
			},
			ModuleAudit: {
				ID:              ModuleAudit,
				ImpactedModules: []string{ModuleQuality},
				TriggerEvents:   []string{"audit_overdue", "finding_reopened"},
			},
			ModuleResource: {
				ID:              ModuleResource,
				ImpactedModules: []string{ModulePerformance, ModuleAudit},
				TriggerEvents:   []string{"budget_overrun", "allocation_change"},
			},
		},
		RelevantFields: map[string][]string{
			ModuleQuality:     {"openIssues", "defectRate", "reworkRate"},
			ModulePerformance: {"kpi", "completion", "onTimeDelivery"},
			ModuleAudit:       {"auditDelayDays", "openFindings", "complianceRate"},
			ModuleResource:    {"resourceBalance", "budgetUsage", "utilization"},
		},
		HelpTopics: []HelpTopic{
			{
				ModuleID: ModuleQuality,
				Keywords: []string{"问题", "缺陷", "质量", "issue"},
				Answer:   "质量模块按未解决问题数、缺陷率和返工率评估项目。问题数超过5或缺陷率达到8%会触发高优先级告警，建议优先处理对应的行动项。",
				Sources:  []string{"factor:openIssues", "factor:defectRate", "rule:rule-quality-open-issues"},
			},
			{
				ModuleID: ModulePerformance,
				Keywords: []string{"kpi", "绩效", "进度", "完成率"},
				Answer:   "绩效模块关注KPI、完成率和按期交付率。KPI低于60会被判定为临界风险并联动资源模块重新评估。",
				Sources:  []string{"factor:kpi", "rule:rule-performance-kpi-low"},
			},
			{
				ModuleID: ModuleAudit,
				Keywords: []string{"审计", "合规", "延期", "audit"},
				Answer:   "审计模块跟踪材料延期天数、未闭环发现和合规率。延期超过7天会触发合规告警并通知质量模块。",
				Sources:  []string{"factor:auditDelayDays", "rule:rule-audit-delay"},
			},
			{
				ModuleID: ModuleResource,
				Keywords: []string{"资源", "预算", "人力", "budget"},
				Answer:   "资源模块评估资源均衡度、预算使用率和利用率。预算使用率超过90%会触发预算管控建议。",
				Sources:  []string{"factor:budgetUsage", "rule:rule-resource-budget-overrun"},
			},
			{
				Keywords: []string{"评分", "风险", "等级", "score"},
				Answer:   "总分由各因子按权重加权平均得出，范围0-100；风险等级由总分和触发的高优先级规则数共同决定，分级断点为60/75/85。",
				Sources:  []string{"scoring:aggregate", "scoring:classify"},
			},
		},
		CacheTTL:        DefaultCacheTTL,
		HistoryCapacity: DefaultHistoryCapacity,
		ProcessingDelay: 0,
		Analyzer: AnalyzerConfig{
			PatternRatioThreshold:      0.25,
			SevereRatioThreshold:       0.50,
			HighIssueBound:             3,
			LowKPIBound:                70,
			LowResourceBound:           40,
			AuditDelayBound:            7,
			HighBudgetBound:            90,
			CorrelationLiftMin:         1.5,
			BudgetProjectionMultiplier: 1.15,
			IssueProjectionMultiplier:  1.2,
		},
	}
}
