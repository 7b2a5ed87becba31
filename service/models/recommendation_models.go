/*
 * @module service/models/recommendation_models
 * @description 智能推荐引擎相关模型定义，包含实体、因子、规则、评估结果等核心数据结构
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 模型定义 -> 因子评估 -> 规则评估 -> 结果生成
 * @rules 确保推荐模型的一致性和完整性
 * @dependencies github.com/spf13/cast
 * @refs service/recommendation
 */

package models

import (
	"time"

	"github.com/spf13/cast"
)

// Entity 项目实体记录，属性名到属性值的映射
// 属性值可以是数值、百分比字符串、日期字符串或分类字符串
type Entity map[string]interface{}

// ID 返回实体标识，缺失时返回空字符串
func (e Entity) ID() string {
	return cast.ToString(e["id"])
}

// FactorDirection 因子阈值方向
type FactorDirection string

const (
	// DirectionAscending 值越高越好（如KPI、完成率）
	DirectionAscending FactorDirection = "ascending"
	// DirectionDescending 值越高越差（如未解决问题数、延期天数）
	DirectionDescending FactorDirection = "descending"
)

// FactorLevel 因子评估等级
type FactorLevel string

const (
	LevelCritical FactorLevel = "critical"
	LevelWarning  FactorLevel = "warning"
	LevelGood     FactorLevel = "good"
)

// FactorThreshold 因子阈值断点
type FactorThreshold struct {
	Critical float64 `json:"critical"`
	Warning  float64 `json:"warning"`
	Good     float64 `json:"good"`
}

// FactorDefinition 模块因子定义
type FactorDefinition struct {
	Field           string                  `json:"field"`           // 对应的实体属性名
	Weight          float64                 `json:"weight"`          // 权重，正实数
	Threshold       FactorThreshold         `json:"threshold"`       // 三档阈值断点
	Direction       FactorDirection         `json:"direction"`       // 显式方向，不再通过阈值比较推断
	Impacts         []string                `json:"impacts"`         // 下游受影响模块标签
	Recommendations map[FactorLevel]string  `json:"recommendations"` // 各等级对应的建议文案
}

// Insight 单因子评估洞察
type Insight struct {
	Factor  string      `json:"factor"`
	Value   float64     `json:"value"`
	Level   FactorLevel `json:"level"`
	Message string      `json:"message"`
	Impacts []string    `json:"impacts"`
	Weight  float64     `json:"weight"`
}

// RulePriority 规则优先级
type RulePriority string

const (
	PriorityLow      RulePriority = "low"
	PriorityMedium   RulePriority = "medium"
	PriorityHigh     RulePriority = "high"
	PriorityCritical RulePriority = "critical"
)

// priorityRank 优先级排序权重
var priorityRank = map[RulePriority]int{
	PriorityCritical: 4,
	PriorityHigh:     3,
	PriorityMedium:   2,
	PriorityLow:      1,
}

// Rank 返回优先级排序权重，未知优先级返回0
func (p RulePriority) Rank() int {
	return priorityRank[p]
}

// ConditionScope 规则条件作用域
type ConditionScope string

const (
	// ScopeEntity 条件作用于单个实体
	ScopeEntity ConditionScope = "entity"
	// ScopePopulation 条件作用于全体实体，按满足占比判断
	ScopePopulation ConditionScope = "population"
)

// ConditionOperator 条件比较操作符
type ConditionOperator string

const (
	OperatorGT  ConditionOperator = "gt"
	OperatorGTE ConditionOperator = "gte"
	OperatorLT  ConditionOperator = "lt"
	OperatorLTE ConditionOperator = "lte"
	OperatorEQ  ConditionOperator = "eq"
	OperatorNEQ ConditionOperator = "neq"
)

// RuleCondition 声明式规则条件
// 规则不携带可执行闭包，全部条件均为可类型检查的数据
type RuleCondition struct {
	Scope    ConditionScope    `json:"scope"`
	Field    string            `json:"field"`
	Operator ConditionOperator `json:"operator"`
	Value    float64           `json:"value"`
	MinRatio float64           `json:"min_ratio,omitempty"` // population作用域下满足条件实体的最小占比
}

// RuleDefinition 声明式规则定义，所有条件同时满足时规则触发
type RuleDefinition struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Conditions      []RuleCondition `json:"conditions"`
	Priority        RulePriority    `json:"priority"`
	AffectedModules []string        `json:"affected_modules"`
	Message         string          `json:"message"`
	Actions         []string        `json:"actions"`
	Insight         string          `json:"insight"` // 规则触发的依据说明
	IsEnabled       bool            `json:"is_enabled"`
}

// ModuleConnection 模块关联定义，描述影响传播关系
type ModuleConnection struct {
	ID              string   `json:"id"`
	ImpactedModules []string `json:"impacted_modules"`
	TriggerEvents   []string `json:"trigger_events"`
}

// RiskLevel 风险等级
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// CrossModuleImpact 跨模块影响
type CrossModuleImpact struct {
	SourceModule string       `json:"source_module"`
	TargetModule string       `json:"target_module"`
	Reason       string       `json:"reason"`
	Priority     RulePriority `json:"priority"`
}

// ActionItem 建议行动项
type ActionItem struct {
	Action   string       `json:"action"`
	Priority RulePriority `json:"priority"`
}

// RecommendationResult 实体推荐评估结果
type RecommendationResult struct {
	AssessmentID       string               `json:"assessment_id"`
	EntityID           string               `json:"entity_id"`
	ModuleID           string               `json:"module_id"`
	OverallScore       float64              `json:"overall_score"` // 0-100
	RiskLevel          RiskLevel            `json:"risk_level"`
	Insights           []Insight            `json:"insights"`
	CrossModuleImpacts []CrossModuleImpact  `json:"cross_module_impacts"`
	ActionItems        []ActionItem         `json:"action_items"` // 去重后按优先级排序
	Confidence         float64              `json:"confidence"`   // 0-1
	Sources            []string             `json:"sources"`
	GeneratedAt        time.Time            `json:"generated_at"`
}

// ChangeType 变更类型
type ChangeType string

const (
	ChangeIncreased ChangeType = "increased"
	ChangeDecreased ChangeType = "decreased"
	ChangeUnchanged ChangeType = "unchanged"
)

// ChangeRecord 字段变更记录
type ChangeRecord struct {
	Field      string     `json:"field"`
	OldValue   float64    `json:"old_value"`
	NewValue   float64    `json:"new_value"`
	ChangeType ChangeType `json:"change_type"`
}

// PropagationTarget 需要传播影响的模块及原因
type PropagationTarget struct {
	Module string `json:"module"`
	Reason string `json:"reason"`
}

// ChangeAssessment 单条变更的影响评估
type ChangeAssessment struct {
	AffectedModules   []string            `json:"affected_modules"`
	PropagationNeeded []PropagationTarget `json:"propagation_needed"`
	Urgent            bool                `json:"urgent"`
	UrgentAction      string              `json:"urgent_action,omitempty"`
}

// ChangeImpact 实体变更的整体影响分析结果
type ChangeImpact struct {
	EntityID          string              `json:"entity_id"`
	SourceModule      string              `json:"source_module"`
	Changes           []ChangeRecord      `json:"changes"`
	AffectedModules   []string            `json:"affected_modules"`
	PropagationNeeded []PropagationTarget `json:"propagation_needed"`
	UrgentActions     []string            `json:"urgent_actions"`
	Predictions       []string            `json:"predictions"`
	Confidence        float64             `json:"confidence"`
	AnalyzedAt        time.Time           `json:"analyzed_at"`
}

// Pattern 群体模式信号
type Pattern struct {
	Type           string    `json:"type"`
	Severity       RiskLevel `json:"severity"`
	Ratio          float64   `json:"ratio"` // 满足条件实体的占比
	Message        string    `json:"message"`
	Recommendation string    `json:"recommendation"`
}

// Correlation 群体关联信号，基于条件频率的启发式结果
type Correlation struct {
	Modules     []string `json:"modules"`
	Strength    string   `json:"strength"` // strong, moderate
	Correlation float64  `json:"correlation"`
	Message     string   `json:"message"`
	Confidence  float64  `json:"confidence"`
}

// Prediction 简单前瞻性推测
type Prediction struct {
	Type       string  `json:"type"`
	Message    string  `json:"message"`
	Timeframe  string  `json:"timeframe"`
	Confidence float64 `json:"confidence"`
}

// PopulationHealth 群体健康概览
type PopulationHealth struct {
	EntityCount      int               `json:"entity_count"`
	AverageScore     float64           `json:"average_score"`
	RiskDistribution map[RiskLevel]int `json:"risk_distribution"`
}

// SystemInsights 全局洞察结果
type SystemInsights struct {
	Health                   PopulationHealth `json:"health"`
	Patterns                 []Pattern        `json:"patterns"`
	Correlations             []Correlation    `json:"correlations"`
	Predictions              []Prediction     `json:"predictions"`
	StrategicRecommendations []string         `json:"strategic_recommendations"`
	GeneratedAt              time.Time        `json:"generated_at"`
}

// ContextualHelp 上下文帮助结果
type ContextualHelp struct {
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// HistoryEntry 历史评估记录，仅用于后续置信度估算
type HistoryEntry struct {
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
	Accuracy  float64   `json:"accuracy"`
}
