/*
 * @module service/recommendation/engine
 * @description 智能推荐引擎，组合因子评估、规则评估、评分聚合与置信度估算，生成项目风险评估结果
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 配置加载 -> 因子/规则评估 -> 评分聚合 -> 置信度估算 -> 结果缓存
 * @rules 引擎配置在构造后不可变；除未知模块外的所有异常均在内部降级处理
 * @dependencies recommendation-service/service/models, recommendation-service/service/monitoring, github.com/google/uuid
 * @refs service/scheduler, service/event
 */

package recommendation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"recommendation-service/service/models"
	"recommendation-service/service/monitoring"

	"github.com/google/uuid"
)

// AnalyzerConfig 群体分析的固定阈值与系数
// 这些值是设计常量而非统计学习结果
type AnalyzerConfig struct {
	PatternRatioThreshold      float64 // 群体模式触发的最小占比
	SevereRatioThreshold       float64 // 模式升级为critical的占比
	HighIssueBound             float64 // 未解决问题数的高位界限
	LowKPIBound                float64 // KPI低位界限
	LowResourceBound           float64 // 资源均衡度低位界限
	AuditDelayBound            float64 // 审计延期天数界限
	HighBudgetBound            float64 // 预算使用率高位界限
	CorrelationLiftMin         float64 // 条件频率相对基准频率的最小提升倍数
	BudgetProjectionMultiplier float64 // 预算消耗推演系数
	IssueProjectionMultiplier  float64 // 问题积压推演系数
}

// HelpTopic 上下文帮助条目
type HelpTopic struct {
	ModuleID string   `json:"module_id"` // 为空表示全局条目
	Keywords []string `json:"keywords"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}

// EngineConfig 引擎静态配置，构造时传入后视为不可变
type EngineConfig struct {
	Factors         map[string][]models.FactorDefinition // 模块ID -> 因子表
	Rules           []models.RuleDefinition
	Connections     map[string]models.ModuleConnection
	RelevantFields  map[string][]string // 模块ID -> 上下文相关字段
	HelpTopics      []HelpTopic
	CacheTTL        time.Duration
	HistoryCapacity int
	ProcessingDelay time.Duration // 模拟外部处理耗时，0表示不等待
	Analyzer        AnalyzerConfig
}

// Engine 智能推荐引擎
type Engine struct {
	config  *EngineConfig
	store   ResultStore
	rand    RandSource
	metrics *monitoring.EngineMetrics
}

// Option 引擎可选项
type Option func(*Engine)

// WithStore 注入结果缓存与历史日志存储
func WithStore(store ResultStore) Option {
	return func(e *Engine) {
		if store != nil {
			e.store = store
		}
	}
}

// WithRandSource 注入可确定性的随机源，用于测试置信度扰动边界
func WithRandSource(source RandSource) Option {
	return func(e *Engine) {
		if source != nil {
			e.rand = source
		}
	}
}

// WithMetrics 注入引擎指标收集器
func WithMetrics(metrics *monitoring.EngineMetrics) Option {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// NewEngine 创建推荐引擎实例，config为nil时使用默认配置
func NewEngine(config *EngineConfig, opts ...Option) *Engine {
	if config == nil {
		config = DefaultEngineConfig()
	}

	engine := &Engine{
		config: config,
		store:  NewMemoryStore(config.HistoryCapacity),
		rand:   systemRandSource{},
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// moduleFactors 获取模块因子表，模块不存在时快速失败
func (e *Engine) moduleFactors(moduleID string) ([]models.FactorDefinition, error) {
	factors, ok := e.config.Factors[moduleID]
	if !ok {
		return nil, fmt.Errorf("未知模块: %s", moduleID)
	}
	return factors, nil
}

// simulateProcessing 模拟外部处理耗时，同时响应调用方取消
func (e *Engine) simulateProcessing(ctx context.Context) error {
	if e.config.ProcessingDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(e.config.ProcessingDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GenerateRecommendations 生成单个实体在指定模块下的推荐评估结果
// population 可为空；结果带TTL缓存，命中时直接返回缓存值
func (e *Engine) GenerateRecommendations(ctx context.Context, entity models.Entity, moduleID string, population []models.Entity) (*models.RecommendationResult, error) {
	startTime := time.Now()

	if _, err := e.moduleFactors(moduleID); err != nil {
		return nil, err
	}

	if err := e.simulateProcessing(ctx); err != nil {
		return nil, err
	}

	entityID := entity.ID()
	if cached, ok := e.store.GetResult(ctx, entityID, moduleID); ok {
		if e.metrics != nil {
			e.metrics.IncCacheHit()
		}
		return cached, nil
	}
	if e.metrics != nil {
		e.metrics.IncCacheMiss()
	}

	insights, err := e.EvaluateFactors(entity, moduleID)
	if err != nil {
		return nil, err
	}
	triggered := e.EvaluateRules(entity, population)

	score, err := e.AggregateScore(entity, moduleID)
	if err != nil {
		return nil, err
	}
	riskLevel := ClassifyRisk(score, triggered)

	confidence := e.EstimateConfidence(
		e.DataQuality(entity),
		e.HistoricalAccuracy(ctx, entityID),
		e.ContextRelevance(entity, moduleID),
	)

	result := &models.RecommendationResult{
		AssessmentID:       uuid.New().String(),
		EntityID:           entityID,
		ModuleID:           moduleID,
		OverallScore:       score,
		RiskLevel:          riskLevel,
		Insights:           insights,
		CrossModuleImpacts: e.buildCrossModuleImpacts(moduleID, insights, triggered),
		ActionItems:        buildActionItems(triggered),
		Confidence:         confidence,
		Sources:            buildSources(insights, triggered),
		GeneratedAt:        time.Now(),
	}

	e.store.PutResult(ctx, result, e.config.CacheTTL)
	e.store.AppendHistory(ctx, models.HistoryEntry{
		EntityID:  entityID,
		Timestamp: time.Now(),
		Score:     score,
		Accuracy:  DefaultHistoricalAccuracy,
	})

	if e.metrics != nil {
		e.metrics.ObserveAssessment(moduleID, string(riskLevel), time.Since(startTime))
	}

	return result, nil
}

// GetSystemWideInsights 对全体实体执行群体分析，返回全局洞察
func (e *Engine) GetSystemWideInsights(ctx context.Context, population []models.Entity) (*models.SystemInsights, error) {
	if err := e.simulateProcessing(ctx); err != nil {
		return nil, err
	}

	insights := &models.SystemInsights{
		Health:       e.populationHealth(population),
		Patterns:     e.DetectPatterns(population),
		Correlations: e.FindCorrelations(population),
		Predictions:  e.GeneratePredictions(population),
		GeneratedAt:  time.Now(),
	}
	insights.StrategicRecommendations = e.strategicRecommendations(insights)

	return insights, nil
}

// populationHealth 统计群体健康概览
func (e *Engine) populationHealth(population []models.Entity) models.PopulationHealth {
	health := models.PopulationHealth{
		EntityCount:      len(population),
		RiskDistribution: make(map[models.RiskLevel]int),
	}
	if len(population) == 0 {
		return health
	}

	totalScore := 0.0
	for _, entity := range population {
		score := e.entityOverallScore(entity)
		totalScore += score
		health.RiskDistribution[ClassifyRisk(score, nil)]++
	}
	health.AverageScore = totalScore / float64(len(population))

	return health
}

// entityOverallScore 对实体在所有已配置模块下打分后取平均
func (e *Engine) entityOverallScore(entity models.Entity) float64 {
	totalScore := 0.0
	moduleCount := 0
	for moduleID := range e.config.Factors {
		score, err := e.AggregateScore(entity, moduleID)
		if err != nil {
			continue
		}
		totalScore += score
		moduleCount++
	}
	if moduleCount == 0 {
		return NeutralScore
	}
	return totalScore / float64(moduleCount)
}

// strategicRecommendations 根据健康度与模式信号生成战略级建议
func (e *Engine) strategicRecommendations(insights *models.SystemInsights) []string {
	recommendations := make([]string, 0)

	if insights.Health.EntityCount > 0 {
		if insights.Health.AverageScore < 60 {
			recommendations = append(recommendations, "整体项目健康度偏低，建议全面复盘项目管理流程和资源投入")
		} else if insights.Health.AverageScore < 80 {
			recommendations = append(recommendations, "整体健康度有改进空间，建议优先处理高风险项目")
		}
	}

	seen := make(map[string]bool)
	for _, pattern := range insights.Patterns {
		if pattern.Recommendation == "" || seen[pattern.Recommendation] {
			continue
		}
		seen[pattern.Recommendation] = true
		recommendations = append(recommendations, pattern.Recommendation)
	}

	for _, correlation := range insights.Correlations {
		if correlation.Strength != "strong" {
			continue
		}
		message := fmt.Sprintf("检测到强关联信号，建议联动排查相关模块: %v", correlation.Modules)
		if !seen[message] {
			seen[message] = true
			recommendations = append(recommendations, message)
		}
	}

	return recommendations
}

// buildCrossModuleImpacts 汇总触发规则与异常因子的跨模块影响，按目标+原因去重
func (e *Engine) buildCrossModuleImpacts(moduleID string, insights []models.Insight, triggered []models.RuleDefinition) []models.CrossModuleImpact {
	impacts := make([]models.CrossModuleImpact, 0)
	seen := make(map[string]bool)

	appendImpact := func(target, reason string, priority models.RulePriority) {
		if target == moduleID || target == "" {
			return
		}
		key := target + "|" + reason
		if seen[key] {
			return
		}
		seen[key] = true
		impacts = append(impacts, models.CrossModuleImpact{
			SourceModule: moduleID,
			TargetModule: target,
			Reason:       reason,
			Priority:     priority,
		})
	}

	for _, rule := range triggered {
		for _, target := range rule.AffectedModules {
			appendImpact(target, rule.Message, rule.Priority)
		}
	}

	for _, insight := range insights {
		priority := models.PriorityMedium
		if insight.Level == models.LevelCritical {
			priority = models.PriorityHigh
		}
		for _, target := range insight.Impacts {
			appendImpact(target, insight.Message, priority)
		}
	}

	return impacts
}

// buildActionItems 汇总触发规则的行动项，按行动文本去重并保留最高优先级，整体按优先级降序
func buildActionItems(triggered []models.RuleDefinition) []models.ActionItem {
	byAction := make(map[string]models.RulePriority)
	for _, rule := range triggered {
		for _, action := range rule.Actions {
			if action == "" {
				continue
			}
			if current, ok := byAction[action]; !ok || rule.Priority.Rank() > current.Rank() {
				byAction[action] = rule.Priority
			}
		}
	}

	items := make([]models.ActionItem, 0, len(byAction))
	for action, priority := range byAction {
		items = append(items, models.ActionItem{Action: action, Priority: priority})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Priority.Rank() != items[j].Priority.Rank() {
			return items[i].Priority.Rank() > items[j].Priority.Rank()
		}
		return items[i].Action < items[j].Action
	})

	return items
}

// buildSources 收集评估依据的引用标识
func buildSources(insights []models.Insight, triggered []models.RuleDefinition) []string {
	sources := make([]string, 0, len(insights)+len(triggered))
	seen := make(map[string]bool)

	for _, insight := range insights {
		source := "factor:" + insight.Factor
		if !seen[source] {
			seen[source] = true
			sources = append(sources, source)
		}
	}
	for _, rule := range triggered {
		source := "rule:" + rule.ID
		if !seen[source] {
			seen[source] = true
			sources = append(sources, source)
		}
	}

	return sources
}
