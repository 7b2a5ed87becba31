/*
 * @module service/monitoring/engine_metrics
 * @description 推荐引擎Prometheus指标采集，覆盖评估次数、耗时、缓存命中与规则评估失败
 * @architecture 分层架构 - 监控层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 引擎回调 -> 指标更新 -> /metrics暴露
 * @rules 指标注册失败直接panic，启动即暴露问题
 * @dependencies github.com/prometheus/client_golang
 * @refs service/recommendation/engine.go
 */

package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "recommendation"

// EngineMetrics 推荐引擎指标集合
type EngineMetrics struct {
	assessmentsTotal   *prometheus.CounterVec
	assessmentDuration *prometheus.HistogramVec
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	ruleFailures       *prometheus.CounterVec
}

// NewEngineMetrics 创建并注册到默认Registry
func NewEngineMetrics() *EngineMetrics {
	return NewEngineMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewEngineMetricsWithRegistry 创建指标集合并注册到指定Registry，便于测试隔离
func NewEngineMetricsWithRegistry(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		assessmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "assessments_total",
				Help:      "完成的评估次数，按模块与风险等级分类",
			},
			[]string{"module", "risk_level"},
		),
		assessmentDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "assessment_duration_seconds",
				Help:      "单次评估耗时分布",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"module"},
		),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hits_total",
			Help:      "评估结果缓存命中次数",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_misses_total",
			Help:      "评估结果缓存未命中次数",
		}),
		ruleFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "rule_failures_total",
				Help:      "规则评估异常次数，按规则ID分类",
			},
			[]string{"rule_id"},
		),
	}

	reg.MustRegister(
		m.assessmentsTotal,
		m.assessmentDuration,
		m.cacheHits,
		m.cacheMisses,
		m.ruleFailures,
	)
	return m
}

// ObserveAssessment 记录一次完成的评估
func (m *EngineMetrics) ObserveAssessment(module, riskLevel string, duration time.Duration) {
	m.assessmentsTotal.WithLabelValues(module, riskLevel).Inc()
	m.assessmentDuration.WithLabelValues(module).Observe(duration.Seconds())
}

// IncCacheHit 记录一次缓存命中
func (m *EngineMetrics) IncCacheHit() {
	m.cacheHits.Inc()
}

// IncCacheMiss 记录一次缓存未命中
func (m *EngineMetrics) IncCacheMiss() {
	m.cacheMisses.Inc()
}

// IncRuleFailure 记录一次规则评估异常
func (m *EngineMetrics) IncRuleFailure(ruleID string) {
	m.ruleFailures.WithLabelValues(ruleID).Inc()
}
