/*
 * @module service/recommendation/confidence
 * @description 置信度估算器，融合数据完备度、历史准确度与上下文相关度，输出有界启发式置信值
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 三项输入加权 -> 有界随机扰动 -> 区间截断
 * @rules 置信度是启发式估计而非统计概率；随机源可注入以便测试断言精确边界
 * @dependencies recommendation-service/service/models, math/rand
 * @refs engine.go, cache.go
 */

package recommendation

import (
	"context"
	"math"
	"math/rand"

	"recommendation-service/service/models"
)

const (
	dataQualityWeight        = 0.40
	historicalAccuracyWeight = 0.35
	contextRelevanceWeight   = 0.25

	confidencePerturbation = 0.05
	confidenceFloor        = 0.40
	confidenceCeiling      = 0.99

	// DefaultHistoricalAccuracy 历史准确度的种子值
	// 没有真实的效果反馈回路，这是一个启发式占位策略值，调整时需同步评估置信度分布
	DefaultHistoricalAccuracy = 0.75

	// historyWindow 历史准确度滚动平均的窗口大小
	historyWindow = 10
)

// RandSource 可注入的随机源
type RandSource interface {
	// Float64 返回[0,1)内的随机数
	Float64() float64
}

type systemRandSource struct{}

func (systemRandSource) Float64() float64 {
	return rand.Float64()
}

// EstimateConfidence 加权融合三项输入并施加±0.05的有界扰动，结果截断到[0.40, 0.99]
func (e *Engine) EstimateConfidence(dataQuality, historicalAccuracy, contextRelevance float64) float64 {
	base := dataQualityWeight*dataQuality +
		historicalAccuracyWeight*historicalAccuracy +
		contextRelevanceWeight*contextRelevance

	perturbed := base + (e.rand.Float64()*2-1)*confidencePerturbation

	return math.Max(confidenceFloor, math.Min(confidenceCeiling, perturbed))
}

// DataQuality 统计实体属性中非空、非nil、非"N/A"值的占比
func (e *Engine) DataQuality(entity models.Entity) float64 {
	if len(entity) == 0 {
		return 0
	}
	populated := 0
	for _, value := range entity {
		if isPopulatedValue(value) {
			populated++
		}
	}
	return float64(populated) / float64(len(entity))
}

// HistoricalAccuracy 取实体最近历史记录中准确度的滚动平均
// 无历史时返回种子值
func (e *Engine) HistoricalAccuracy(ctx context.Context, entityID string) float64 {
	history := e.store.RecentHistory(ctx, entityID, historyWindow)
	if len(history) == 0 {
		return DefaultHistoricalAccuracy
	}

	total := 0.0
	for _, entry := range history {
		total += entry.Accuracy
	}
	return total / float64(len(history))
}

// ContextRelevance 统计模块相关字段在实体上已填充的占比
// 模块未配置相关字段时视为完全相关
func (e *Engine) ContextRelevance(entity models.Entity, moduleID string) float64 {
	relevantFields := e.config.RelevantFields[moduleID]
	if len(relevantFields) == 0 {
		return 1.0
	}

	populated := 0
	for _, field := range relevantFields {
		if isPopulatedValue(entity[field]) {
			populated++
		}
	}
	return float64(populated) / float64(len(relevantFields))
}

func isPopulatedValue(value interface{}) bool {
	if value == nil {
		return false
	}
	if str, ok := value.(string); ok {
		return str != "" && str != "N/A"
	}
	return true
}
