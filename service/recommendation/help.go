/*
 * @module service/recommendation/help
 * @description 上下文帮助，按关键词匹配模块帮助条目，返回答案、引用来源和置信度
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 查询归一化 -> 条目匹配 -> 答案输出
 * @rules 无匹配条目时返回低置信度的兜底答案而非错误
 * @dependencies recommendation-service/service/models
 * @refs engine.go, defaults.go
 */

package recommendation

import (
	"context"
	"fmt"
	"math"
	"strings"

	"recommendation-service/service/models"
)

// GetContextualHelp 针对查询语句返回模块相关的帮助答案
func (e *Engine) GetContextualHelp(ctx context.Context, query, moduleID string) (*models.ContextualHelp, error) {
	if _, err := e.moduleFactors(moduleID); err != nil {
		return nil, err
	}

	if err := e.simulateProcessing(ctx); err != nil {
		return nil, err
	}

	normalized := strings.ToLower(strings.TrimSpace(query))

	var best *HelpTopic
	bestHits := 0
	for i := range e.config.HelpTopics {
		topic := &e.config.HelpTopics[i]
		if topic.ModuleID != "" && topic.ModuleID != moduleID {
			continue
		}
		hits := 0
		for _, keyword := range topic.Keywords {
			if keyword != "" && strings.Contains(normalized, strings.ToLower(keyword)) {
				hits++
			}
		}
		if hits > bestHits {
			best = topic
			bestHits = hits
		}
	}

	if best == nil {
		return &models.ContextualHelp{
			Answer:     fmt.Sprintf("暂时没有与该问题直接匹配的帮助内容，建议从 %s 模块的评估结果与行动项入手排查", moduleID),
			Sources:    []string{"module:" + moduleID},
			Confidence: confidenceFloor,
		}, nil
	}

	return &models.ContextualHelp{
		Answer:     best.Answer,
		Sources:    append([]string{}, best.Sources...),
		Confidence: math.Min(0.95, 0.5+0.15*float64(bestHits)),
	}, nil
}
