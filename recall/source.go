package recall

import (
	"context"

	"github.com/reelkit/reelkit/core"
)

// Source 表示一个可复用的召回策略（热门/类型/内容相似/协同过滤/hybrid）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
//
// 契约：给定参数与 topN，返回 <= topN 部电影的有序列表，从不向上抛业务异常——
// 输入缺失（标题未命中、未知用户）按各策略文档化的规则降级，
// 降级事实通过 "fallback" Label 暴露（labels-first 观测）。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// labelFallback 是降级标记的 Label key：Value 为实际产出结果的策略名。
const labelFallback = "fallback"

// LabelRecallSource 是召回来源标记的 Label key。
const LabelRecallSource = "recall_source"

// FallbackSource 检查一份召回结果是否由兜底策略产出。
// 按约定降级时每个 item 都带 fallback Label，检查第一个即可。
func FallbackSource(items []*core.Item) (core.Source, bool) {
	if len(items) == 0 {
		return "", false
	}
	if lbl, ok := items[0].GetLabel(labelFallback); ok && lbl.Value != "" {
		return core.Source(lbl.Value), true
	}
	return "", false
}
