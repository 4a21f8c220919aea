package recall

import (
	"context"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/pkg/utils"
)

// ContentSimilar 是内容相似召回源：把种子标题交给 TF-IDF 索引做相似检索。
//
// 兜底规则（调用方依赖"总能拿到一份列表"，不可省略）：
//   - 标题未命中 / 索引未建 / 索引为空 → 热门 TopN，带 fallback Label
//
// 种子标题取自 rctx.Params["movie_title"]。
type ContentSimilar struct {
	Index   core.SimilarityIndex
	Popular *Popular

	// TopN 作为 Source/Node 使用时的默认返回数量
	TopN int
}

func (r *ContentSimilar) Name() string        { return "recall.content" }
func (r *ContentSimilar) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *ContentSimilar) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *ContentSimilar) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	return r.RecallN(ctx, rctx.ParamString("movie_title"), r.TopN)
}

// RecallN 返回与 title 最相似的 topN 部电影。
func (r *ContentSimilar) RecallN(ctx context.Context, title string, topN int) ([]*core.Item, error) {
	if topN <= 0 && r.Popular != nil {
		topN = r.Popular.Tunables.Normalize().DefaultTopN
	}

	if r.Index == nil {
		return r.fallback(ctx, topN, "index not built")
	}
	items, ok := r.Index.MostSimilar(ctx, title, topN)
	if !ok {
		return r.fallback(ctx, topN, "title not found: "+title)
	}

	for _, it := range items {
		it.PutLabel(LabelRecallSource, utils.Label{Value: "content", Source: "recall"})
	}
	return items, nil
}

func (r *ContentSimilar) fallback(ctx context.Context, topN int, reason string) ([]*core.Item, error) {
	if r.Popular == nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInternal, "content: no popular fallback configured")
	}
	return r.Popular.fallbackItems(ctx, topN, reason)
}
