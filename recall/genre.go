package recall

import (
	"context"
	"sort"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/pkg/utils"
)

// GenreMatch 是类型召回源：对类型串做大小写不敏感的子串匹配，
// 命中者按评分降序返回（同分保持目录序）。不做相似度计算。
//
// 边界：
//   - genre 为空 → 热门兜底（输入缺失不是错误）
//   - 有 genre 但无命中 → 空列表；是否回填热门是 Hybrid 的职责，这里不做
//
// genre 取自 rctx.Params["genre"]。
type GenreMatch struct {
	Catalog core.Catalog
	Popular *Popular

	// TopN 作为 Source/Node 使用时的默认返回数量
	TopN int
}

func (r *GenreMatch) Name() string        { return "recall.genre" }
func (r *GenreMatch) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *GenreMatch) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *GenreMatch) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	return r.RecallN(ctx, rctx.ParamString("genre"), r.TopN)
}

// RecallN 返回 genre 命中的评分 TopN。
func (r *GenreMatch) RecallN(ctx context.Context, genre string, topN int) ([]*core.Item, error) {
	if topN <= 0 && r.Popular != nil {
		topN = r.Popular.Tunables.Normalize().DefaultTopN
	}
	if genre == "" {
		if r.Popular != nil {
			return r.Popular.fallbackItems(ctx, topN, "empty genre")
		}
		return nil, nil
	}
	if r.Catalog == nil {
		return nil, core.ErrEmptyCatalog
	}

	items := make([]*core.Item, 0, topN)
	for _, m := range r.Catalog.All(ctx) {
		if m == nil || !m.HasGenre(genre) {
			continue
		}
		it := core.NewItem(m)
		it.Score = m.Rating
		it.PutLabel(LabelRecallSource, utils.Label{Value: "genre", Source: "recall"})
		it.PutLabel("matched_genre", utils.Label{Value: genre, Source: "recall"})
		items = append(items, it)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	if len(items) > topN {
		items = items[:topN]
	}
	return items, nil
}
