package recall

import (
	"context"
	"sort"
	"strconv"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/pkg/utils"
)

// Popular 是热门召回源：score = 0.7*rating + 0.3*popularity（权重见 core.Tunables）。
// 它是所有其他策略的统一兜底，对任意非空目录必须能产出结果。
//
// 读取路径：
//   - 如果配置了 KeyValueStore + Key，优先走预计算榜单（离线任务按热门分写 zset，
//     线上 ZRange 取 TopN）；榜单里不在目录中的 ID 直接跳过
//   - 否则全量扫描目录现算（几百到几千部的量级，同步扫描足够）
//
// 排序确定性：降序稳定排序，同分保持目录序。
type Popular struct {
	Catalog  core.Catalog
	Tunables core.Tunables

	// Store / Key 可选：预计算热门榜（zset member 为电影 ID）
	Store core.KeyValueStore
	Key   string

	// TopN 作为 Source/Node 使用时的默认返回数量
	TopN int
}

func (r *Popular) Name() string        { return "recall.popular" }
func (r *Popular) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Popular) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Popular) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	return r.RecallN(ctx, r.TopN)
}

// Score 返回一部电影的热门分。
func (r *Popular) Score(m *core.Movie) float64 {
	if m == nil {
		return 0
	}
	t := r.Tunables.Normalize()
	return t.PopularityRatingWeight*m.Rating + t.PopularityWeight*m.Popularity
}

// RecallN 返回热门 TopN。topN 非法时回落到默认值；空目录返回空列表。
func (r *Popular) RecallN(ctx context.Context, topN int) ([]*core.Item, error) {
	t := r.Tunables.Normalize()
	if topN <= 0 {
		topN = t.DefaultTopN
	}

	if items := r.fromStore(ctx, topN); len(items) >= topN {
		return items, nil
	}

	if r.Catalog == nil {
		return nil, core.ErrEmptyCatalog
	}
	movies := r.Catalog.All(ctx)
	if len(movies) == 0 {
		return nil, core.ErrEmptyCatalog
	}

	items := make([]*core.Item, 0, len(movies))
	for _, m := range movies {
		if m == nil {
			continue
		}
		it := core.NewItem(m)
		it.Score = r.Score(m)
		it.PutLabel(LabelRecallSource, utils.Label{Value: "popular", Source: "recall"})
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

// fromStore 走预计算榜单；数据不足/解析失败时返回 nil，由调用方现算。
func (r *Popular) fromStore(ctx context.Context, topN int) []*core.Item {
	if r.Store == nil || r.Key == "" || r.Catalog == nil {
		return nil
	}
	members, err := r.Store.ZRange(ctx, r.Key, 0, int64(topN)-1)
	if err != nil || len(members) == 0 {
		return nil
	}
	items := make([]*core.Item, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		m, ok := r.Catalog.ByID(ctx, id)
		if !ok {
			continue // 榜单可能比目录快照新，跳过即可
		}
		it := core.NewItem(m)
		it.Score = r.Score(m)
		it.PutLabel(LabelRecallSource, utils.Label{Value: "popular", Source: "recall"})
		items = append(items, it)
	}
	return items
}

// fallbackItems 产出带降级标记的热门结果，供其他策略兜底使用。
// actual 恒为 popular；reason 记进 Label.Source 便于排查。
func (r *Popular) fallbackItems(ctx context.Context, topN int, reason string) ([]*core.Item, error) {
	items, err := r.RecallN(ctx, topN)
	for _, it := range items {
		it.PutLabel(labelFallback, utils.Label{Value: string(core.SourcePopular), Source: reason})
	}
	return items, err
}
