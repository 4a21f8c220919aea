package recall

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/pkg/utils"
)

// Hybrid 是融合召回源：把 genre / movie_title / user_id 三路输入各自交给
// 类型、内容相似、协同过滤策略，合并成一份去重的榜单。
//
// 规则：
//   - 配额：topN 均分给出现的输入路数，每路至少 1
//   - 三路并发执行（errgroup），合并时按固定优先级 genre → content → collaborative
//     拼接，保证结果与输入无关地确定
//   - 按电影 ID 去重，保留第一次出现（即优先级高的来源）
//   - 去重后不足 topN 时用热门回填，已选中的 ID 不会被回填重新引入
//   - 三路输入都缺失时退化为纯热门
//
// 单路失败只丢弃该路结果，不中断整体。
type Hybrid struct {
	Genre   *GenreMatch
	Content *ContentSimilar
	Collab  *Collaborative
	Popular *Popular

	Tunables core.Tunables

	// TopN 作为 Source/Node 使用时的默认返回数量
	TopN int
}

func (r *Hybrid) Name() string        { return "recall.hybrid" }
func (r *Hybrid) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Hybrid) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Hybrid) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	userID := ""
	if rctx != nil {
		userID = rctx.UserID
	}
	return r.RecallN(ctx, HybridQuery{
		Genre:      rctx.ParamString("genre"),
		MovieTitle: rctx.ParamString("movie_title"),
		UserID:     userID,
	}, r.TopN)
}

// HybridQuery 是融合召回的输入，任意子集可缺省。
type HybridQuery struct {
	Genre      string
	MovieTitle string
	UserID     string
}

func (q HybridQuery) present() int {
	n := 0
	if q.Genre != "" {
		n++
	}
	if q.MovieTitle != "" {
		n++
	}
	if q.UserID != "" {
		n++
	}
	return n
}

// RecallN 返回融合榜单 TopN。
func (r *Hybrid) RecallN(ctx context.Context, q HybridQuery, topN int) ([]*core.Item, error) {
	t := r.Tunables.Normalize()
	if topN <= 0 {
		topN = t.DefaultHybridTopN
	}

	present := q.present()
	if present == 0 {
		if r.Popular == nil {
			return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInternal, "hybrid: no popular fallback configured")
		}
		return r.Popular.fallbackItems(ctx, topN, "no hybrid inputs")
	}

	quota := topN / present
	if quota < 1 {
		quota = 1
	}

	// slots 的下标即合并优先级：genre(0) → content(1) → collaborative(2)
	var slots [3][]*core.Item
	eg, egCtx := errgroup.WithContext(ctx)

	if q.Genre != "" && r.Genre != nil {
		eg.Go(func() error {
			items, err := r.Genre.RecallN(egCtx, q.Genre, quota)
			if err == nil {
				slots[0] = items
			}
			return nil // 单路失败不中断其他召回
		})
	}
	if q.MovieTitle != "" && r.Content != nil {
		eg.Go(func() error {
			items, err := r.Content.RecallN(egCtx, q.MovieTitle, quota)
			if err == nil {
				slots[1] = items
			}
			return nil
		})
	}
	if q.UserID != "" && r.Collab != nil {
		eg.Go(func() error {
			items, err := r.Collab.RecallN(egCtx, q.UserID, quota)
			if err == nil {
				slots[2] = items
			}
			return nil
		})
	}
	_ = eg.Wait()

	merged := r.mergeFirst(slots[0], slots[1], slots[2])

	// 热门回填：已选中的 ID 不重新引入
	if len(merged) < topN && r.Popular != nil {
		seen := make(map[int64]struct{}, len(merged))
		for _, it := range merged {
			seen[it.ID] = struct{}{}
		}
		fill, _ := r.Popular.RecallN(ctx, topN)
		for _, it := range fill {
			if len(merged) >= topN {
				break
			}
			if _, ok := seen[it.ID]; ok {
				continue
			}
			it.PutLabel("backfill", utils.Label{Value: "popular", Source: "hybrid"})
			merged = append(merged, it)
			seen[it.ID] = struct{}{}
		}
	}

	if len(merged) > topN {
		merged = merged[:topN]
	}
	return merged, nil
}

// mergeFirst 按来源优先级拼接并按 ID 去重，保留第一个出现的；
// 后出现的重复项只把 Labels 合并进保留项（可解释性不丢）。
func (r *Hybrid) mergeFirst(lists ...[]*core.Item) []*core.Item {
	seen := make(map[int64]*core.Item)
	out := make([]*core.Item, 0)
	for _, list := range lists {
		for _, it := range list {
			if it == nil {
				continue
			}
			if old, ok := seen[it.ID]; ok {
				for k, v := range it.Labels {
					old.PutLabel(k, v)
				}
				continue
			}
			seen[it.ID] = it
			out = append(out, it)
		}
	}
	return out
}
