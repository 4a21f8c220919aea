package recall

import (
	"context"
	"math"
	"sort"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/pkg/utils"
)

// Collaborative 是基于用户的协同过滤召回源（User-based CF）。
//
// 核心思想："兴趣相似的用户，喜欢相似的电影"
//
// 算法流程（启发式邻居法，阈值见 core.Tunables）：
//  1. 目标用户无评分 → 热门兜底
//  2. 对每个其他用户统计共同评分的电影；共同数 <= MinCommonMovies 的跳过
//  3. 邻居相似度 = 评分差在 RatingCloseness 以内的共同电影占比；
//     相似度 > NeighborSimilarityThreshold 才保留
//  4. 取相似度最高的 TopNeighbors 个邻居（同分按用户 ID 升序，保证确定性），
//     收集他们评分 >= LikeThreshold 且目标用户未评过的电影；
//     候选分 = 各贡献邻居的相似度之和
//  5. 按候选分降序排列，同分按目录序
//
// 候选不足 topN 时本策略不回填热门——回填是 Hybrid 的职责。
// 这条边界历史上被多份拷贝各自"修复"过，勿再内置回填。
type Collaborative struct {
	Catalog      core.Catalog
	Interactions core.InteractionStore
	Tunables     core.Tunables
	Popular      *Popular

	// TopN 作为 Source/Node 使用时的默认返回数量
	TopN int
}

func (r *Collaborative) Name() string        { return "recall.collaborative" }
func (r *Collaborative) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Collaborative) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Collaborative) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	userID := ""
	if rctx != nil {
		userID = rctx.UserID
	}
	return r.RecallN(ctx, userID, r.TopN)
}

type neighbor struct {
	userID     string
	similarity float64
	ratings    map[int64]float64
}

// RecallN 返回对 userID 的协同过滤 TopN。
func (r *Collaborative) RecallN(ctx context.Context, userID string, topN int) ([]*core.Item, error) {
	t := r.Tunables.Normalize()
	if topN <= 0 {
		topN = t.DefaultTopN
	}

	if r.Interactions == nil || userID == "" {
		return r.fallback(ctx, topN, "no user")
	}
	target, err := r.Interactions.GetUserRatings(ctx, userID)
	if err != nil || len(target) == 0 {
		return r.fallback(ctx, topN, "no ratings for "+userID)
	}

	neighbors, err := r.findNeighbors(ctx, userID, target, t)
	if err != nil {
		return r.fallback(ctx, topN, "interaction scan failed")
	}

	// 候选分 = Σ 贡献邻居相似度（只计邻居"喜欢"且目标未看过的电影）
	scores := make(map[int64]float64)
	for _, nb := range neighbors {
		for movieID, rating := range nb.ratings {
			if rating < t.LikeThreshold {
				continue
			}
			if _, seen := target[movieID]; seen {
				continue
			}
			scores[movieID] += nb.similarity
		}
	}

	return r.rank(ctx, scores, topN), nil
}

// findNeighbors 扫描全体用户，返回相似度最高的 TopNeighbors 个邻居。
func (r *Collaborative) findNeighbors(
	ctx context.Context,
	userID string,
	target map[int64]float64,
	t core.Tunables,
) ([]neighbor, error) {
	allUsers, err := r.Interactions.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	// 全量扫描无序 map 的产物，先排序保证确定性
	sort.Strings(allUsers)

	neighbors := make([]neighbor, 0)
	for _, other := range allUsers {
		if other == userID {
			continue
		}
		ratings, err := r.Interactions.GetUserRatings(ctx, other)
		if err != nil || len(ratings) == 0 {
			continue
		}

		common, close := 0, 0
		for movieID, mine := range target {
			theirs, ok := ratings[movieID]
			if !ok {
				continue
			}
			common++
			if math.Abs(mine-theirs) <= t.RatingCloseness {
				close++
			}
		}
		if common <= t.MinCommonMovies {
			continue
		}

		sim := float64(close) / float64(common)
		if sim > t.NeighborSimilarityThreshold {
			neighbors = append(neighbors, neighbor{userID: other, similarity: sim, ratings: ratings})
		}
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].similarity != neighbors[j].similarity {
			return neighbors[i].similarity > neighbors[j].similarity
		}
		return neighbors[i].userID < neighbors[j].userID
	})
	if len(neighbors) > t.TopNeighbors {
		neighbors = neighbors[:t.TopNeighbors]
	}
	return neighbors, nil
}

// rank 把候选分落到目录序上：分数降序，同分按目录序；不在目录中的 ID 跳过。
func (r *Collaborative) rank(ctx context.Context, scores map[int64]float64, topN int) []*core.Item {
	if r.Catalog == nil || len(scores) == 0 {
		return nil
	}
	items := make([]*core.Item, 0, len(scores))
	for _, m := range r.Catalog.All(ctx) {
		if m == nil {
			continue
		}
		score, ok := scores[m.ID]
		if !ok {
			continue
		}
		it := core.NewItem(m)
		it.Score = score
		it.PutLabel(LabelRecallSource, utils.Label{Value: "collaborative", Source: "recall"})
		items = append(items, it)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	if len(items) > topN {
		items = items[:topN]
	}
	return items
}

func (r *Collaborative) fallback(ctx context.Context, topN int, reason string) ([]*core.Item, error) {
	if r.Popular == nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInternal, "collaborative: no popular fallback configured")
	}
	return r.Popular.fallbackItems(ctx, topN, reason)
}
