package rerank

import (
	"context"
	"sort"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/pkg/utils"
)

// GenreDiversity 是多样性重排节点：避免一个类型霸榜。
//
// 规则（只在候选超过 Threshold 时触发，小结果集不值得打散）：
//  1. 按主类型（Genres 首个 token，缺失归 "Other"）分组，组序为首次出现序
//  2. 组内按评分降序（同分保持输入序）
//  3. 每组最多保留 max(MinPerGenre, Limit/组数) 部
//  4. 各组拼接后整体再按评分降序，截断到 Limit
type GenreDiversity struct {
	// Threshold 触发阈值：len(items) > Threshold 才重排；<= 0 取默认 10
	Threshold int

	// Limit 重排后的结果上限；<= 0 时不截断（每组上限按 len(items) 计算）
	Limit int

	// MinPerGenre 每组保底数量；<= 0 取默认 2
	MinPerGenre int
}

func (n *GenreDiversity) Name() string {
	return "rerank.genre_diversity"
}

func (n *GenreDiversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *GenreDiversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	threshold := n.Threshold
	if threshold <= 0 {
		threshold = 10
	}
	if len(items) <= threshold {
		return items, nil
	}

	minPerGenre := n.MinPerGenre
	if minPerGenre <= 0 {
		minPerGenre = 2
	}
	limit := n.Limit
	if limit <= 0 {
		limit = len(items)
	}

	// 分组：主类型 -> 组内列表；组序保持首次出现序，保证确定性
	groups := make(map[string][]*core.Item)
	order := make([]string, 0)
	for _, it := range items {
		if it == nil {
			continue
		}
		genre := "Other"
		if it.Movie != nil {
			genre = it.Movie.PrimaryGenre()
		}
		if _, ok := groups[genre]; !ok {
			order = append(order, genre)
		}
		groups[genre] = append(groups[genre], it)
	}

	maxPerGenre := limit / len(order)
	if maxPerGenre < minPerGenre {
		maxPerGenre = minPerGenre
	}

	out := make([]*core.Item, 0, len(items))
	for _, genre := range order {
		group := groups[genre]
		sort.SliceStable(group, func(i, j int) bool {
			return rating(group[i]) > rating(group[j])
		})
		if len(group) > maxPerGenre {
			group = group[:maxPerGenre]
		}
		for _, it := range group {
			it.PutLabel("diversity_group", utils.Label{Value: genre, Source: "rerank"})
			out = append(out, it)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return rating(out[i]) > rating(out[j])
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func rating(it *core.Item) float64 {
	if it == nil || it.Movie == nil {
		return 0
	}
	return it.Movie.Rating
}
