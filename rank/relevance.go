package rank

import (
	"context"
	"sort"
	"strings"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/pkg/utils"
)

// RelevanceWeights 是搜索相关性打分的字段权重。
// 标题命中权重最高，剧情最低；零值字段回落到默认值。
type RelevanceWeights struct {
	Title    float64
	Genres   float64
	Keywords float64
	Cast     float64
	Director float64
	Plot     float64
}

// DefaultRelevanceWeights 返回默认权重。
func DefaultRelevanceWeights() RelevanceWeights {
	return RelevanceWeights{
		Title:    15,
		Genres:   8,
		Keywords: 6,
		Cast:     5,
		Director: 4,
		Plot:     2,
	}
}

func (w RelevanceWeights) normalize() RelevanceWeights {
	def := DefaultRelevanceWeights()
	if w.Title <= 0 {
		w.Title = def.Title
	}
	if w.Genres <= 0 {
		w.Genres = def.Genres
	}
	if w.Keywords <= 0 {
		w.Keywords = def.Keywords
	}
	if w.Cast <= 0 {
		w.Cast = def.Cast
	}
	if w.Director <= 0 {
		w.Director = def.Director
	}
	if w.Plot <= 0 {
		w.Plot = def.Plot
	}
	return w
}

// RelevanceNode 是多字段相关性排序节点：query 对各字段做大小写不敏感的
// 子串命中，按字段权重累加成相关性分，降序稳定排序（同分保持输入序）。
// 通常接在候选过滤（filter.TagAnyFilter）之后组成搜索链路。
//
// query 优先取 Query 字段，为空时读 rctx.Params["query"]；都为空则原样透传。
type RelevanceNode struct {
	Query   string
	Weights RelevanceWeights
}

func (n *RelevanceNode) Name() string {
	return "rank.relevance"
}

func (n *RelevanceNode) Kind() pipeline.Kind {
	return pipeline.KindRank
}

func (n *RelevanceNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	query := n.Query
	if query == "" {
		query = rctx.ParamString("query")
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(items) == 0 {
		return items, nil
	}

	w := n.Weights.normalize()
	for _, it := range items {
		if it == nil || it.Movie == nil {
			continue
		}
		it.Score = n.score(query, it.Movie, w)
		it.PutLabel("rank_model", utils.Label{Value: "relevance", Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items, nil
}

func (n *RelevanceNode) score(query string, m *core.Movie, w RelevanceWeights) float64 {
	var score float64
	if strings.Contains(strings.ToLower(m.Title), query) {
		score += w.Title
	}
	if strings.Contains(strings.ToLower(m.Genres), query) {
		score += w.Genres
	}
	if strings.Contains(strings.ToLower(m.Keywords), query) {
		score += w.Keywords
	}
	if strings.Contains(strings.ToLower(m.Cast), query) {
		score += w.Cast
	}
	if strings.Contains(strings.ToLower(m.Director), query) {
		score += w.Director
	}
	if strings.Contains(strings.ToLower(m.Plot), query) {
		score += w.Plot
	}
	return score
}
