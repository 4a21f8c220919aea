// Package builders 注册内置 Node 的配置构建器。
// 依赖自由的 Node（filter / rank.relevance / rerank.*）通过 init 自动注册；
// 召回类 Node 需要目录/交互/索引等共享依赖，调用 RegisterRecall 显式绑定。
package builders

import (
	"fmt"

	"github.com/reelkit/reelkit/config"
	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/filter"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/pkg/conv"
	"github.com/reelkit/reelkit/rank"
	"github.com/reelkit/reelkit/recall"
	"github.com/reelkit/reelkit/rerank"
)

func init() {
	config.Register("filter", buildFilterNode)
	config.Register("rank.relevance", buildRelevanceNode)
	config.Register("rerank.topn", buildTopNNode)
	config.Register("rerank.diversity", buildDiversityNode)
	config.Register("rerank.match_score", buildMatchScoreNode)
	config.Register("rerank.explain", buildExplainNode)
}

// Deps 是召回类 Node 的共享依赖。
type Deps struct {
	Catalog      core.Catalog
	Interactions core.InteractionStore
	Index        core.SimilarityIndex
	Store        core.KeyValueStore
	Tunables     core.Tunables
}

// RegisterRecall 用实际依赖注册召回类 Node：
// recall.popular / recall.genre / recall.content / recall.collaborative / recall.hybrid。
func RegisterRecall(deps Deps) {
	popular := func(cfg map[string]any) *recall.Popular {
		return &recall.Popular{
			Catalog:  deps.Catalog,
			Tunables: deps.Tunables,
			Store:    deps.Store,
			Key:      conv.ConfigGet[string](cfg, "key", ""),
			TopN:     conv.ConfigGetInt(cfg, "top_n", 0),
		}
	}

	config.Register("recall.popular", func(cfg map[string]any) (pipeline.Node, error) {
		return popular(cfg), nil
	})
	config.Register("recall.genre", func(cfg map[string]any) (pipeline.Node, error) {
		return &recall.GenreMatch{
			Catalog: deps.Catalog,
			Popular: popular(cfg),
			TopN:    conv.ConfigGetInt(cfg, "top_n", 0),
		}, nil
	})
	config.Register("recall.content", func(cfg map[string]any) (pipeline.Node, error) {
		return &recall.ContentSimilar{
			Index:   deps.Index,
			Popular: popular(cfg),
			TopN:    conv.ConfigGetInt(cfg, "top_n", 0),
		}, nil
	})
	config.Register("recall.collaborative", func(cfg map[string]any) (pipeline.Node, error) {
		return &recall.Collaborative{
			Catalog:      deps.Catalog,
			Interactions: deps.Interactions,
			Tunables:     deps.Tunables,
			Popular:      popular(cfg),
			TopN:         conv.ConfigGetInt(cfg, "top_n", 0),
		}, nil
	})
	config.Register("recall.hybrid", func(cfg map[string]any) (pipeline.Node, error) {
		p := popular(cfg)
		return &recall.Hybrid{
			Genre:   &recall.GenreMatch{Catalog: deps.Catalog, Popular: p},
			Content: &recall.ContentSimilar{Index: deps.Index, Popular: p},
			Collab: &recall.Collaborative{
				Catalog:      deps.Catalog,
				Interactions: deps.Interactions,
				Tunables:     deps.Tunables,
				Popular:      p,
			},
			Popular:  p,
			Tunables: deps.Tunables,
			TopN:     conv.ConfigGetInt(cfg, "top_n", 0),
		}, nil
	})
}

func buildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filters := make([]filter.Filter, 0)

	if genres := conv.SliceAnyToString(cfg["genres"]); len(genres) > 0 {
		filters = append(filters, &filter.GenreAnyFilter{Genres: genres})
	}
	if tags := conv.SliceAnyToString(cfg["tags"]); len(tags) > 0 {
		filters = append(filters, &filter.TagAnyFilter{Tags: tags})
	}
	start := conv.ConfigGetInt(cfg, "year_start", 0)
	end := conv.ConfigGetInt(cfg, "year_end", 0)
	if start > 0 && end > 0 {
		filters = append(filters, &filter.YearRangeFilter{Start: start, End: end})
	}
	for _, expr := range conv.SliceAnyToString(cfg["rules"]) {
		filters = append(filters, &filter.RuleFilter{Expr: expr})
	}

	if len(filters) == 0 {
		return nil, fmt.Errorf("filter: no criteria configured")
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func buildRelevanceNode(cfg map[string]any) (pipeline.Node, error) {
	return &rank.RelevanceNode{
		Query: conv.ConfigGet[string](cfg, "query", ""),
		Weights: rank.RelevanceWeights{
			Title:    conv.ConfigGetFloat(cfg, "title_weight", 0),
			Genres:   conv.ConfigGetFloat(cfg, "genres_weight", 0),
			Keywords: conv.ConfigGetFloat(cfg, "keywords_weight", 0),
			Cast:     conv.ConfigGetFloat(cfg, "cast_weight", 0),
			Director: conv.ConfigGetFloat(cfg, "director_weight", 0),
			Plot:     conv.ConfigGetFloat(cfg, "plot_weight", 0),
		},
	}, nil
}

func buildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}

func buildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.GenreDiversity{
		Threshold:   conv.ConfigGetInt(cfg, "threshold", 0),
		Limit:       conv.ConfigGetInt(cfg, "limit", 0),
		MinPerGenre: conv.ConfigGetInt(cfg, "min_per_genre", 0),
	}, nil
}

func criteriaFromConfig(cfg map[string]any) rerank.MatchCriteria {
	return rerank.MatchCriteria{
		Genres:    conv.SliceAnyToString(cfg["genres"]),
		Tags:      conv.SliceAnyToString(cfg["tags"]),
		YearStart: conv.ConfigGetInt(cfg, "year_start", 0),
		YearEnd:   conv.ConfigGetInt(cfg, "year_end", 0),
	}
}

func buildMatchScoreNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.MatchScore{Criteria: criteriaFromConfig(cfg)}, nil
}

func buildExplainNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Explain{
		Criteria: criteriaFromConfig(cfg),
		TopN:     conv.ConfigGetInt(cfg, "top_n", 0),
	}, nil
}
