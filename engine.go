package reelkit

import (
	"context"
	"sync"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/filter"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/quiz"
	"github.com/reelkit/reelkit/rank"
	"github.com/reelkit/reelkit/recall"
	"github.com/reelkit/reelkit/rerank"
	"github.com/reelkit/reelkit/vector"
)

// Engine 是推荐引擎的入口 facade：一份目录快照 + 一份交互快照 + 可调参数，
// 暴露全部策略。除文本索引的一次性懒构建外无内部状态，可并发使用。
//
// 文本索引在首次内容相似/hybrid 调用时构建（全目录扫描，代价高），
// 由 sync.Once 保证并发首用只构建一次；建成后不可变。
// 目录在引擎生命周期内固定——换目录就建新引擎。
type Engine struct {
	catalog      core.Catalog
	interactions core.InteractionStore
	tunables     core.Tunables

	indexOnce sync.Once
	index     core.SimilarityIndex

	popular *recall.Popular
	genre   *recall.GenreMatch
	collab  *recall.Collaborative
}

// Option 配置 Engine。
type Option func(*Engine)

// WithTunables 覆盖默认参数（零值字段仍回落默认）。
func WithTunables(t core.Tunables) Option {
	return func(e *Engine) { e.tunables = t }
}

// WithIndex 注入预构建的相似索引（跳过懒构建，测试/离线预热常用）。
func WithIndex(idx core.SimilarityIndex) Option {
	return func(e *Engine) { e.index = idx }
}

// WithPopularStore 启用预计算热门榜：离线任务按热门分写 zset，线上 ZRange 直读。
func WithPopularStore(kv core.KeyValueStore, key string) Option {
	return func(e *Engine) {
		e.popular.Store = kv
		e.popular.Key = key
	}
}

// New 构建引擎。catalog 与 interactions 视为不可变快照，引擎只读。
func New(catalog core.Catalog, interactions core.InteractionStore, opts ...Option) *Engine {
	e := &Engine{
		catalog:      catalog,
		interactions: interactions,
		tunables:     core.DefaultTunables(),
	}
	e.popular = &recall.Popular{Catalog: catalog}
	for _, opt := range opts {
		opt(e)
	}
	e.tunables = e.tunables.Normalize()
	e.popular.Tunables = e.tunables
	e.genre = &recall.GenreMatch{Catalog: catalog, Popular: e.popular}
	e.collab = &recall.Collaborative{
		Catalog:      catalog,
		Interactions: interactions,
		Tunables:     e.tunables,
		Popular:      e.popular,
	}
	return e
}

// ensureIndex 懒构建 TF-IDF 索引；并发首用只构建一次。
func (e *Engine) ensureIndex(ctx context.Context) core.SimilarityIndex {
	e.indexOnce.Do(func() {
		if e.index == nil {
			e.index = vector.BuildTFIDF(ctx, e.catalog)
		}
	})
	return e.index
}

func (e *Engine) content(ctx context.Context) *recall.ContentSimilar {
	return &recall.ContentSimilar{Index: e.ensureIndex(ctx), Popular: e.popular}
}

func (e *Engine) hybrid(ctx context.Context) *recall.Hybrid {
	return &recall.Hybrid{
		Genre:    e.genre,
		Content:  e.content(ctx),
		Collab:   e.collab,
		Popular:  e.popular,
		Tunables: e.tunables,
	}
}

// outcome 把召回结果翻译为类型化 Outcome：带 fallback Label 的结果标记为降级。
func outcome(src core.Source, items []*core.Item, err error) core.Outcome {
	if err != nil {
		return core.Fallback(core.SourcePopular, items, err)
	}
	if fb, ok := recall.FallbackSource(items); ok && fb != src {
		return core.Fallback(fb, items, nil)
	}
	return core.Ok(src, items)
}

// Popular 返回热门 TopN：score = 0.7*rating + 0.3*popularity。
func (e *Engine) Popular(ctx context.Context, topN int) core.Outcome {
	items, err := e.popular.RecallN(ctx, topN)
	return outcome(core.SourcePopular, items, err)
}

// SimilarTo 返回与 title 内容最相似的 TopN；标题未命中降级为热门。
func (e *Engine) SimilarTo(ctx context.Context, title string, topN int) core.Outcome {
	items, err := e.content(ctx).RecallN(ctx, title, topN)
	return outcome(core.SourceContent, items, err)
}

// ByGenre 返回类型命中的评分 TopN；空类型降级为热门。
func (e *Engine) ByGenre(ctx context.Context, genre string, topN int) core.Outcome {
	items, err := e.genre.RecallN(ctx, genre, topN)
	return outcome(core.SourceGenre, items, err)
}

// ForUser 返回协同过滤 TopN；无评分用户降级为热门。
// 候选不足时不回填——需要回填语义请用 Hybrid。
func (e *Engine) ForUser(ctx context.Context, userID string, topN int) core.Outcome {
	items, err := e.collab.RecallN(ctx, userID, topN)
	return outcome(core.SourceCollaborative, items, err)
}

// Hybrid 返回融合榜单：genre/movie_title/user_id 任意子集，热门回填补齐。
func (e *Engine) Hybrid(ctx context.Context, q recall.HybridQuery, topN int) core.Outcome {
	items, err := e.hybrid(ctx).RecallN(ctx, q, topN)
	return outcome(core.SourceHybrid, items, err)
}

// Quiz 执行测验匹配：多条件过滤 + 兜底 + 多样性 + 匹配分 + 解释。
func (e *Engine) Quiz(ctx context.Context, req quiz.Request) core.Outcome {
	m := &quiz.Matcher{
		Catalog:      e.catalog,
		Popular:      e.popular,
		Genre:        e.genre,
		Hybrid:       e.hybrid(ctx),
		Interactions: e.interactions,
		Tunables:     e.tunables,
	}
	return m.Match(ctx, req)
}

// Search 按 query 做多字段相关性搜索：
// 候选 = 全字段文本命中 query 的电影，按字段权重（标题最高）排序。
// 空 query 返回空结果，不报错。
func (e *Engine) Search(ctx context.Context, query string, limit int) core.Outcome {
	if query == "" || e.catalog == nil {
		return core.Ok(core.SourceSearch, nil)
	}
	if limit <= 0 {
		limit = e.tunables.DefaultHybridTopN
	}

	movies := e.catalog.All(ctx)
	items := make([]*core.Item, 0, len(movies))
	for _, m := range movies {
		if m != nil {
			items = append(items, core.NewItem(m))
		}
	}

	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&filter.FilterNode{Filters: []filter.Filter{&filter.TagAnyFilter{Tags: []string{query}}}},
			&rank.RelevanceNode{Query: query},
			&rerank.TopNNode{N: limit},
		},
	}
	rctx := &core.RecommendContext{Scene: "search", Params: map[string]any{"query": query}}
	items, err := p.Run(ctx, rctx, items)
	if err != nil {
		return core.Fallback(core.SourcePopular, nil, err)
	}
	return core.Ok(core.SourceSearch, items)
}
