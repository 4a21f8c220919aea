// Package quiz 实现测验驱动的发现场景：多条件过滤 + 兜底 + 多样性重排 + 解释。
package quiz

import (
	"context"
	"strings"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/filter"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/recall"
	"github.com/reelkit/reelkit/rerank"
)

// Request 是一次 quiz 匹配请求。Genres / Tags 是逗号分隔的原始串，
// 年代范围只有两端都给出才生效；Limit 非法时取默认 20。
type Request struct {
	Genres    string
	Tags      string
	YearStart int
	YearEnd   int
	UserID    string
	Limit     int
}

// Matcher 是 quiz 匹配器：单请求的状态机，无持久状态，可并发使用。
//
// 流程：
//  1. 条件过滤：类型（任一命中）→ 年代（闭区间）→ tag（任一命中），
//     可选剔除观看历史
//  2. 结果不足 QuizMinResults 时丢弃过滤集，依次降级：
//     Hybrid(userId, 首个类型) → GenreMatch(首个类型) → Popular
//  3. 结果超过 DiversityThreshold 时做主类型多样性重排
//  4. 匹配分重排（类型 +3 / tag +1 / 年代接近度至多 +2）
//  5. 头部 10 个结果生成解释串
//
// 整条链路从不向调用方抛错：任何意外失败降级为热门，
// 原因记录在 Outcome.Err 上（仅观测，不代表失败）。
type Matcher struct {
	Catalog      core.Catalog
	Popular      *recall.Popular
	Genre        *recall.GenreMatch
	Hybrid       *recall.Hybrid
	Interactions core.InteractionStore
	Tunables     core.Tunables

	// ExcludeWatched 为 true 时剔除用户观看历史中的电影
	ExcludeWatched bool
}

// Match 执行一次 quiz 匹配。
func (m *Matcher) Match(ctx context.Context, req Request) core.Outcome {
	t := m.Tunables.Normalize()
	limit := req.Limit
	if limit <= 0 {
		limit = t.DefaultHybridTopN
	}

	genres := splitList(req.Genres)
	tags := splitList(req.Tags)
	criteria := rerank.MatchCriteria{
		Genres:    genres,
		Tags:      tags,
		YearStart: req.YearStart,
		YearEnd:   req.YearEnd,
	}

	items, err := m.filtered(ctx, req, genres, tags)
	if err != nil {
		return m.degrade(ctx, limit, err)
	}

	degraded := false
	var degradeErr error
	if len(items) < t.QuizMinResults {
		items, degradeErr = m.insufficiencyFallback(ctx, req, genres, limit)
		degraded = true
		if degradeErr != nil {
			return m.degrade(ctx, limit, degradeErr)
		}
	}

	annotate := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&rerank.GenreDiversity{
				Threshold:   t.DiversityThreshold,
				Limit:       limit,
				MinPerGenre: t.DiversityMinPerGenre,
			},
			&rerank.MatchScore{Criteria: criteria},
			&rerank.TopNNode{N: limit},
			&rerank.Explain{Criteria: criteria},
		},
	}
	rctx := &core.RecommendContext{UserID: req.UserID, Scene: "quiz"}
	items, err = annotate.Run(ctx, rctx, items)
	if err != nil {
		return m.degrade(ctx, limit, err)
	}

	out := core.Ok(core.SourceQuiz, items)
	if degraded {
		out.Degraded = true
		out.Err = degradeErr
	}
	return out
}

// filtered 对目录快照执行条件过滤，返回存活集合（未截断）。
func (m *Matcher) filtered(ctx context.Context, req Request, genres, tags []string) ([]*core.Item, error) {
	if m.Catalog == nil {
		return nil, core.ErrEmptyCatalog
	}

	movies := m.Catalog.All(ctx)
	items := make([]*core.Item, 0, len(movies))
	for _, mv := range movies {
		if mv != nil {
			items = append(items, core.NewItem(mv))
		}
	}

	filters := []filter.Filter{
		&filter.GenreAnyFilter{Genres: genres},
		&filter.YearRangeFilter{Start: req.YearStart, End: req.YearEnd},
		&filter.TagAnyFilter{Tags: tags},
	}
	if m.ExcludeWatched && req.UserID != "" {
		filters = append(filters, &filter.WatchedFilter{Interactions: m.Interactions})
	}

	node := &filter.FilterNode{Filters: filters}
	rctx := &core.RecommendContext{UserID: req.UserID, Scene: "quiz"}
	return node.Process(ctx, rctx, items)
}

// insufficiencyFallback 在过滤集过小时重算：Hybrid → GenreMatch → Popular。
func (m *Matcher) insufficiencyFallback(ctx context.Context, req Request, genres []string, limit int) ([]*core.Item, error) {
	t := m.Tunables.Normalize()
	firstGenre := ""
	if len(genres) > 0 {
		firstGenre = genres[0]
	}

	if m.Hybrid != nil && (req.UserID != "" || firstGenre != "") {
		items, err := m.Hybrid.RecallN(ctx, recall.HybridQuery{
			UserID: req.UserID,
			Genre:  firstGenre,
		}, limit)
		if err == nil && len(items) >= t.QuizMinResults {
			return items, nil
		}
	}

	if firstGenre != "" && m.Genre != nil {
		items, err := m.Genre.RecallN(ctx, firstGenre, limit)
		if err == nil && len(items) > 0 {
			return items, nil
		}
	}

	if m.Popular == nil {
		return nil, core.NewDomainError(core.ModuleQuiz, core.ErrorCodeInternal, "quiz: no popular fallback configured")
	}
	return m.Popular.RecallN(ctx, limit)
}

// degrade 是最后的防线：整条链路失败时退回热门，错误只记录不抛出。
func (m *Matcher) degrade(ctx context.Context, limit int, cause error) core.Outcome {
	if m.Popular == nil {
		return core.Fallback(core.SourcePopular, nil, cause)
	}
	items, err := m.Popular.RecallN(ctx, limit)
	if err != nil {
		// 连热门都没有数据：返回空集，原始错误照样记录
		return core.Fallback(core.SourcePopular, nil, cause)
	}
	return core.Fallback(core.SourcePopular, items, cause)
}

// splitList 拆分逗号分隔串：去空格、转小写、丢空段。
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
