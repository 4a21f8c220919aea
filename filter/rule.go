package filter

import (
	"context"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pkg/dsl"
)

// RuleFilter 是表达式过滤器：用 CEL 表达式描述"什么样的电影要被剔除"。
// 常用于配置驱动的编辑规则，不用改代码即可上线，例如：
//
//	movie.rating < 5.0                       // 低分片不出
//	movie.genres.contains("Horror")          // 某场景屏蔽恐怖片
//	movie.year < 1970 && item.score < 0.3    // 老片只留高分
//
// Expr 为空或表达式非法时过滤器不生效（配置错误不拖垮链路）。
type RuleFilter struct {
	// Expr CEL 表达式，求值为 true 的 item 被过滤
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" {
		return false, nil
	}
	if item == nil {
		return true, nil
	}

	matched, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, err // FilterNode 对出错的过滤器直接跳过
	}
	return matched, nil
}
