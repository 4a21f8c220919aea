package pipeline

import (
	"context"

	"github.com/reelkit/reelkit/core"
)

// Pipeline 是 reelkit 的核心抽象：把推荐逻辑拆成可组合的 Node 链。
// quiz 匹配、搜索等场景都是若干 Node 的一次串联。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
