package filter

import (
	"context"

	"github.com/reelkit/reelkit/core"
)

// WatchedFilter 是已看过滤器：把用户观看历史里的电影从结果中剔除。
// 历史从 InteractionStore 读取并在首次使用时缓存到本次过滤器实例上——
// 过滤器按请求构建，缓存随请求结束丢弃。
// 没有用户或历史为空时不生效。
type WatchedFilter struct {
	Interactions core.InteractionStore

	watched map[int64]struct{}
	loaded  bool
}

func (f *WatchedFilter) Name() string {
	return "filter.watched"
}

func (f *WatchedFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Interactions == nil || rctx == nil || rctx.UserID == "" {
		return false, nil
	}

	if !f.loaded {
		f.loaded = true
		history, err := f.Interactions.GetWatchHistory(ctx, rctx.UserID)
		if err != nil {
			return false, nil // 历史读不到就放行，宁多勿缺
		}
		f.watched = make(map[int64]struct{}, len(history))
		for _, id := range history {
			f.watched[id] = struct{}{}
		}
	}

	_, seen := f.watched[item.ID]
	return seen, nil
}
