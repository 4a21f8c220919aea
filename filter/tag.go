package filter

import (
	"context"
	"strings"

	"github.com/reelkit/reelkit/core"
)

// TagAnyFilter 保留全字段检索文本命中任一请求 tag（子串）的电影。
// 检索文本 = title/genres/director/cast/plot/keywords 小写拼接（Movie.SearchText）。
// Tags 为空时过滤器不生效。
//
// 搜索场景复用此过滤器：query 即单元素 Tags。
type TagAnyFilter struct {
	// Tags 已小写化的请求 tag 列表
	Tags []string
}

func (f *TagAnyFilter) Name() string {
	return "filter.tag_any"
}

func (f *TagAnyFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if len(f.Tags) == 0 {
		return false, nil
	}
	if item == nil || item.Movie == nil {
		return true, nil
	}
	text := item.Movie.SearchText()
	for _, tag := range f.Tags {
		if tag != "" && strings.Contains(text, strings.ToLower(tag)) {
			return false, nil
		}
	}
	return true, nil
}
