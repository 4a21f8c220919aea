package filter

import (
	"context"
	"strings"

	"github.com/reelkit/reelkit/core"
)

// GenreAnyFilter 保留类型串命中任一请求类型（大小写不敏感子串）的电影。
// Genres 为空时过滤器不生效（保留一切）——quiz 里未勾选类型即不过滤。
type GenreAnyFilter struct {
	// Genres 已小写化的请求类型列表
	Genres []string
}

func (f *GenreAnyFilter) Name() string {
	return "filter.genre_any"
}

func (f *GenreAnyFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if len(f.Genres) == 0 {
		return false, nil
	}
	if item == nil || item.Movie == nil {
		return true, nil
	}
	movieGenres := strings.ToLower(item.Movie.Genres)
	for _, g := range f.Genres {
		if g != "" && strings.Contains(movieGenres, g) {
			return false, nil
		}
	}
	return true, nil
}
