package filter

import (
	"context"

	"github.com/reelkit/reelkit/core"
)

// YearRangeFilter 保留年份落在 [Start, End]（闭区间）内的电影。
// 只有两端都给出时才生效；生效时年份未知（0）的电影被过滤。
// Start > End 的倒置区间视为调用方笔误，过滤器不生效。
type YearRangeFilter struct {
	Start int
	End   int
}

func (f *YearRangeFilter) Name() string {
	return "filter.year_range"
}

// Active 判断过滤器是否生效。
func (f *YearRangeFilter) Active() bool {
	return f.Start > 0 && f.End > 0 && f.Start <= f.End
}

func (f *YearRangeFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if !f.Active() {
		return false, nil
	}
	if item == nil || item.Movie == nil || item.Movie.Year == 0 {
		return true, nil
	}
	year := item.Movie.Year
	return year < f.Start || year > f.End, nil
}
