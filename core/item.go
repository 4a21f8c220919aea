package core

import "github.com/reelkit/reelkit/pkg/utils"

// Item 是推荐链路中的统一承载结构：电影引用、分数、标签、解释。
// Score 用于排序决策（匹配分/相似度等计算产物只存在于 Item 上，
// 不回写 Movie）；Labels 用于解释与观测；Explanation 仅在 Quiz 头部结果上填充。
type Item struct {
	ID          int64
	Score       float64
	Movie       *Movie
	Labels      map[string]utils.Label
	Explanation string
}

func NewItem(m *Movie) *Item {
	it := &Item{
		Labels: make(map[string]utils.Label),
	}
	if m != nil {
		it.ID = m.ID
		it.Movie = m
	}
	return it
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 获取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}
