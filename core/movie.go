package core

import "strings"

// Movie 是引擎的不可变输入记录：目录里的一部电影。
//
// 约定：
//   - Genres 是逗号分隔的原始串（保持来源顺序），首个 token 视为主类型（primary genre），
//     用于多样性分组；不做归一化
//   - 数值字段缺失时为 0，文本字段缺失时为空串——引擎从不因缺字段报错
//   - 引擎不修改、不持久化 Movie；任何结果侧的附加信息（解释、匹配分）挂在 Item 上
type Movie struct {
	ID         int64   `json:"id" yaml:"id"`
	Title      string  `json:"title" yaml:"title"`
	Genres     string  `json:"genres" yaml:"genres"` // 逗号分隔，如 "Action, Sci-Fi"
	Rating     float64 `json:"rating" yaml:"rating"`
	Popularity float64 `json:"popularity" yaml:"popularity"`
	Year       int     `json:"year,omitempty" yaml:"year,omitempty"` // 0 表示未知
	Director   string  `json:"director,omitempty" yaml:"director,omitempty"`
	Cast       string  `json:"cast,omitempty" yaml:"cast,omitempty"`
	Plot       string  `json:"plot,omitempty" yaml:"plot,omitempty"`
	Keywords   string  `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// PrimaryGenre 返回主类型：Genres 首个逗号段去空格；为空时返回 "Other"。
func (m *Movie) PrimaryGenre() string {
	if m == nil || m.Genres == "" {
		return "Other"
	}
	first := m.Genres
	if idx := strings.IndexByte(first, ','); idx >= 0 {
		first = first[:idx]
	}
	first = strings.TrimSpace(first)
	if first == "" {
		return "Other"
	}
	return first
}

// SearchText 返回全字段拼接的小写检索文本（title/genres/director/cast/plot/keywords）。
// 文本索引、标签过滤、搜索共用同一份拼接规则。
func (m *Movie) SearchText() string {
	if m == nil {
		return ""
	}
	return strings.ToLower(strings.Join([]string{
		m.Title,
		m.Genres,
		m.Director,
		m.Cast,
		m.Plot,
		m.Keywords,
	}, " "))
}

// HasGenre 判断 genre 是否（大小写不敏感地）出现在 Genres 串中。
func (m *Movie) HasGenre(genre string) bool {
	if m == nil || genre == "" {
		return false
	}
	return strings.Contains(strings.ToLower(m.Genres), strings.ToLower(genre))
}
