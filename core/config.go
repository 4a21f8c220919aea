package core

// Tunables 集中了所有策略的可调参数。
// 历史上这些权重/阈值散落在多份近似拷贝的推荐逻辑里各自硬编码，
// 此处统一为具名配置，零值字段在 Normalize 时回落到默认值。
type Tunables struct {
	// PopularityRatingWeight / PopularityWeight 是热门分的线性权重：
	// score = RatingWeight*rating + PopularityWeight*popularity
	PopularityRatingWeight float64
	PopularityWeight       float64

	// MinCommonMovies 两个用户至少需要共同评分超过该数量的电影才算候选邻居
	MinCommonMovies int

	// NeighborSimilarityThreshold 邻居相似度阈值（超过才保留）
	NeighborSimilarityThreshold float64

	// TopNeighbors 参与打分的相似邻居数
	TopNeighbors int

	// LikeThreshold 邻居评分达到该值才视为"喜欢"，进入候选集
	LikeThreshold float64

	// RatingCloseness 两人对同一部电影评分差不超过该值视为"意见一致"
	RatingCloseness float64

	// QuizMinResults quiz 过滤结果低于该数量时触发兜底
	QuizMinResults int

	// DiversityThreshold quiz 结果超过该数量才做多样性重排
	DiversityThreshold int

	// DiversityMinPerGenre 多样性分组时每个主类型至少保留的数量
	DiversityMinPerGenre int

	// DefaultTopN 普通策略的默认返回数量
	DefaultTopN int

	// DefaultHybridTopN hybrid / quiz 的默认返回数量
	DefaultHybridTopN int
}

// DefaultTunables 返回默认配置（与线上多版本拷贝中一致的取值）。
func DefaultTunables() Tunables {
	return Tunables{
		PopularityRatingWeight:      0.7,
		PopularityWeight:            0.3,
		MinCommonMovies:             2,
		NeighborSimilarityThreshold: 0.5,
		TopNeighbors:                5,
		LikeThreshold:               4,
		RatingCloseness:             1,
		QuizMinResults:              5,
		DiversityThreshold:          10,
		DiversityMinPerGenre:        2,
		DefaultTopN:                 10,
		DefaultHybridTopN:           20,
	}
}

// Normalize 把零值/非法字段回落到默认值，返回可直接使用的配置。
func (t Tunables) Normalize() Tunables {
	def := DefaultTunables()
	if t.PopularityRatingWeight <= 0 {
		t.PopularityRatingWeight = def.PopularityRatingWeight
	}
	if t.PopularityWeight <= 0 {
		t.PopularityWeight = def.PopularityWeight
	}
	if t.MinCommonMovies <= 0 {
		t.MinCommonMovies = def.MinCommonMovies
	}
	if t.NeighborSimilarityThreshold <= 0 {
		t.NeighborSimilarityThreshold = def.NeighborSimilarityThreshold
	}
	if t.TopNeighbors <= 0 {
		t.TopNeighbors = def.TopNeighbors
	}
	if t.LikeThreshold <= 0 {
		t.LikeThreshold = def.LikeThreshold
	}
	if t.RatingCloseness <= 0 {
		t.RatingCloseness = def.RatingCloseness
	}
	if t.QuizMinResults <= 0 {
		t.QuizMinResults = def.QuizMinResults
	}
	if t.DiversityThreshold <= 0 {
		t.DiversityThreshold = def.DiversityThreshold
	}
	if t.DiversityMinPerGenre <= 0 {
		t.DiversityMinPerGenre = def.DiversityMinPerGenre
	}
	if t.DefaultTopN <= 0 {
		t.DefaultTopN = def.DefaultTopN
	}
	if t.DefaultHybridTopN <= 0 {
		t.DefaultHybridTopN = def.DefaultHybridTopN
	}
	return t
}
