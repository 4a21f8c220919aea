package core

import "context"

// UserInteractions 是单个用户的稀疏交互画像。
// 协同过滤只读 RatedMovies；WatchHistory 供已看过滤，
// PreferredGenres 供请求层在缺省参数时兜底选择类型。
type UserInteractions struct {
	// RatedMovies 是 movieID -> 评分（1..5）
	RatedMovies map[int64]float64 `json:"rated_movies"`

	// WatchHistory 是用户看过的电影 ID 列表
	WatchHistory []int64 `json:"watch_history,omitempty"`

	// PreferredGenres 是用户声明过的偏好类型
	PreferredGenres []string `json:"preferred_genres,omitempty"`
}

// InteractionStore 是用户-电影交互数据的领域接口。
// 引擎视角下只读；未知用户不是错误——返回空数据，策略随之降级到热门。
type InteractionStore interface {
	// GetUserRatings 获取用户的评分记录 movieID -> rating；未知用户返回空 map
	GetUserRatings(ctx context.Context, userID string) (map[int64]float64, error)

	// GetAllUsers 获取所有出现过交互的用户 ID 列表
	GetAllUsers(ctx context.Context) ([]string, error)

	// GetWatchHistory 获取用户的观看历史；未知用户返回空
	GetWatchHistory(ctx context.Context, userID string) ([]int64, error)

	// GetPreferredGenres 获取用户声明的偏好类型；未知用户返回空
	GetPreferredGenres(ctx context.Context, userID string) ([]string, error)
}
