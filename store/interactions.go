package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/reelkit/reelkit/core"
)

// MemoryInteractions 是内存实现的 core.InteractionStore。
// 引擎视角只读；写入方法供请求层/测试灌数据用。
type MemoryInteractions struct {
	mu    sync.RWMutex
	users map[string]*core.UserInteractions
}

func NewMemoryInteractions() *MemoryInteractions {
	return &MemoryInteractions{
		users: make(map[string]*core.UserInteractions),
	}
}

var _ core.InteractionStore = (*MemoryInteractions)(nil)

// SetUser 整体写入一个用户的交互画像。
func (m *MemoryInteractions) SetUser(userID string, ui core.UserInteractions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = &ui
}

// AddRating 追加一条评分。
func (m *MemoryInteractions) AddRating(userID string, movieID int64, rating float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ui, ok := m.users[userID]
	if !ok {
		ui = &core.UserInteractions{RatedMovies: make(map[int64]float64)}
		m.users[userID] = ui
	}
	if ui.RatedMovies == nil {
		ui.RatedMovies = make(map[int64]float64)
	}
	ui.RatedMovies[movieID] = rating
}

func (m *MemoryInteractions) GetUserRatings(_ context.Context, userID string) (map[int64]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ui, ok := m.users[userID]
	if !ok || ui.RatedMovies == nil {
		return map[int64]float64{}, nil
	}
	return ui.RatedMovies, nil
}

func (m *MemoryInteractions) GetAllUsers(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]string, 0, len(m.users))
	for id := range m.users {
		users = append(users, id)
	}
	sort.Strings(users)
	return users, nil
}

func (m *MemoryInteractions) GetWatchHistory(_ context.Context, userID string) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ui, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	return ui.WatchHistory, nil
}

func (m *MemoryInteractions) GetPreferredGenres(_ context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ui, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	return ui.PreferredGenres, nil
}

// StoreInteractions 是基于 core.Store 的交互数据适配器。
//
// key 约定：
//   - 单用户画像：{KeyPrefix}:user:{userID}（JSON 的 core.UserInteractions）
//   - 用户列表：{KeyPrefix}:users（JSON 字符串数组）
//
// 未命中一律按"未知用户"处理：返回空数据，不返回错误。
type StoreInteractions struct {
	store core.Store

	// KeyPrefix 是存储 key 的前缀，默认 "interactions"
	KeyPrefix string
}

func NewStoreInteractions(s core.Store, keyPrefix string) *StoreInteractions {
	if keyPrefix == "" {
		keyPrefix = "interactions"
	}
	return &StoreInteractions{store: s, KeyPrefix: keyPrefix}
}

var _ core.InteractionStore = (*StoreInteractions)(nil)

func (a *StoreInteractions) getUser(ctx context.Context, userID string) (*core.UserInteractions, error) {
	data, err := a.store.Get(ctx, a.KeyPrefix+":user:"+userID)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return &core.UserInteractions{}, nil
		}
		return nil, err
	}
	var ui core.UserInteractions
	if err := json.Unmarshal(data, &ui); err != nil {
		return nil, err
	}
	return &ui, nil
}

func (a *StoreInteractions) GetUserRatings(ctx context.Context, userID string) (map[int64]float64, error) {
	ui, err := a.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ui.RatedMovies == nil {
		return map[int64]float64{}, nil
	}
	return ui.RatedMovies, nil
}

func (a *StoreInteractions) GetAllUsers(ctx context.Context) ([]string, error) {
	data, err := a.store.Get(ctx, a.KeyPrefix+":users")
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var users []string
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (a *StoreInteractions) GetWatchHistory(ctx context.Context, userID string) ([]int64, error) {
	ui, err := a.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ui.WatchHistory, nil
}

func (a *StoreInteractions) GetPreferredGenres(ctx context.Context, userID string) ([]string, error) {
	ui, err := a.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ui.PreferredGenres, nil
}
