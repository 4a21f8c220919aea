package store

import (
	"context"
	"encoding/json"

	"github.com/reelkit/reelkit/core"
)

// MemoryCatalog 是内存实现的 core.Catalog：一份不可变的目录快照。
// All 按插入序返回——这一顺序是全部策略的最终平局判据，构建后不再变化。
// 换一批电影就构建一个新的 MemoryCatalog（以及新的文本索引）。
type MemoryCatalog struct {
	movies []*core.Movie
	byID   map[int64]*core.Movie
}

// NewMemoryCatalog 从电影列表构建目录快照；重复 ID 保留第一次出现的。
func NewMemoryCatalog(movies ...*core.Movie) *MemoryCatalog {
	c := &MemoryCatalog{
		movies: make([]*core.Movie, 0, len(movies)),
		byID:   make(map[int64]*core.Movie, len(movies)),
	}
	for _, m := range movies {
		if m == nil {
			continue
		}
		if _, exists := c.byID[m.ID]; exists {
			continue
		}
		c.byID[m.ID] = m
		c.movies = append(c.movies, m)
	}
	return c
}

var _ core.Catalog = (*MemoryCatalog)(nil)

func (c *MemoryCatalog) All(_ context.Context) []*core.Movie {
	return c.movies
}

func (c *MemoryCatalog) ByID(_ context.Context, id int64) (*core.Movie, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// Len 返回目录大小。
func (c *MemoryCatalog) Len() int { return len(c.movies) }

// LoadCatalog 从 Store 读取目录快照（JSON 数组）并构建 MemoryCatalog。
// 导入管线写入，引擎侧只读；key 缺失视为空目录错误。
func LoadCatalog(ctx context.Context, s core.Store, key string) (*MemoryCatalog, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.ErrEmptyCatalog
		}
		return nil, err
	}

	var movies []*core.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: bad snapshot json: "+err.Error())
	}
	return NewMemoryCatalog(movies...), nil
}

// SaveCatalog 把目录快照写回 Store（JSON 数组），供导入管线/测试使用。
func SaveCatalog(ctx context.Context, s core.Store, key string, movies []*core.Movie) error {
	data, err := json.Marshal(movies)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, data)
}
