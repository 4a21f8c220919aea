package core

import "context"

// SimilarityIndex 是内容相似索引的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（vector）实现
//   - 索引对一份 Catalog 快照构建一次，之后不可变、可并发读；
//     换目录就换索引，不支持增量更新
//
// 约定：
//   - MostSimilar 做精确（大小写不敏感）标题查找；标题未命中返回 (nil, false)，
//     由内容召回策略负责热门兜底——调用方因此总能拿到一份列表
//   - 结果不含种子电影本身；同分按目录序稳定排序
type SimilarityIndex interface {
	// MostSimilar 返回与 title 对应电影最相似的 topN 部电影
	MostSimilar(ctx context.Context, title string, topN int) ([]*Item, bool)

	// Similarity 返回两部电影的相似度，范围 [0,1]；未知 ID 返回 0
	Similarity(a, b int64) float64
}
