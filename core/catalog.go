package core

import "context"

// Catalog 是电影目录的领域接口：引擎生命周期内固定的一份只读快照。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - All 返回插入序（稳定），这一顺序同时是所有策略的最终平局判据
//   - ByID 未命中不是错误：返回 (nil, false)，由调用方决定如何降级（策略一律跳过）
type Catalog interface {
	// All 返回目录中全部电影，顺序稳定（插入序）
	All(ctx context.Context) []*Movie

	// ByID 按 ID 查找电影；未命中返回 (nil, false)
	ByID(ctx context.Context, id int64) (*Movie, bool)
}
