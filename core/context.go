package core

import (
	"strings"

	"github.com/reelkit/reelkit/pkg/utils"
)

// RecommendContext 承载用户/场景/请求参数，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string // 使用 string 类型（通用，支持所有 ID 格式）
	Scene  string // 请求场景：home / detail / quiz / search ...

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	// 例如：新用户、重度用户、降级标记等
	Labels map[string]utils.Label

	// Params 请求级上下文参数，电影域常用 key：
	// - movie_title: 内容相似召回的种子标题
	// - genre: 单个类型（genre 召回）
	// - genres / tags: 逗号分隔串（quiz）
	// - year_start / year_end: 年代范围（quiz）
	// - query: 搜索词
	Params map[string]any
}

// ParamString 按 key 取字符串参数，取不到返回空串。
func (rctx *RecommendContext) ParamString(key string) string {
	if rctx == nil || rctx.Params == nil {
		return ""
	}
	if s, ok := rctx.Params[key].(string); ok {
		return s
	}
	return ""
}

// ParamInt 按 key 取整型参数；YAML/JSON 解析常得到 float64，此处一并兼容。
func (rctx *RecommendContext) ParamInt(key string) (int, bool) {
	if rctx == nil || rctx.Params == nil {
		return 0, false
	}
	switch v := rctx.Params[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// ParamList 按 key 取逗号分隔参数串，拆分、去空格、转小写后返回。
// "Drama, Sci-Fi" -> ["drama", "sci-fi"]；空参数返回 nil。
func (rctx *RecommendContext) ParamList(key string) []string {
	raw := rctx.ParamString(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
