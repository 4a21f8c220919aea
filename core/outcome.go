package core

// Source 标识一次结果实际由哪个策略产出（含兜底后生效的那个）。
type Source string

const (
	SourcePopular       Source = "popular"
	SourceContent       Source = "content"
	SourceGenre         Source = "genre"
	SourceCollaborative Source = "collaborative"
	SourceHybrid        Source = "hybrid"
	SourceQuiz          Source = "quiz"
	SourceSearch        Source = "search"
)

// Outcome 是策略调用的类型化结果。
// 旧逻辑用裸 except/兜底把"有意降级"和"吞掉真 bug"混为一谈；
// 这里保留"从不向调用方抛错"的行为，但把降级显式化：
//   - Degraded 为 true 表示请求的策略没能产出，结果来自兜底
//   - Source 是实际产出结果的策略
//   - Err 记录触发降级的原因（仅供观测/日志，不代表失败）
type Outcome struct {
	Items    []*Item
	Source   Source
	Degraded bool
	Err      error
}

// Movies 把结果展开为电影记录（请求层的常用形态）。
func (o Outcome) Movies() []*Movie {
	out := make([]*Movie, 0, len(o.Items))
	for _, it := range o.Items {
		if it != nil && it.Movie != nil {
			out = append(out, it.Movie)
		}
	}
	return out
}

// Ok 构造正常结果。
func Ok(src Source, items []*Item) Outcome {
	return Outcome{Items: items, Source: src}
}

// Fallback 构造降级结果：请求策略失败，items 来自 actual 策略。
func Fallback(actual Source, items []*Item, err error) Outcome {
	return Outcome{Items: items, Source: actual, Degraded: true, Err: err}
}
