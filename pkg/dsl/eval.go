package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/reelkit/reelkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// initCELEnv 初始化 CEL 环境，定义变量。
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("movie", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境。
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Eval 是规则 DSL 解释器，使用 CEL (Common Expression Language) 实现。
// 用于配置驱动的编辑规则，例如把低分片、某些类型从结果里剔除。
//
// 表达式语法（CEL 标准语法）：
//   - 电影字段：movie.rating < 5.0 / movie.year >= 2000
//   - 文本：movie.genres.contains("Horror")
//   - 标签：label.recall_source == "popular"
//   - 逻辑：movie.rating < 5.0 && movie.year < 1990
//   - 上下文：rctx.scene == "quiz"
type Eval struct {
	item *core.Item
	rctx *core.RecommendContext
}

// NewEval 创建一个新的 DSL 解释器。
func NewEval(item *core.Item, rctx *core.RecommendContext) *Eval {
	return &Eval{item: item, rctx: rctx}
}

// Evaluate 编译并执行表达式，返回布尔结果。
// 非布尔结果或编译失败返回 error，由调用方决定保留还是剔除该 item。
func (e *Eval) Evaluate(expr string) (bool, error) {
	env, err := getCELEnv()
	if err != nil {
		return false, fmt.Errorf("cel env: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return false, fmt.Errorf("compile %q: %w", expr, iss.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program %q: %w", expr, err)
	}

	out, _, err := prg.Eval(e.activation())
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", expr, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eval %q: result is %T, want bool", expr, out.Value())
	}
	return b, nil
}

// activation 把 Item/Movie/Labels/Context 展平为 CEL 变量。
func (e *Eval) activation() map[string]any {
	itemVars := map[string]any{}
	movieVars := map[string]any{}
	labelVars := map[string]any{}
	rctxVars := map[string]any{}

	if e.item != nil {
		itemVars["id"] = e.item.ID
		itemVars["score"] = e.item.Score
		for k, lbl := range e.item.Labels {
			labelVars[k] = lbl.Value
		}
		if m := e.item.Movie; m != nil {
			movieVars["id"] = m.ID
			movieVars["title"] = m.Title
			movieVars["genres"] = m.Genres
			movieVars["rating"] = m.Rating
			movieVars["popularity"] = m.Popularity
			movieVars["year"] = m.Year
			movieVars["director"] = m.Director
			movieVars["cast"] = m.Cast
			movieVars["keywords"] = m.Keywords
		}
	}
	if e.rctx != nil {
		rctxVars["user_id"] = e.rctx.UserID
		rctxVars["scene"] = e.rctx.Scene
	}

	return map[string]any{
		"item":  itemVars,
		"movie": movieVars,
		"label": labelVars,
		"rctx":  rctxVars,
	}
}
