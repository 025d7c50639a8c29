// Package dsl 基于 CEL (Common Expression Language) 对候选物品求值布尔表达式，
// 用于以规则形式声明的过滤条件，例如按名称前缀排除原声带、DLC 等非游戏条目。
package dsl

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/playful/core"
)

// NewEnv 创建 CEL 环境，声明可用变量：
//   - item: {id, name, index, score, labels}
//   - rctx: {user_id, params, labels}
func NewEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("rctx", cel.MapType(cel.StringType, cel.DynType)),
	)
}

// Program 是编译好的表达式，线程安全，可被多个请求复用。
//
// 表达式语法（CEL 标准语法）：
//   - item.name == "Dawn of Discovery"
//   - item.name.startsWith("Soundtrack") || item.name.contains("Demo")
//   - item.score < 0.1
//   - item.id in [440, 570]
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式；表达式必须返回布尔值。
func Compile(expr string) (*Program, error) {
	env, err := NewEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if ast.OutputType() != cel.BoolType && ast.OutputType() != cel.DynType {
		return nil, fmt.Errorf("expression must return bool, got %v", ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Evaluate 对单个候选物品求值。
func (p *Program) Evaluate(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = v.Value
	}

	in := map[string]any{
		"item": map[string]any{
			"id":     item.ID,
			"name":   item.Name,
			"index":  int64(item.Index),
			"score":  item.Score,
			"labels": labels,
		},
		"rctx": map[string]any{},
	}
	if rctx != nil {
		params := rctx.Params
		if params == nil {
			params = map[string]any{}
		}
		rlabels := make(map[string]any, len(rctx.Labels))
		for k, v := range rctx.Labels {
			rlabels[k] = v.Value
		}
		in["rctx"] = map[string]any{
			"user_id": rctx.UserID,
			"params":  params,
			"labels":  rlabels,
		}
	}
	return in
}
