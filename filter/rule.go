package filter

import (
	"context"

	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/pkg/dsl"
)

// RuleFilter 用 CEL 表达式声明过滤条件，表达式为 true 时剔除物品。
// 例如 `item.name.contains("Soundtrack")`。表达式在构建时编译一次。
type RuleFilter struct {
	program *dsl.Program
}

// NewRuleFilter 编译表达式并创建过滤器。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	p, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{program: p}, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

// Expr 返回原始表达式。
func (f *RuleFilter) Expr() string {
	return f.program.String()
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	return f.program.Evaluate(item, rctx)
}
