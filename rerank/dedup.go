package rerank

import (
	"context"

	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/pipeline"
)

// Selected 是单次请求中已经被推荐过的物品名称集合。
// 它以值的方式在种子循环中传递：每个种子拿到前面所有种子的结果，
// 返回的新集合再交给下一个种子，调用方之间不共享可变状态。
type Selected map[string]struct{}

// Has 判断名称是否已被推荐。
func (s Selected) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// With 返回包含 items 名称的新集合，原集合不变。
func (s Selected) With(items []*core.Item) Selected {
	out := make(Selected, len(s)+len(items))
	for k := range s {
		out[k] = struct{}{}
	}
	for _, it := range items {
		out[it.Name] = struct{}{}
	}
	return out
}

// DedupNode 是跨种子去重节点：跳过名称已在 Selected 中的候选，
// 同一个候选因种子 1 被推荐后，不会再因种子 2 被推荐。
// 同一批输入内的重复名称也只保留第一个。
type DedupNode struct {
	Selected Selected
}

func (n *DedupNode) Name() string {
	return "rerank.dedup"
}

func (n *DedupNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *DedupNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	seen := make(map[string]struct{}, 32)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || n.Selected.Has(it.Name) {
			continue
		}
		if _, dup := seen[it.Name]; dup {
			continue
		}
		seen[it.Name] = struct{}{}
		out = append(out, it)
	}
	return out, nil
}
