package recall

import (
	"context"
	"sort"
	"strconv"

	"github.com/rushteam/playful/catalog"
	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/pipeline"
	"github.com/rushteam/playful/pkg/utils"
	"github.com/rushteam/playful/similarity"
)

// Ranker 读取相似度矩阵的一行，把所有物品按与种子的相似度降序排列。
//
// 排序规则：
//   - 分数降序
//   - 分数相同时按矩阵下标升序，保证同一矩阵下结果确定
//
// 种子自身（分数为 1）也在结果中，由过滤阶段的已拥有规则剔除。
// Ranker 只读共享的矩阵与映射表，可被并发调用。
type Ranker struct {
	Matrix  *similarity.Matrix
	Catalog *catalog.Catalog
}

// NewRanker 创建 Ranker，调用方保证 matrix 与 catalog 的 N 一致。
func NewRanker(m *similarity.Matrix, c *catalog.Catalog) *Ranker {
	return &Ranker{Matrix: m, Catalog: c}
}

// Rank 对全部物品排序。
func (r *Ranker) Rank(seedIndex int) ([]*core.Item, error) {
	return r.RankWithin(seedIndex, nil)
}

// RankWithin 只在 domain 给出的下标集合内排序；domain 为 nil 时表示全部物品。
// domain 中越界的下标返回 UNKNOWN_ITEM。
func (r *Ranker) RankWithin(seedIndex int, domain []int) ([]*core.Item, error) {
	row, err := r.Matrix.Row(seedIndex)
	if err != nil {
		return nil, err
	}

	if domain == nil {
		domain = make([]int, len(row))
		for i := range domain {
			domain[i] = i
		}
	}

	items := make([]*core.Item, 0, len(domain))
	for _, idx := range domain {
		id, err := r.Catalog.IDAt(idx)
		if err != nil {
			return nil, err
		}
		name, err := r.Catalog.NameAt(idx)
		if err != nil {
			return nil, err
		}
		it := core.NewItem(id, name, idx)
		it.Score = row[idx]
		items = append(items, it)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Index < items[j].Index
	})
	return items, nil
}

// ItemSimilarity 是以单个种子物品为输入的召回源，同时实现 Source 与 Node 接口，
// 可以直接作为每个种子 Pipeline 的第一个节点。
type ItemSimilarity struct {
	Ranker *Ranker

	// SeedIndex 是种子物品在矩阵中的下标
	SeedIndex int

	// SeedName 写入候选的 seed label，便于解释“因为你玩过 X”
	SeedName string
}

func (r *ItemSimilarity) Name() string        { return "recall.item_similarity" }
func (r *ItemSimilarity) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，忽略输入 items，直接调用 Recall
func (r *ItemSimilarity) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *ItemSimilarity) Recall(
	_ context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	items, err := r.Ranker.Rank(r.SeedIndex)
	if err != nil {
		return nil, err
	}
	seed := r.SeedName
	if seed == "" {
		seed = strconv.Itoa(r.SeedIndex)
	}
	for _, it := range items {
		it.PutLabel("recall_source", utils.Label{Value: "item_similarity", Source: "recall"})
		it.PutLabel("seed", utils.Label{Value: seed, Source: "recall"})
	}
	return items, nil
}

var (
	_ Source        = (*ItemSimilarity)(nil)
	_ pipeline.Node = (*ItemSimilarity)(nil)
)
