// Package recommend 组合单个用户的推荐结果。
//
// 根据已拥有物品数量选择策略：
//   - 已拥有 < GroupThreshold：单种子策略，使用量最高的物品作为种子，取 Top K
//   - 已拥有 >= GroupThreshold：多种子策略，使用量最高的 G 个物品各贡献 R 个，跨种子按名称去重
//
// 每个种子的候选都经过同一条 Node 链：
//
//	recall.item_similarity → filter.node(owned, denylist, ...) → rerank.dedup → rerank.topn
//
// 召回与过滤只依赖只读的 Engine，可按种子并发；去重依赖前面种子的结果，按种子顺序串行执行。
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/filter"
	"github.com/rushteam/playful/metrics"
	"github.com/rushteam/playful/pipeline"
	"github.com/rushteam/playful/pkg/logging"
	"github.com/rushteam/playful/pkg/utils"
	"github.com/rushteam/playful/recall"
	"github.com/rushteam/playful/rerank"
)

// Composer 为用户组合推荐结果。创建后只读，可被并发调用。
type Composer struct {
	engine *Engine
	cfg    Config

	// filters 是每个种子共享的过滤节点（已拥有过滤总在最前）
	filters []pipeline.Node
	fanout  *recall.SeedFanout
}

// Option 配置 Composer。
type Option func(*Composer)

// WithNodes 在已拥有/黑名单过滤之后追加过滤节点，例如由配置构建的规则过滤。
func WithNodes(nodes ...pipeline.Node) Option {
	return func(c *Composer) {
		c.filters = append(c.filters, nodes...)
	}
}

// WithDenylist 使用给定的黑名单过滤器替代 cfg.Denylist，通常来自 filter.LoadDenylistFilter。
func WithDenylist(f *filter.DenylistFilter) Option {
	return func(c *Composer) {
		c.filters[0] = &filter.FilterNode{Filters: []filter.Filter{filter.NewOwnedFilter(), f}}
	}
}

// NewComposer 创建 Composer，非正数参数使用默认值。
func NewComposer(engine *Engine, cfg Config, opts ...Option) *Composer {
	cfg = cfg.normalize()
	c := &Composer{
		engine: engine,
		cfg:    cfg,
		filters: []pipeline.Node{
			&filter.FilterNode{Filters: []filter.Filter{
				filter.NewOwnedFilter(),
				filter.NewDenylistFilter(cfg.Denylist),
			}},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.Parallel {
		c.fanout = &recall.SeedFanout{MaxConcurrent: cfg.MaxConcurrent}
	} else {
		c.fanout = &recall.SeedFanout{Sequential: true}
	}
	return c
}

// Config 返回生效的参数。
func (c *Composer) Config() Config {
	return c.cfg
}

// PolicyFor 返回 owned 对应的策略。
func (c *Composer) PolicyFor(owned []core.UsageRecord) Policy {
	switch {
	case len(owned) == 0:
		return PolicyNone
	case len(owned) < c.cfg.GroupThreshold:
		return PolicySingle
	default:
		return PolicyGroups
	}
}

// Recommend 根据 owned 的数量选择策略并组合推荐。
// owned 为空时返回 PolicyNone 的空结果。
func (c *Composer) Recommend(ctx context.Context, owned []core.UsageRecord) (*Result, error) {
	return c.RecommendFor(ctx, core.NewRecommendContext("", owned))
}

// RecommendFor 与 Recommend 相同，但使用调用方构建的请求上下文。
func (c *Composer) RecommendFor(ctx context.Context, rctx *core.RecommendContext) (res *Result, err error) {
	policy := c.PolicyFor(rctx.Owned)
	rctx.PutLabel("policy", utils.Label{Value: string(policy), Source: "composer"})
	start := time.Now()
	defer func() {
		n := 0
		if res != nil {
			n = len(res.Items)
		}
		metrics.ObserveRecommend(string(policy), start, n, err)
	}()

	switch policy {
	case PolicyNone:
		return &Result{Policy: PolicyNone, SeedNames: []string{}, Items: []Recommendation{}}, nil
	case PolicySingle:
		return c.single(ctx, rctx)
	default:
		return c.groups(ctx, rctx)
	}
}

// Single 使用单种子策略：使用量最高的已拥有物品作为种子，返回至多 K 个推荐。
func (c *Composer) Single(ctx context.Context, owned []core.UsageRecord) (*Result, error) {
	if len(owned) == 0 {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput, "single seed policy needs at least one owned item")
	}
	return c.single(ctx, core.NewRecommendContext("", owned))
}

// Groups 使用多种子策略：使用量最高的 G 个物品依次作为种子，每个种子贡献至多 R 个推荐，
// 结果中名称不重复。某个种子的候选不足 R 个时不从其他种子补齐。
func (c *Composer) Groups(ctx context.Context, owned []core.UsageRecord) (*Result, error) {
	if len(owned) == 0 {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput, "group policy needs at least one owned item")
	}
	return c.groups(ctx, core.NewRecommendContext("", owned))
}

// seed 是一个已解析到矩阵下标的种子。
type seed struct {
	ItemID int64
	Index  int
	Name   string
}

// resolveSeeds 取使用量最高的 n 个已拥有物品，跳过目录中不存在的物品。
func (c *Composer) resolveSeeds(ctx context.Context, owned []core.UsageRecord, n int) ([]seed, []int64) {
	sorted := core.SortByUsage(owned)
	if n > len(sorted) {
		n = len(sorted)
	}

	seeds := make([]seed, 0, n)
	var skipped []int64
	for _, rec := range sorted[:n] {
		idx, err := c.engine.Catalog.Index(rec.ItemID)
		if err != nil {
			logging.Ctx(ctx).Warn().
				Int64("item_id", rec.ItemID).
				Int64("usage", rec.Amount).
				Msg("owned item not in catalog, seed skipped")
			metrics.SeedsSkipped.Inc()
			skipped = append(skipped, rec.ItemID)
			continue
		}
		name, _ := c.engine.Catalog.NameAt(idx)
		seeds = append(seeds, seed{ItemID: rec.ItemID, Index: idx, Name: name})
	}
	return seeds, skipped
}

// basePipeline 是单个种子的召回 + 过滤部分。
func (c *Composer) basePipeline(s seed) *pipeline.Pipeline {
	nodes := make([]pipeline.Node, 0, len(c.filters)+1)
	nodes = append(nodes, &recall.ItemSimilarity{
		Ranker:    c.engine.Ranker,
		SeedIndex: s.Index,
		SeedName:  s.Name,
	})
	nodes = append(nodes, c.filters...)
	return &pipeline.Pipeline{Nodes: nodes}
}

func (c *Composer) single(ctx context.Context, rctx *core.RecommendContext) (*Result, error) {
	res := &Result{Policy: PolicySingle, SeedNames: []string{}, Items: []Recommendation{}}

	seeds, skipped := c.resolveSeeds(ctx, rctx.Owned, 1)
	res.Skipped = skipped
	if len(seeds) == 0 {
		return res, nil
	}
	s := seeds[0]

	p := c.basePipeline(s).Append(&rerank.TopNNode{N: c.cfg.TopK})
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, fmt.Errorf("seed %q: %w", s.Name, err)
	}

	res.SeedNames = append(res.SeedNames, s.Name)
	res.Items = toRecommendations(items, s.Name)
	return res, nil
}

func (c *Composer) groups(ctx context.Context, rctx *core.RecommendContext) (*Result, error) {
	res := &Result{Policy: PolicyGroups, SeedNames: []string{}, Items: []Recommendation{}}

	seeds, skipped := c.resolveSeeds(ctx, rctx.Owned, c.cfg.Groups)
	res.Skipped = skipped
	if len(seeds) == 0 {
		return res, nil
	}

	pipelines := make([]*pipeline.Pipeline, len(seeds))
	for i, s := range seeds {
		pipelines[i] = c.basePipeline(s)
	}
	candidates := c.fanout.Run(ctx, rctx, pipelines)

	// 按种子优先级依次去重：前面种子选中的名称对后面的种子不可见
	selected := rerank.Selected{}
	for i, s := range seeds {
		if err := candidates[i].Err; err != nil {
			return nil, fmt.Errorf("seed %q: %w", s.Name, err)
		}
		tail := &pipeline.Pipeline{Nodes: []pipeline.Node{
			&rerank.DedupNode{Selected: selected},
			&rerank.TopNNode{N: c.cfg.PerGroup},
		}}
		picked, err := tail.Run(ctx, rctx, candidates[i].Items)
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", s.Name, err)
		}
		selected = selected.With(picked)

		recs := toRecommendations(picked, s.Name)
		res.SeedNames = append(res.SeedNames, s.Name)
		res.Items = append(res.Items, recs...)
		res.Groups = append(res.Groups, Group{Seed: s.Name, Items: recs})
	}
	return res, nil
}

func toRecommendations(items []*core.Item, seedName string) []Recommendation {
	out := make([]Recommendation, 0, len(items))
	for _, it := range items {
		out = append(out, Recommendation{
			ID:    it.ID,
			Name:  it.Name,
			Score: it.Score,
			Seed:  seedName,
		})
	}
	return out
}

// Items 返回目录中的物品数量。
func (c *Composer) Items() int {
	return c.engine.Len()
}
