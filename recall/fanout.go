package recall

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/pipeline"
)

// SeedResult 是单个种子 Pipeline 的执行结果。
type SeedResult struct {
	Items []*core.Item
	Err   error
}

// SeedFanout 并发执行多个种子的 Pipeline（召回 + 过滤），按种子顺序返回结果。
//
// 各种子之间互不依赖，单个种子出错只记录在对应的 SeedResult 中，不中断其他种子。
// 跨种子去重依赖种子优先级，必须由调用方在拿到全部结果后按顺序完成。
type SeedFanout struct {
	// MaxConcurrent 最大并发数（0 表示无限制）
	MaxConcurrent int

	// Sequential 为 true 时在当前 goroutine 中依次执行，便于调试
	Sequential bool
}

func (f *SeedFanout) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	pipelines []*pipeline.Pipeline,
) []SeedResult {
	results := make([]SeedResult, len(pipelines))
	if len(pipelines) == 0 {
		return results
	}

	if f == nil || f.Sequential || len(pipelines) == 1 {
		for i, p := range pipelines {
			items, err := p.Run(ctx, rctx, nil)
			results[i] = SeedResult{Items: items, Err: err}
		}
		return results
	}

	var eg errgroup.Group
	if f.MaxConcurrent > 0 {
		eg.SetLimit(f.MaxConcurrent)
	}
	for i, p := range pipelines {
		eg.Go(func() error {
			// 每个 goroutine 只写自己的下标，无需加锁
			items, err := p.Run(ctx, rctx, nil)
			results[i] = SeedResult{Items: items, Err: err}
			return nil
		})
	}
	_ = eg.Wait()
	return results
}
