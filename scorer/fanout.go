package scorer

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cinerank/cinerank/core"
)

// Fanout 并发执行一组打分源，收齐全部结果后一次性返回。
//
// 这是 fan-out/fan-in，不是带背压的流水线：各源之间没有数据依赖，
// blend 是同步点，必须等所有被调用的源完成或失败。
//
// 每个源独立限时（Timeout），一个慢源不会把整条链路拖过有界上限；
// 源失败只记录到返回的错误表里，不中断其他源，权重重分配由编排层决定。
// 调用方取消 ctx 时，在途的源调用被协作式取消，半成品结果整体丢弃。
type Fanout struct {
	Sources map[string]Source

	// Timeout 每个打分源的超时时间（0 表示不限时）
	Timeout time.Duration
}

// Run 运行 names 指定的源（通常是策略权重表里的源），
// 返回 源名 → 候选列表 和 源名 → 错误。两张表的 key 不相交。
func (f *Fanout) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	names []string,
) (map[string][]*core.ScoredCandidate, map[string]error) {
	var (
		mu      sync.Mutex
		results = make(map[string][]*core.ScoredCandidate, len(names))
		errs    = make(map[string]error)
	)

	// 未注册的源在启动任何 goroutine 前先记账，之后 errs 只在 mu 下写
	pending := make([]Source, 0, len(names))
	for _, name := range names {
		src, ok := f.Sources[name]
		if !ok {
			errs[name] = core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternalError,
				"scorer: unknown source "+name)
			continue
		}
		pending = append(pending, src)
	}

	eg, egCtx := errgroup.WithContext(ctx)

	for _, src := range pending {
		src := src
		eg.Go(func() error {
			scoreCtx := egCtx
			if f.Timeout > 0 {
				var cancel context.CancelFunc
				scoreCtx, cancel = context.WithTimeout(egCtx, f.Timeout)
				defer cancel()
			}

			items, err := src.Score(scoreCtx, rctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[src.Name()] = err
				return nil
			}
			results[src.Name()] = items
			return nil
		})
	}

	// Go 回调永远返回 nil，Wait 只用作同步点
	_ = eg.Wait()

	// 整个请求被取消时丢弃半成品，不做部分混排
	if ctx.Err() != nil {
		for name := range results {
			delete(results, name)
			errs[name] = ctx.Err()
		}
	}

	return results, errs
}
