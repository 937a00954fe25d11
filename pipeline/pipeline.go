package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rushteam/mlkit/core"
)

// Pipeline 是 mlkit 的核心抽象：把训练流程拆成可组合的 Stage 链
// （Load → Clean → Feature → Train → Explain）。
//
// 控制流严格顺序执行：每个 Stage 恰好运行一次，前一个 Stage 的产物
// 通过 RunContext 交给下一个 Stage；任一 Stage 出错即中止整次运行。
type Pipeline struct {
	Stages []Stage
	Logger *zap.Logger // 为 nil 时使用 zap.NewNop()
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return zap.NewNop()
}

// Run 顺序执行所有 Stage。
func (p *Pipeline) Run(ctx context.Context, rctx *core.RunContext) error {
	log := p.logger()
	log.Info("pipeline start",
		zap.String("run_id", rctx.RunID),
		zap.String("target", rctx.Target),
		zap.Int64("seed", rctx.Seed),
		zap.Int("stages", len(p.Stages)),
	)
	for _, stage := range p.Stages {
		began := time.Now()
		if err := stage.Process(ctx, rctx); err != nil {
			log.Error("stage failed",
				zap.String("stage", stage.Name()),
				zap.String("kind", string(stage.Kind())),
				zap.Error(err),
			)
			return fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		log.Info("stage done",
			zap.String("stage", stage.Name()),
			zap.String("kind", string(stage.Kind())),
			zap.Duration("took", time.Since(began)),
		)
	}
	log.Info("pipeline done", zap.String("run_id", rctx.RunID))
	return nil
}
