package explain

import (
	"context"

	"go.uber.org/zap"

	"github.com/rushteam/mlkit/core"
	"github.com/rushteam/mlkit/model"
	"github.com/rushteam/mlkit/pipeline"
)

// DefaultOutputPath 是模型产物的默认落盘路径。
const DefaultOutputPath = "best_model.json"

// ArtifactRecorder 把产物字节落库（由 store.RunRecorder 实现，可选）。
type ArtifactRecorder interface {
	RecordArtifact(ctx context.Context, runID string, data []byte) error
}

// Stage 是解释/序列化阶段：
//  1. 对 BestModel 计算置换特征归因（模型无关），写入 RunContext.Report
//  2. 把 BestModel 序列化为单个 JSON 产物文件
//
// 产物路径不可写时返回 SERIALIZATION 错误，且运行视为失败。
type Stage struct {
	OutputPath string // 为空时读 RunContext.Params["output"]，再退到 DefaultOutputPath
	ChartPath  string // 为空时不渲染柱状图
	Repeats    int    // 每个特征的打乱次数，默认 5
	TopN       int    // 柱状图展示的特征数，默认 15
	Recorder   ArtifactRecorder
	Logger     *zap.Logger
}

func (s *Stage) Name() string        { return "explain.report" }
func (s *Stage) Kind() pipeline.Kind { return pipeline.KindExplain }

func (s *Stage) Process(ctx context.Context, rctx *core.RunContext) error {
	if rctx.Best == nil || rctx.Features == nil {
		return core.NewDomainError(core.ModuleExplain, core.ErrorCodeInvalidInput,
			"explain: best model not selected")
	}
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}

	repeats := s.Repeats
	if repeats == 0 {
		repeats = 5
	}
	report, err := PermutationImportance(rctx.Best, rctx.Features, rctx.Y,
		rctx.Metric, len(rctx.Classes), repeats, rctx.Seed)
	if err != nil {
		return core.NewDomainError(core.ModuleExplain, core.ErrorCodeData, err.Error())
	}
	rctx.Report = report

	if s.ChartPath != "" {
		topN := s.TopN
		if topN == 0 {
			topN = 15
		}
		if err := RenderChart(report, s.ChartPath, topN); err != nil {
			// 图表是附加产物，渲染失败不中止运行
			log.Warn("chart render failed", zap.String("path", s.ChartPath), zap.Error(err))
		}
	}

	art, err := model.NewArtifact(rctx.Best, rctx)
	if err != nil {
		return err
	}

	path := s.OutputPath
	if path == "" {
		path, _ = rctx.Param("output", "").(string)
	}
	if path == "" {
		path = DefaultOutputPath
	}
	if err := art.Save(path); err != nil {
		return err
	}
	rctx.PutLabel("artifact", path)

	if s.Recorder != nil {
		data, err := art.Bytes()
		if err == nil {
			if err := s.Recorder.RecordArtifact(ctx, rctx.RunID, data); err != nil {
				log.Warn("record artifact failed", zap.Error(err))
			}
		}
	}

	log.Info("model serialized",
		zap.String("family", rctx.BestName),
		zap.String("path", path),
	)
	return nil
}

var _ pipeline.Stage = (*Stage)(nil)
