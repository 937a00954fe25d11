package train

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rushteam/mlkit/core"
	"github.com/rushteam/mlkit/model"
	"github.com/rushteam/mlkit/pipeline"
)

// FamilySpec 描述一个参与选型的模型族及其超参数配置。
type FamilySpec struct {
	Name   string
	Config map[string]any
}

// DefaultFamilies 返回默认参与选型的四个模型族。
func DefaultFamilies() []FamilySpec {
	return []FamilySpec{
		{Name: "logistic_regression"},
		{Name: "decision_tree"},
		{Name: "random_forest"},
		{Name: "gradient_boosting"},
	}
}

// ScoreRecorder 记录候选分数与运行元数据（由 store.RunRecorder 实现，可选）。
type ScoreRecorder interface {
	RecordScore(ctx context.Context, runID, family string, score float64) error
	RecordMeta(ctx context.Context, runID string, meta map[string]string) error
}

// SelectStage 是选型阶段：按配置顺序逐族训练候选模型，
// 用单一指标交叉验证打分，取最高分的候选为 BestModel。
//
// 规则：
//   - 分数严格更高才替换，恰好打平时先训练的候选胜出
//   - 某个族训练失败只剔除该候选并记录警告，不中止运行
//   - 所有族都失败时整个阶段失败（TRAINING）
//   - 胜出者在全量特征矩阵上重训后进入解释/序列化阶段
type SelectStage struct {
	Families []FamilySpec // 为空时使用 DefaultFamilies
	Metric   string       // 为空时自动选择：二分类 auc，多分类 accuracy
	Folds    int          // 交叉验证折数，默认 5；<= 1 时用 holdout
	Holdout  float64      // holdout 模式的测试集比例，默认 0.2
	Recorder ScoreRecorder
	Logger   *zap.Logger
}

func (s *SelectStage) Name() string        { return "train.select" }
func (s *SelectStage) Kind() pipeline.Kind { return pipeline.KindTrain }

func (s *SelectStage) Process(ctx context.Context, rctx *core.RunContext) error {
	if rctx.Features == nil || len(rctx.Y) == 0 {
		return core.NewDomainError(core.ModuleTrain, core.ErrorCodeInvalidInput,
			"train: feature matrix not built")
	}
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}

	families := s.Families
	if len(families) == 0 {
		families = DefaultFamilies()
	}
	folds := s.Folds
	if folds == 0 {
		folds = 5
	}
	nClasses := len(rctx.Classes)
	metric := s.resolveMetric(nClasses, log)

	var (
		bestName  string
		bestCfg   map[string]any
		bestScore float64
		found     bool
		skipped   []string
	)
	for _, spec := range families {
		score, err := CrossValidate(spec.Name, spec.Config, rctx.Features, rctx.Y,
			metric, folds, s.Holdout, rctx.Seed, nClasses)
		if err != nil {
			// 单个族训练失败只剔除该候选
			log.Warn("candidate skipped",
				zap.String("family", spec.Name),
				zap.Error(err),
			)
			skipped = append(skipped, spec.Name)
			continue
		}
		log.Info("candidate scored",
			zap.String("family", spec.Name),
			zap.String("metric", metric),
			zap.Float64("score", score),
		)
		if s.Recorder != nil {
			if err := s.Recorder.RecordScore(ctx, rctx.RunID, spec.Name, score); err != nil {
				log.Warn("record score failed", zap.String("family", spec.Name), zap.Error(err))
			}
		}
		// 严格更高才替换：打平时先训练的候选胜出
		if !found || score > bestScore {
			found = true
			bestName = spec.Name
			bestCfg = spec.Config
			bestScore = score
		}
	}

	if !found {
		return core.NewDomainError(core.ModuleTrain, core.ErrorCodeTraining,
			fmt.Sprintf("train: all %d candidate families failed", len(families)))
	}

	// 胜出者在全量数据上重训
	best, err := model.New(bestName, bestCfg, rctx.Seed)
	if err != nil {
		return core.NewDomainError(core.ModuleTrain, core.ErrorCodeTraining,
			fmt.Sprintf("train: %v", err))
	}
	if err := best.Fit(rctx.Features.Data, rctx.Y); err != nil {
		return core.NewDomainError(core.ModuleTrain, core.ErrorCodeTraining,
			fmt.Sprintf("train: refit %s: %v", bestName, err))
	}

	rctx.Best = best
	rctx.BestName = bestName
	rctx.Score = bestScore
	rctx.Metric = metric
	rctx.PutLabel("best", bestName)
	rctx.PutLabel("score", strconv.FormatFloat(bestScore, 'f', 4, 64))
	if len(skipped) > 0 {
		rctx.PutLabel("skipped", strings.Join(skipped, ","))
	}

	if s.Recorder != nil {
		meta := map[string]string{
			"best":   bestName,
			"metric": metric,
			"score":  strconv.FormatFloat(bestScore, 'f', 6, 64),
			"rows":   strconv.Itoa(rctx.Features.Rows()),
		}
		if err := s.Recorder.RecordMeta(ctx, rctx.RunID, meta); err != nil {
			log.Warn("record meta failed", zap.Error(err))
		}
	}

	log.Info("best model selected",
		zap.String("family", bestName),
		zap.String("metric", metric),
		zap.Float64("score", bestScore),
	)
	return nil
}

// resolveMetric 指标为空时按类数自动选择；auc/f1/logloss 只支持二分类，
// 配多分类时在训练开始前就回退 accuracy，而不是等每一折打分报错。
func (s *SelectStage) resolveMetric(nClasses int, log *zap.Logger) string {
	metric := s.Metric
	if metric == "" {
		if nClasses == 2 {
			return MetricAUC
		}
		return MetricAccuracy
	}
	switch metric {
	case MetricAUC, MetricF1, MetricLogLoss:
		if nClasses != 2 {
			log.Warn("metric needs a binary target, falling back to accuracy",
				zap.String("metric", metric),
				zap.Int("classes", nClasses))
			return MetricAccuracy
		}
	}
	return metric
}

var _ pipeline.Stage = (*SelectStage)(nil)
