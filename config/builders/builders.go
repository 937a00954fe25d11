// Package builders 通过 init 注册内置 Stage 的配置构建器。
// 入口处 import _ "github.com/rushteam/mlkit/config/builders" 即可启用配置驱动。
package builders

import (
	"github.com/rushteam/mlkit/clean"
	"github.com/rushteam/mlkit/config"
	"github.com/rushteam/mlkit/dataset"
	"github.com/rushteam/mlkit/explain"
	"github.com/rushteam/mlkit/feature"
	"github.com/rushteam/mlkit/pipeline"
	"github.com/rushteam/mlkit/pkg/conv"
	"github.com/rushteam/mlkit/train"
)

func init() {
	config.Register("load.csv", buildLoadStage)
	config.Register("clean.impute", buildCleanStage)
	config.Register("feature.build", buildFeatureStage)
	config.Register("train.select", buildSelectStage)
	config.Register("explain.report", buildExplainStage)
}

func buildLoadStage(cfg map[string]any) (pipeline.Stage, error) {
	s := &dataset.LoadStage{
		Path: conv.ConfigGet[string](cfg, "path", ""),
	}
	if sep := conv.ConfigGet[string](cfg, "comma", ""); sep != "" {
		s.Comma = rune(sep[0])
	}
	return s, nil
}

func buildCleanStage(cfg map[string]any) (pipeline.Stage, error) {
	return &clean.Stage{
		Strategy:         conv.ConfigGet[string](cfg, "strategy", ""),
		Constant:         conv.ConfigGetFloat64(cfg, "constant", 0),
		Filter:           conv.ConfigGet[string](cfg, "filter", ""),
		DropMissingRatio: conv.ConfigGetFloat64(cfg, "drop_missing_ratio", 0),
	}, nil
}

func buildFeatureStage(cfg map[string]any) (pipeline.Stage, error) {
	return &feature.BuildStage{
		MaxFeatures: int(conv.ConfigGetInt64(cfg, "max_features", 0)),
		NGramMax:    int(conv.ConfigGetInt64(cfg, "ngram_max", 0)),
		StopWords:   conv.SliceAnyToString(cfg["stop_words"]),
		UseVariance: conv.ConfigGet[bool](cfg, "use_variance", false),
		Threshold:   conv.ConfigGetFloat64(cfg, "variance_threshold", 0),
	}, nil
}

func buildSelectStage(cfg map[string]any) (pipeline.Stage, error) {
	s := &train.SelectStage{
		Metric:  conv.ConfigGet[string](cfg, "metric", ""),
		Folds:   int(conv.ConfigGetInt64(cfg, "folds", 0)),
		Holdout: conv.ConfigGetFloat64(cfg, "holdout", 0),
	}

	// families 支持两种写法：
	//   families: [random_forest, knn]                  # 字符串列表，默认配置
	//   families: [{name: random_forest, config: {...}}] # 带超参
	raw, ok := cfg["families"].([]any)
	if !ok {
		return s, nil
	}
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			s.Families = append(s.Families, train.FamilySpec{Name: v})
		case map[string]any:
			spec := train.FamilySpec{
				Name: conv.ConfigGet[string](v, "name", ""),
			}
			if sub, ok := v["config"].(map[string]any); ok {
				spec.Config = sub
			}
			if spec.Name != "" {
				s.Families = append(s.Families, spec)
			}
		}
	}
	return s, nil
}

func buildExplainStage(cfg map[string]any) (pipeline.Stage, error) {
	return &explain.Stage{
		OutputPath: conv.ConfigGet[string](cfg, "output", ""),
		ChartPath:  conv.ConfigGet[string](cfg, "chart", ""),
		Repeats:    int(conv.ConfigGetInt64(cfg, "repeats", 0)),
		TopN:       int(conv.ConfigGetInt64(cfg, "top_n", 0)),
	}, nil
}
