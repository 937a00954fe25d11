package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rushteam/mlkit/clean"
	"github.com/rushteam/mlkit/config"
	_ "github.com/rushteam/mlkit/config/builders"
	"github.com/rushteam/mlkit/core"
	"github.com/rushteam/mlkit/dataset"
	"github.com/rushteam/mlkit/explain"
	"github.com/rushteam/mlkit/feature"
	"github.com/rushteam/mlkit/pipeline"
	"github.com/rushteam/mlkit/store"
	"github.com/rushteam/mlkit/train"
)

type trainOptions struct {
	target     string
	configPath string
	output     string
	chart      string
	metric     string
	seed       int64
	folds      int
	families   []string
	verbose    bool
}

func newTrainCmd() *cobra.Command {
	opts := &trainOptions{}
	cmd := &cobra.Command{
		Use:   "train <dataset.csv>",
		Short: "对数据集执行端到端训练并序列化最优模型",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "目标列名称（必填，除非 --config 里指定流水线）")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "流水线配置文件（YAML/JSON），指定后覆盖默认五阶段")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "best_model.json", "模型产物输出路径")
	cmd.Flags().StringVar(&opts.chart, "chart", "", "特征归因柱状图输出路径（PNG，可选）")
	cmd.Flags().StringVarP(&opts.metric, "metric", "m", "", "选型指标：auc / accuracy / f1 / logloss（默认自动）")
	cmd.Flags().Int64Var(&opts.seed, "seed", 42, "全局随机种子")
	cmd.Flags().IntVar(&opts.folds, "folds", 0, "交叉验证折数（默认 5）")
	cmd.Flags().StringSliceVar(&opts.families, "families", nil, "参与选型的模型族（默认四族全跑）")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "输出结构化日志")

	return cmd
}

func runTrain(ctx context.Context, datasetPath string, opts *trainOptions) error {
	if opts.target == "" {
		return fmt.Errorf("--target is required")
	}

	logger := zap.NewNop()
	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
		defer logger.Sync()
	}

	kv := store.NewMemoryStore()
	defer kv.Close()
	recorder := store.NewRunRecorder(kv)

	var p *pipeline.Pipeline
	if opts.configPath != "" {
		cfg, err := loadPipelineConfig(opts.configPath)
		if err != nil {
			return err
		}
		if err := config.ValidatePipelineConfig(cfg); err != nil {
			return err
		}
		p, err = cfg.BuildPipeline(config.DefaultFactory())
		if err != nil {
			return err
		}
	} else {
		p = defaultPipeline(datasetPath, opts, recorder, logger)
	}
	p.Logger = logger

	rctx := core.NewRunContext(opts.target, opts.seed)
	rctx.Params["dataset"] = datasetPath
	rctx.Params["output"] = opts.output

	if err := p.Run(ctx, rctx); err != nil {
		return err
	}

	fmt.Printf("best model:   %s\n", rctx.BestName)
	fmt.Printf("metric:       %s = %.6f\n", rctx.Metric, rctx.Score)
	if skipped, ok := rctx.GetLabel("skipped"); ok && skipped != "" {
		fmt.Printf("skipped:      %s\n", skipped)
	}
	if path, ok := rctx.GetLabel("artifact"); ok {
		fmt.Printf("artifact:     %s\n", path)
	}
	if rctx.Report != nil {
		fmt.Println("top features:")
		for _, fi := range rctx.Report.TopN(10) {
			fmt.Printf("  %-32s %+.6f\n", fi.Name, fi.Importance)
		}
	}
	if board, err := recorder.Scoreboard(ctx, rctx.RunID); err == nil && len(board) > 0 {
		fmt.Println("candidates:")
		for _, c := range board {
			fmt.Printf("  %-24s %.6f\n", c.Family, c.Score)
		}
	}
	return nil
}

func loadPipelineConfig(path string) (*pipeline.Config, error) {
	if strings.HasSuffix(path, ".json") {
		return pipeline.LoadFromJSON(path)
	}
	return pipeline.LoadFromYAML(path)
}

func defaultPipeline(datasetPath string, opts *trainOptions, recorder *store.RunRecorder, logger *zap.Logger) *pipeline.Pipeline {
	sel := &train.SelectStage{
		Metric:   opts.metric,
		Folds:    opts.folds,
		Recorder: recorder,
		Logger:   logger,
	}
	for _, name := range opts.families {
		sel.Families = append(sel.Families, train.FamilySpec{Name: name})
	}

	return &pipeline.Pipeline{
		Stages: []pipeline.Stage{
			&dataset.LoadStage{Path: datasetPath},
			&clean.Stage{},
			&feature.BuildStage{},
			sel,
			&explain.Stage{
				OutputPath: opts.output,
				ChartPath:  opts.chart,
				Recorder:   recorder,
				Logger:     logger,
			},
		},
	}
}
