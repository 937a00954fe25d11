package pipeline_test

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rushteam/mlkit/clean"
	"github.com/rushteam/mlkit/config"
	_ "github.com/rushteam/mlkit/config/builders"
	"github.com/rushteam/mlkit/core"
	"github.com/rushteam/mlkit/dataset"
	"github.com/rushteam/mlkit/explain"
	"github.com/rushteam/mlkit/feature"
	"github.com/rushteam/mlkit/model"
	"github.com/rushteam/mlkit/pipeline"
	"github.com/rushteam/mlkit/train"
)

// writeTrainingCSV 生成一份可学的二分类数据集：
// x1 与标签强相关，x2 含缺失值，x3 纯噪声，note 是与标签相关的文本列。
func writeTrainingCSV(t *testing.T, rows int) string {
	t.Helper()
	rnd := rand.New(rand.NewSource(99))

	var b strings.Builder
	b.WriteString("x1,x2,x3,note,label\n")
	for i := 0; i < rows; i++ {
		label := "no"
		x1 := -1 - rnd.Float64()
		note := "quiet account nothing unusual"
		if i%2 == 0 {
			label = "yes"
			x1 = 1 + rnd.Float64()
			note = "angry complaint about billing"
		}
		x2 := fmt.Sprintf("%.3f", rnd.NormFloat64())
		if i%10 == 3 {
			x2 = "" // 缺失
		}
		fmt.Fprintf(&b, "%.3f,%s,%.3f,%s,%s\n", x1, x2, rnd.NormFloat64(), note, label)
	}

	path := filepath.Join(t.TempDir(), "train.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func fullPipeline(csvPath, outPath string) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Stages: []pipeline.Stage{
			&dataset.LoadStage{Path: csvPath},
			&clean.Stage{},
			&feature.BuildStage{MaxFeatures: 20},
			&train.SelectStage{Folds: 5},
			&explain.Stage{OutputPath: outPath},
		},
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	csvPath := writeTrainingCSV(t, 100)
	outPath := filepath.Join(t.TempDir(), "best_model.json")

	rctx := core.NewRunContext("label", 42)
	p := fullPipeline(csvPath, outPath)
	if err := p.Run(context.Background(), rctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rctx.Best == nil || rctx.BestName == "" {
		t.Fatal("no best model selected")
	}
	if rctx.Metric != "auc" {
		t.Errorf("Metric = %s, want auc for a binary target", rctx.Metric)
	}
	if rctx.Score < 0.8 {
		t.Errorf("Score = %v, want >= 0.8 on learnable data", rctx.Score)
	}
	if rctx.Report == nil || len(rctx.Report.Features) == 0 {
		t.Error("explanation report is empty")
	}
	if rctx.Dataset.MissingNumericCells() != 0 {
		t.Error("missing numeric cells survived cleaning")
	}

	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	art, restored, err := model.LoadArtifact(outPath)
	if err != nil {
		t.Fatalf("LoadArtifact: %v", err)
	}
	if art.Family != rctx.BestName {
		t.Errorf("artifact family = %s, want %s", art.Family, rctx.BestName)
	}
	if restored.Family() != rctx.BestName {
		t.Errorf("restored family = %s", restored.Family())
	}
}

func TestPipelineDeterministicUnderFixedSeed(t *testing.T) {
	csvPath := writeTrainingCSV(t, 80)

	run := func() *core.RunContext {
		outPath := filepath.Join(t.TempDir(), "model.json")
		rctx := core.NewRunContext("label", 7)
		if err := fullPipeline(csvPath, outPath).Run(context.Background(), rctx); err != nil {
			t.Fatalf("Run: %v", err)
		}
		return rctx
	}

	a, b := run(), run()
	if a.BestName != b.BestName {
		t.Errorf("winners differ: %s vs %s", a.BestName, b.BestName)
	}
	if a.Score != b.Score {
		t.Errorf("scores differ: %v vs %v", a.Score, b.Score)
	}
}

func TestPipelineAllFamiliesFailWritesNothing(t *testing.T) {
	csvPath := writeTrainingCSV(t, 40)
	outPath := filepath.Join(t.TempDir(), "model.json")

	p := &pipeline.Pipeline{
		Stages: []pipeline.Stage{
			&dataset.LoadStage{Path: csvPath},
			&clean.Stage{},
			&feature.BuildStage{MaxFeatures: 20},
			&train.SelectStage{Families: []train.FamilySpec{{Name: "no_such_family"}}},
			&explain.Stage{OutputPath: outPath},
		},
	}

	rctx := core.NewRunContext("label", 1)
	err := p.Run(context.Background(), rctx)
	if err == nil {
		t.Fatal("expected run to fail")
	}
	if !core.IsTraining(err) {
		t.Errorf("error = %v, want TRAINING", err)
	}
	if _, statErr := os.Stat(outPath); !os.IsNotExist(statErr) {
		t.Error("artifact file must not exist when every family fails")
	}
}

func TestPipelineFromYAMLConfig(t *testing.T) {
	csvPath := writeTrainingCSV(t, 60)
	outPath := filepath.Join(t.TempDir(), "model.json")

	yaml := fmt.Sprintf(`pipeline:
  name: test
  stages:
    - type: load.csv
      config:
        path: %s
    - type: clean.impute
      config:
        strategy: median
    - type: feature.build
      config:
        max_features: 10
    - type: train.select
      config:
        metric: accuracy
        folds: 3
        families: [decision_tree, knn]
    - type: explain.report
      config:
        output: %s
`, csvPath, outPath)

	cfgPath := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := pipeline.LoadFromYAML(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("ValidatePipelineConfig: %v", err)
	}

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if len(p.Stages) != 5 {
		t.Fatalf("stages = %d, want 5", len(p.Stages))
	}

	rctx := core.NewRunContext("label", 42)
	if err := p.Run(context.Background(), rctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rctx.Metric != "accuracy" {
		t.Errorf("Metric = %s, want accuracy", rctx.Metric)
	}
	if rctx.BestName != "decision_tree" && rctx.BestName != "knn" {
		t.Errorf("BestName = %s, want one of the configured families", rctx.BestName)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("artifact not written: %v", err)
	}
}

func TestValidatePipelineConfigUnknownType(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Stages = []pipeline.StageConfig{{Type: "train.magic"}}
	if err := config.ValidatePipelineConfig(cfg); err == nil {
		t.Error("expected error for unknown stage type")
	}
}
