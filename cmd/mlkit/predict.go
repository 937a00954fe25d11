package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/mlkit/model"
)

func newPredictCmd() *cobra.Command {
	var modelPath string
	cmd := &cobra.Command{
		Use:   "predict <features.csv>",
		Short: "用已序列化的模型对特征 CSV 逐行预测",
		Long: `predict 读取一份列名与训练产物 feature_names 一致的数值特征 CSV，
逐行输出预测类别（二分类同时输出正类概率）。`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(args[0], modelPath)
		},
	}
	cmd.Flags().StringVarP(&modelPath, "model", "m", "best_model.json", "模型产物路径")
	return cmd
}

func runPredict(featurePath, modelPath string) error {
	art, clf, err := model.LoadArtifact(modelPath)
	if err != nil {
		return err
	}

	X, err := readFeatureCSV(featurePath, art.FeatureNames)
	if err != nil {
		return err
	}

	preds := clf.Predict(X)
	binary := len(art.Classes) == 2
	var probas []float64
	if binary {
		probas = clf.PredictProba(X)
	}

	for i, p := range preds {
		label := strconv.FormatFloat(p, 'g', -1, 64)
		if idx := int(p); idx >= 0 && idx < len(art.Classes) {
			label = art.Classes[idx]
		}
		if binary {
			fmt.Printf("%d\t%s\t%.6f\n", i, label, probas[i])
		} else {
			fmt.Printf("%d\t%s\n", i, label)
		}
	}
	return nil
}

// readFeatureCSV 按 names 给定的列顺序读出数值矩阵。
// 多余的列忽略，缺少的列报错。
func readFeatureCSV(path string, names []string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	colIdx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		colIdx[name] = i
	}
	order := make([]int, len(names))
	for j, name := range names {
		idx, ok := colIdx[name]
		if !ok {
			return nil, fmt.Errorf("%s: missing feature column %q", path, name)
		}
		order[j] = idx
	}

	rows := records[1:]
	X := mat.NewDense(len(rows), len(names), nil)
	for i, rec := range rows {
		for j, idx := range order {
			if idx >= len(rec) {
				return nil, fmt.Errorf("%s: row %d: too few fields", path, i+1)
			}
			v, err := strconv.ParseFloat(rec[idx], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d column %q: %w", path, i+1, names[j], err)
			}
			X.Set(i, j, v)
		}
	}
	return X, nil
}
